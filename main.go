package main

import (
	"fmt"
	"os"

	"github.com/appContable/statement-core/cmd/batch"
	"github.com/appContable/statement-core/cmd/learn"
	"github.com/appContable/statement-core/cmd/parse"
	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/cmd/rules"
	"github.com/appContable/statement-core/cmd/seed"
	"github.com/appContable/statement-core/cmd/usage"

	_ "github.com/appContable/statement-core/internal/guayaquilparser"
	_ "github.com/appContable/statement-core/internal/pichinchaparser"
	_ "github.com/appContable/statement-core/internal/produbancoparser"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(learn.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(usage.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
