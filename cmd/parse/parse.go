// Package parse handles single statement conversion commands
package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/internal/export"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parser"
)

var (
	inputFile string
	format    string
	delimiter string
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one statement text export",
	Long: `Parse a raw text export of a bank account statement into a structured,
categorized statement.

The bank code selects the line format. The input is read from --input, or
from stdin when no file is given. Output is the statement as JSON, or a
flat CSV of transactions with --format csv.

Example:
  statement-core parse -u maria -b pichincha -i estado_enero.txt -o enero.json`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input text file (default stdin)")
	Cmd.Flags().StringVar(&format, "format", "json", "Output format: json or csv")
	Cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV delimiter for --format csv")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	if err := root.RequireUserAndBank(); err != nil {
		return err
	}
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown output format %q (must be 'json' or 'csv')", format)
	}
	if format == "csv" && delimiter == "" {
		return fmt.Errorf("--delimiter must not be empty")
	}

	text, err := readInput()
	if err != nil {
		return err
	}

	root.Log.Info("Parse command called",
		logging.Field{Key: "bank", Value: root.SharedFlags.Bank},
		logging.Field{Key: "user", Value: root.SharedFlags.User},
		logging.Field{Key: "known_banks", Value: strings.Join(parser.Banks(), ", ")})

	result, err := root.GetContainer().Service.Process(cmd.Context(), root.SharedFlags.User, root.SharedFlags.Bank, text)
	if err != nil {
		return err
	}

	out, closeOut, err := root.OpenOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	if format == "csv" {
		return export.WriteCSV(out, result, []rune(delimiter)[0])
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Statement); err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	return nil
}

func readInput() (string, error) {
	if inputFile == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(inputFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
