package root_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/cmd/root"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "statement-core", root.Cmd.Use)
	assert.NotEmpty(t, root.Cmd.Short)
	assert.NotEmpty(t, root.Cmd.Long)
	assert.NotNil(t, root.Cmd.RunE)
}

func TestInit_RegistersSharedFlags(t *testing.T) {
	root.Init()

	for _, name := range []string{"user", "bank", "output"} {
		assert.NotNil(t, root.Cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRequireUserAndBank(t *testing.T) {
	originalUser := root.SharedFlags.User
	originalBank := root.SharedFlags.Bank
	defer func() {
		root.SharedFlags.User = originalUser
		root.SharedFlags.Bank = originalBank
	}()

	root.SharedFlags.User = ""
	root.SharedFlags.Bank = ""
	require.Error(t, root.RequireUserAndBank())

	root.SharedFlags.User = "maria"
	require.Error(t, root.RequireUserAndBank())

	root.SharedFlags.Bank = "pichincha"
	assert.NoError(t, root.RequireUserAndBank())
}
