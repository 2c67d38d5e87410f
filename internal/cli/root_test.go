package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tutorbook", cmd.Use)
	assert.Contains(t, cmd.Long, "ledger")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"student", "add"}, {"student", "update"}, {"student", "delete"}, {"student", "list"},
		{"teacher", "add"}, {"teacher", "update"}, {"teacher", "delete"},
		{"class", "add"}, {"class", "update"}, {"class", "delete"},
		{"attendance", "set"}, {"attendance", "clear-date"}, {"attendance", "clear-month"},
		{"invoice", "generate"}, {"invoice", "cancel"}, {"invoice", "pay"}, {"invoice", "list"},
		{"payroll", "generate"},
		{"ledger", "adjust"}, {"ledger", "edit"}, {"ledger", "delete"}, {"ledger", "audit"}, {"ledger", "clear"},
		{"report", "month"},
		{"backup", "export"}, {"backup", "restore"},
		{"storage", "status"}, {"storage", "to-file"}, {"storage", "to-fallback"}, {"storage", "reset"},
		{"clear"},
		{"scenario", "run"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

func TestStudentAddFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"student", "add"})
	require.NoError(t, err)

	for _, name := range []string{"id", "name", "phone", "parent", "email", "status", "class"} {
		assert.NotNil(t, addCmd.Flags().Lookup(name), name)
	}
}

func TestScenarioRunFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"scenario", "run"})
	require.NoError(t, err)

	updateFlag := runCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	require.NotNil(t, runCmd.Flags().Lookup("filter"))
	require.NotNil(t, runCmd.Flags().Lookup("golden-dir"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "storage", "status"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
