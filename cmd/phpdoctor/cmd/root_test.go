package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: a root command

	// When: executing with --help
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()

	// Then: it should show usage information
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "phpdoctor", "Help should mention program name")
	assert.Contains(t, output, "Usage:", "Help should show usage")
}

func TestRootCmd_ShowsVersion(t *testing.T) {
	// Given: a root command

	// When: executing with --version
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()

	// Then: it should show version
	require.NoError(t, err)
	output := buf.String()
	hasVersion := strings.Contains(output, "dev") || strings.Contains(output, "0.")
	assert.True(t, hasVersion, "Version output should contain a version number or 'dev'")
	assert.Contains(t, output, "phpdoctor", "Version output should mention program name")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: a root command

	// When: checking available commands
	cmd := NewRootCmd()

	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	// Then: all user-facing subcommands should exist
	assert.Contains(t, commandNames, "doctor", "Should have doctor subcommand")
	assert.Contains(t, commandNames, "watch", "Should have watch subcommand")
	assert.Contains(t, commandNames, "history", "Should have history subcommand")
	assert.Contains(t, commandNames, "config", "Should have config subcommand")
	assert.Contains(t, commandNames, "version", "Should have version subcommand")
}

func TestRootCmd_HasSkipCheckFlag(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// Then: it should have --skip-check flag defaulting to false
	flag := cmd.Flags().Lookup("skip-check")
	require.NotNil(t, flag, "Should have --skip-check flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_HasDebugFlag(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()

	// Then: it should have a persistent --debug flag
	flag := cmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, flag, "Should have --debug flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestDoctorCmd_ShowsHelp(t *testing.T) {
	// Given: a root command

	// When: executing doctor --help
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doctor", "--help"})

	err := cmd.Execute()

	// Then: it should show the doctor usage with its flags
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "doctor", "Doctor help should mention doctor")
	assert.Contains(t, output, "--json", "Doctor help should list the --json flag")
	assert.Contains(t, output, "--force", "Doctor help should list the --force flag")
}

func TestWatchCmd_ShowsHelp(t *testing.T) {
	// Given: a root command

	// When: executing watch --help
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"watch", "--help"})

	err := cmd.Execute()

	// Then: it should show the watch usage
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "watch", "Watch help should mention watch")
}
