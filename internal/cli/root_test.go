package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "carbondash", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"serve", "fetch", "peek", "summary", "export", "init", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCmd_PersistentFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, flag := range []string{"config", "url", "data", "timeout", "log-level", "log-format", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	out := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, out)
	assert.Equal(t, "o", out.Shorthand)
}

func TestGetRenderer_Fallback(t *testing.T) {
	r := GetRenderer(context.Background())
	require.NotNil(t, r, "missing renderer should fall back, not panic")
}

func TestNewCompletionCommand_Args(t *testing.T) {
	cmd := NewCompletionCommand()

	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
	assert.Error(t, cmd.Args(cmd, []string{}), "a shell argument is required")
	assert.Error(t, cmd.Args(cmd, []string{"tcsh"}), "unknown shells are rejected")
	assert.NoError(t, cmd.Args(cmd, []string{"zsh"}))
}
