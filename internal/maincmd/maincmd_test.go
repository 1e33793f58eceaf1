package maincmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiresExactlyOneRunMode(t *testing.T) {
	c := &Cmd{}
	require.Error(t, c.Validate())

	c = &Cmd{}
	c.SetArgs([]string{"main.wisp"})
	require.NoError(t, c.Validate())

	c = &Cmd{Module: "a"}
	require.NoError(t, c.Validate())

	c = &Cmd{Doc: "a"}
	require.NoError(t, c.Validate())

	c = &Cmd{Repl: true}
	require.NoError(t, c.Validate())
}

func TestValidateRejectsConflictingRunModes(t *testing.T) {
	c := &Cmd{Module: "a", Repl: true}
	require.Error(t, c.Validate())

	c = &Cmd{Module: "a", Doc: "b"}
	require.Error(t, c.Validate())
}

func TestValidateTreatsTrailingArgsAsScriptArgvNotAPath(t *testing.T) {
	// once -m selects the run mode, any remaining positional args are the
	// script's own argv, not a second, conflicting path argument.
	c := &Cmd{Module: "a"}
	c.SetArgs([]string{"extra"})
	require.NoError(t, c.Validate())
}

func TestValidateSkipsModeCheckForHelpAndVersion(t *testing.T) {
	c := &Cmd{Help: true}
	require.NoError(t, c.Validate())

	c = &Cmd{Version: true}
	require.NoError(t, c.Validate())
}
