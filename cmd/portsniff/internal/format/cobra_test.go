package format

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFromCommandRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output", "text", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("no-color", false, "")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	require.NoError(t, cmd.Flags().Set("output", "json"))
	require.NoError(t, cmd.Flags().Set("quiet", "true"))
	require.NoError(t, cmd.Flags().Set("no-color", "true"))

	formatter := FromCommand(cmd)
	require.Equal(t, ModeJSON, formatter.Mode())

	require.NoError(t, formatter.PrintSummary("should be suppressed"))
	require.Empty(t, out.String())
	require.Empty(t, errOut.String())
}

func TestFromCommandDefaultsToText(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	formatter := FromCommand(cmd)
	require.Equal(t, ModeText, formatter.Mode())
}

func TestFromCommandWithModeOverridesFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output", "text", "")
	cmd.SetOut(&bytes.Buffer{})

	formatter := FromCommandWithMode(cmd, ModeYAML)
	require.Equal(t, ModeYAML, formatter.Mode())
}
