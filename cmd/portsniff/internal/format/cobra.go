package format

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// FromCommand builds a Formatter using cobra command output/error writers and common flags.
func FromCommand(cmd *cobra.Command) Formatter {
	outputMode := ModeText
	if flag := cmd.Flags().Lookup("output"); flag != nil {
		outputMode = ParseMode(flag.Value.String())
	}
	return FromCommandWithMode(cmd, outputMode)
}

// FromCommandWithMode is FromCommand with the output mode resolved by the
// caller, typically from merged configuration.
func FromCommandWithMode(cmd *cobra.Command, outputMode OutputMode) Formatter {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	quiet := false
	if flag := cmd.Flags().Lookup("quiet"); flag != nil {
		quiet = cast.ToBool(flag.Value.String())
	}

	// fatih/color already disables itself for NO_COLOR and non-terminals.
	useColor := !color.NoColor
	if flag := cmd.Flags().Lookup("no-color"); flag != nil && cast.ToBool(flag.Value.String()) {
		useColor = false
	}

	// Cobra defaults to stderr being nil in some paths; ensure we have a fallback.
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return New(stdout, stderr, outputMode, quiet, useColor)
}
