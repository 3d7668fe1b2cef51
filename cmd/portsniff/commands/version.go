package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	v "github.com/vulntor/portsniff/pkg/version"
)

// NewVersionCommand prints build metadata.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := v.GetVersion()
			out := cmd.OutOrStdout()

			formatter := format.FromCommand(cmd)
			switch formatter.Mode() {
			case format.ModeJSON:
				return formatter.PrintJSON(info)
			case format.ModeYAML:
				return formatter.PrintYAML(info)
			}

			fmt.Fprintf(out, "%s version: %s\n", cliExecutable, info.Version)
			if short {
				return nil
			}
			if info.Tag != "" {
				fmt.Fprintf(out, "Tag: %s\n", info.Tag)
			}
			if info.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", info.Commit)
			}
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Compiler: %s\n", info.Compiler)
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	cmd.Flags().StringP("output", "o", string(format.ModeText), "Output format: text, json, yaml")

	return cmd
}
