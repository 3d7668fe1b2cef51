package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/appctx"
	"github.com/vulntor/portsniff/pkg/config"
	"github.com/vulntor/portsniff/pkg/logging"
	"github.com/vulntor/portsniff/pkg/scanner"
)

const cliExecutable = "portsniff"

// NewCommand constructs the top-level portsniff command. Run without a
// subcommand it scans one address.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "portsniff is a fast concurrent TCP port scanner",
		Long: `portsniff attempts a TCP connection to every port in [start, end) on one
address, with up to --concurrency attempts in flight, and lists the open
ports in ascending order.`,
		Example: `  portsniff -a 192.168.1.10 -s 1 -e 1024
  portsniff -a ::1 -e 9000 -o json`,
		Args: func(cmd *cobra.Command, args []string) error {
			return scanner.NewInvalidArgumentError(cobra.NoArgs(cmd, args))
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			manager := config.NewManager()
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return reportError(cmd, fmt.Errorf("load configuration: %w", err))
			}

			logCfg := manager.Get().Log
			if err := logging.ConfigureGlobalLogging(logging.Options{
				Level:  logCfg.Level,
				Format: logCfg.Format,
				File:   logCfg.File,
			}); err != nil {
				return reportError(cmd, err)
			}
			log.Debug().Str("config", configFile).Str("log_level", logCfg.Level).Msg("configuration loaded")

			cmd.SetContext(appctx.WithConfig(cmd.Context(), manager))
			return nil
		},
		RunE: runScan,
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return scanner.NewInvalidArgumentError(err)
	})

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summaries and suggestions")
	config.BindFlags(cmd.PersistentFlags())

	config.BindScanFlags(cmd.Flags())

	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(NewDiscoverCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs cmd and closes the log file opened during pre-run, whether or
// not the command succeeded.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if closeErr := logging.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close log file: %w", closeErr)
	}
	return err
}

// reportError prints err before any scan output exists and marks it reported.
func reportError(cmd *cobra.Command, err error) error {
	if printErr := format.FromCommand(cmd).PrintError(err); printErr != nil {
		return err
	}
	return format.Reported(err)
}
