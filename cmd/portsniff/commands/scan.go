package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/bind"
	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/scanner"
)

func runScan(cmd *cobra.Command, _ []string) error {
	logger := log.With().Str("command", "scan").Logger()

	opts, err := bind.BindScanOptions(cmd)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to bind scan options")
		return reportFailure(format.FromCommand(cmd), "scan", err)
	}
	formatter := format.FromCommandWithMode(cmd, opts.Output)

	s := scanner.New().
		WithConnector(&scanner.TCPConnector{Timeout: opts.Timeout}).
		WithConcurrency(opts.Concurrency).
		WithProgress(newProgress(opts.Progress, cmd.OutOrStdout(), cmd.ErrOrStderr())).
		WithLogger(logger)

	logger.Info().
		Str("address", opts.Request.Address).
		Int("start", opts.Request.Start).
		Int("end", opts.Request.End).
		Int("concurrency", s.Concurrency()).
		Dur("timeout", opts.Timeout).
		Msg("Starting scan")

	report, runErr := s.Run(cmd.Context(), opts.Request)
	if report == nil {
		return reportFailure(formatter, "scan", runErr)
	}

	if err := formatter.PrintReport(report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if runErr != nil {
		if formatter.Mode() == format.ModeJSON || formatter.Mode() == format.ModeYAML {
			// The document on stdout already carries "canceled".
			return format.Reported(runErr)
		}
		return reportFailure(formatter, "scan", runErr)
	}

	if formatter.Mode() == format.ModeTable {
		_ = formatter.PrintSummary(fmt.Sprintf("✓ %d open of %d attempted in %s",
			len(report.OpenPorts), report.Attempted, report.Duration))
	}
	return nil
}

// reportFailure prints err with suggestions and marks it as reported so main
// only sets the exit code.
func reportFailure(formatter format.Formatter, operation string, err error) error {
	if printErr := formatter.PrintTotalFailureSummary(operation, err, scanner.ErrorCode(err)); printErr != nil {
		return err
	}
	return format.Reported(err)
}
