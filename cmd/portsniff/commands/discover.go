package commands

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/bind"
	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/discovery"
)

// newProber builds the prober used by discover; tests swap the pinger factory.
var newProber = discovery.NewProber

// NewDiscoverCommand returns the ICMP liveness check command.
func NewDiscoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "discover [address]",
		Short:   "Check whether a host answers ICMP echo requests",
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDiscover,
	}

	def := discovery.DefaultOptions()
	cmd.Flags().Int("count", def.Count, "Echo requests to send")
	cmd.Flags().Duration("interval", def.Interval, "Delay between echo requests")
	cmd.Flags().Duration("ping-timeout", def.Timeout, "Time budget for the whole check")
	cmd.Flags().Bool("privileged", false, "Use raw ICMP sockets (requires root)")
	cmd.Flags().StringP("output", "o", string(format.ModeText), "Output format: text, json, yaml, table")

	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)
	logger := log.With().Str("command", "discover").Logger()

	opts, err := bind.BindDiscoverOptions(cmd, args)
	if err != nil {
		return reportFailure(formatter, "discover", err)
	}

	prober := newProber(opts.Ping)
	effective := prober.Options()
	logger.Info().
		Str("address", opts.Address).
		Int("count", effective.Count).
		Dur("timeout", effective.Timeout).
		Bool("privileged", effective.Privileged).
		Msg("Pinging host")

	start := time.Now()
	result, err := prober.Check(cmd.Context(), opts.Address)
	if err != nil {
		code := "PING_FAILURE"
		if errors.Is(err, discovery.ErrInvalidHost) {
			code = "INVALID_HOST"
		}
		logger.Error().Err(err).Msg("Ping failed")
		if printErr := formatter.PrintTotalFailureSummary("discover", err, code); printErr != nil {
			return err
		}
		return format.Reported(err)
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Bool("alive", result.Alive).Msg("Ping finished")
	return formatter.PrintDiscovery(result)
}
