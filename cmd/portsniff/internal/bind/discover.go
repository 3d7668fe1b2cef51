package bind

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/vulntor/portsniff/pkg/discovery"
	"github.com/vulntor/portsniff/pkg/scanner"
)

// DiscoverOptions holds configuration for the discover command.
type DiscoverOptions struct {
	Address string
	Ping    discovery.Options
}

// BindDiscoverOptions extracts the discover target and ping flags.
//
// Flags read:
//   - --count: Echo requests to send (>= 1)
//   - --interval: Delay between echo requests
//   - --ping-timeout: Budget for the whole check
//   - --privileged: Use raw ICMP sockets (requires root)
func BindDiscoverOptions(cmd *cobra.Command, args []string) (DiscoverOptions, error) {
	address := scanner.DefaultAddress
	if len(args) > 0 {
		address = args[0]
	}

	ping := discovery.DefaultOptions()
	flags := cmd.Flags()
	if f := flags.Lookup("count"); f != nil {
		ping.Count = cast.ToInt(f.Value.String())
	}
	if f := flags.Lookup("interval"); f != nil {
		ping.Interval = cast.ToDuration(f.Value.String())
	}
	if f := flags.Lookup("ping-timeout"); f != nil {
		ping.Timeout = cast.ToDuration(f.Value.String())
	}
	if f := flags.Lookup("privileged"); f != nil {
		ping.Privileged = cast.ToBool(f.Value.String())
	}

	if ping.Count < 1 {
		return DiscoverOptions{}, scanner.NewInvalidArgumentError(fmt.Errorf("count must be at least 1: %d", ping.Count))
	}
	if ping.Timeout <= 0 || ping.Interval <= 0 {
		return DiscoverOptions{}, scanner.NewInvalidArgumentError(errors.New("interval and ping timeout must be positive"))
	}
	if ping.Timeout > time.Hour {
		return DiscoverOptions{}, scanner.NewInvalidArgumentError(fmt.Errorf("ping timeout too large: %s", ping.Timeout))
	}

	return DiscoverOptions{Address: address, Ping: ping}, nil
}
