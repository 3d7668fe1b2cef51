// Package discovery checks host liveness with ICMP echo requests before a
// port scan is started.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/go-ping/ping"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidHost is returned when the address to probe is not an IP.
var ErrInvalidHost = errors.New("invalid host address")

// Pinger is the subset of go-ping used by Prober.
type Pinger interface {
	Run() error
	Stop()
	Statistics() *ping.Statistics

	SetPrivileged(bool)
	SetCount(int)
	SetInterval(time.Duration)
	SetTimeout(time.Duration)
	GetTimeout() time.Duration
}

// PingerFactory creates a Pinger for ip.
type PingerFactory func(ip string) (Pinger, error)

// Options tune a liveness check.
type Options struct {
	Count      int
	Interval   time.Duration
	Timeout    time.Duration
	Privileged bool
}

// DefaultOptions sends a single unprivileged echo with a three second budget.
func DefaultOptions() Options {
	return Options{
		Count:    1,
		Interval: time.Second,
		Timeout:  3 * time.Second,
	}
}

// Result is the outcome of a liveness check.
type Result struct {
	Address     string        `json:"address" yaml:"address"`
	Alive       bool          `json:"alive" yaml:"alive"`
	PacketsSent int           `json:"packets_sent" yaml:"packets_sent"`
	PacketsRecv int           `json:"packets_recv" yaml:"packets_recv"`
	AvgRtt      time.Duration `json:"avg_rtt" yaml:"avg_rtt"`
}

// Prober runs ICMP liveness checks.
type Prober struct {
	opts    Options
	factory PingerFactory
	logger  zerolog.Logger
}

// NewProber returns a Prober backed by go-ping. Invalid option values fall
// back to DefaultOptions.
func NewProber(opts Options) *Prober {
	def := DefaultOptions()
	if opts.Count < 1 {
		opts.Count = def.Count
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}

	logger := log.With().Str("component", "discovery").Logger()
	if opts.Privileged && runtime.GOOS != "windows" && os.Geteuid() != 0 {
		logger.Warn().Msg("privileged ping requested without root, falling back to unprivileged")
		opts.Privileged = false
	}

	return &Prober{
		opts:    opts,
		factory: newRealPinger,
		logger:  logger,
	}
}

// WithFactory returns a copy of p that builds pingers with f.
func (p *Prober) WithFactory(f PingerFactory) *Prober {
	cp := *p
	cp.factory = f
	return &cp
}

// Options returns the effective options.
func (p *Prober) Options() Options {
	return p.opts
}

// Check pings address and reports whether any echo reply arrived. An
// unreachable host is not an error.
func (p *Prober) Check(ctx context.Context, address string) (Result, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidHost, address)
	}
	res := Result{Address: ip.String()}

	pinger, err := p.factory(res.Address)
	if err != nil {
		return res, fmt.Errorf("create pinger for %s: %w", res.Address, err)
	}
	pinger.SetPrivileged(p.opts.Privileged)
	pinger.SetCount(p.opts.Count)
	pinger.SetInterval(p.opts.Interval)
	pinger.SetTimeout(p.opts.Timeout)

	opCtx, cancel := context.WithTimeout(ctx, pinger.GetTimeout()+500*time.Millisecond)
	defer cancel()

	go func() {
		<-opCtx.Done()
		pinger.Stop()
	}()

	runErr := pinger.Run()
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if runErr != nil {
		return res, fmt.Errorf("ping %s: %w", res.Address, runErr)
	}

	if stats := pinger.Statistics(); stats != nil {
		res.PacketsSent = stats.PacketsSent
		res.PacketsRecv = stats.PacketsRecv
		res.AvgRtt = stats.AvgRtt
		res.Alive = stats.PacketsRecv > 0
	}

	p.logger.Debug().
		Str("address", res.Address).
		Bool("alive", res.Alive).
		Int("sent", res.PacketsSent).
		Int("recv", res.PacketsRecv).
		Msg("ping finished")
	return res, nil
}

func newRealPinger(ip string) (Pinger, error) {
	p, err := ping.NewPinger(ip)
	if err != nil {
		return nil, err
	}
	return &realPingerAdapter{p: p}, nil
}

// realPingerAdapter wraps *ping.Pinger to satisfy Pinger.
type realPingerAdapter struct {
	p *ping.Pinger
}

func (r *realPingerAdapter) Run() error                   { return r.p.Run() }
func (r *realPingerAdapter) Stop()                        { r.p.Stop() }
func (r *realPingerAdapter) Statistics() *ping.Statistics { return r.p.Statistics() }

func (r *realPingerAdapter) SetPrivileged(v bool)        { r.p.SetPrivileged(v) }
func (r *realPingerAdapter) SetCount(c int)              { r.p.Count = c }
func (r *realPingerAdapter) SetInterval(i time.Duration) { r.p.Interval = i }
func (r *realPingerAdapter) SetTimeout(t time.Duration)  { r.p.Timeout = t }
func (r *realPingerAdapter) GetTimeout() time.Duration   { return r.p.Timeout }
