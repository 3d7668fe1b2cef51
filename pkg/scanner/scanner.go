// Package scanner implements the bounded-concurrency TCP connect scan: one
// attempt per port under a shared limiter, open ports fanned in over a channel
// and reported in ascending order.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Report is the result of one scan run.
type Report struct {
	ID         string        `json:"id" yaml:"id"`
	Address    string        `json:"address" yaml:"address"`
	StartPort  int           `json:"start_port" yaml:"start_port"`
	EndPort    int           `json:"end_port" yaml:"end_port"`
	Attempted  int           `json:"attempted" yaml:"attempted"`
	OpenPorts  []uint16      `json:"open_ports" yaml:"open_ports"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"-" yaml:"-"`
	DurationMs int64         `json:"duration_ms" yaml:"duration_ms"`
	Canceled   bool          `json:"canceled,omitempty" yaml:"canceled,omitempty"`
}

// Lines renders the open ports as "<port> is open", ascending.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.OpenPorts))
	for _, p := range r.OpenPorts {
		lines = append(lines, fmt.Sprintf("%d is open", p))
	}
	return lines
}

// Scanner runs TCP connect scans. The zero value is not usable; call New.
type Scanner struct {
	connector   Connector
	concurrency int
	progress    Progress
	logger      zerolog.Logger
	now         func() time.Time
}

// New returns a Scanner using a TCPConnector with no dial timeout and
// DefaultConcurrency slots.
func New() *Scanner {
	return &Scanner{
		connector:   &TCPConnector{},
		concurrency: DefaultConcurrency,
		progress:    NopProgress{},
		logger:      log.With().Str("component", "scanner").Logger(),
		now:         time.Now,
	}
}

// WithConnector returns a copy of s using c for connection attempts.
func (s *Scanner) WithConnector(c Connector) *Scanner {
	cp := *s
	cp.connector = c
	return &cp
}

// WithConcurrency returns a copy of s allowing at most n attempts in flight.
func (s *Scanner) WithConcurrency(n int) *Scanner {
	cp := *s
	cp.concurrency = n
	return &cp
}

// WithProgress returns a copy of s signalling p during scans.
func (s *Scanner) WithProgress(p Progress) *Scanner {
	cp := *s
	if p == nil {
		p = NopProgress{}
	}
	cp.progress = p
	return &cp
}

// WithLogger returns a copy of s logging to logger.
func (s *Scanner) WithLogger(logger zerolog.Logger) *Scanner {
	cp := *s
	cp.logger = logger
	return &cp
}

// Concurrency returns the limiter capacity used by Run.
func (s *Scanner) Concurrency() int {
	return s.concurrency
}

// Run attempts every port of req exactly once and returns the open ports in
// ascending order. Connection failures never surface as errors. Run fails only
// on an invalid request, or with ErrScanCanceled (plus the partial report) when
// ctx ends before every port was attempted.
func (s *Scanner) Run(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.concurrency < 1 {
		return nil, newInvalidConcurrencyError(s.concurrency)
	}

	addr := req.IP()
	started := s.now()
	report := &Report{
		ID:        uuid.NewString(),
		Address:   addr.String(),
		StartPort: req.Start,
		EndPort:   req.End,
		OpenPorts: []uint16{},
		StartedAt: started,
	}

	logger := s.logger.With().Str("scan_id", report.ID).Str("address", report.Address).Logger()
	logger.Debug().
		Int("start", req.Start).
		Int("end", req.End).
		Int("ports", req.Len()).
		Int("concurrency", s.concurrency).
		Msg("scan started")

	limiter := NewLimiter(s.concurrency)
	sink := make(chan uint16, min(limiter.Cap(), req.Len()))

	var (
		wg        sync.WaitGroup
		attempted atomic.Int64
		launchErr error
	)

	s.progress.Start(req.Len())

	go func() {
		// Closing only after every unit returned lets Collect observe completion.
		defer close(sink)
		defer wg.Wait()

		for port := req.Start; port < req.End; port++ {
			if err := ctx.Err(); err != nil {
				launchErr = err
				return
			}
			if err := limiter.Acquire(ctx); err != nil {
				launchErr = err
				return
			}

			wg.Add(1)
			attempted.Add(1)
			go func(t Target) {
				defer wg.Done()
				s.dispatch(ctx, t, limiter, sink, logger)
			}(Target{Address: addr, Port: uint16(port)})
		}
	}()

	open := Collect(sink)
	s.progress.Finish()

	report.OpenPorts = open.Drain()
	report.Attempted = int(attempted.Load())
	report.Duration = s.now().Sub(started)
	report.DurationMs = report.Duration.Milliseconds()

	if launchErr != nil {
		report.Canceled = true
		logger.Warn().Err(launchErr).
			Int("attempted", report.Attempted).
			Int("open", len(report.OpenPorts)).
			Msg("scan interrupted")
		return report, WrapCanceled(launchErr)
	}

	logger.Debug().
		Int("attempted", report.Attempted).
		Int("open", len(report.OpenPorts)).
		Dur("duration", report.Duration).
		Msg("scan finished")
	return report, nil
}

// dispatch performs one attempt. The caller has already acquired a limiter
// slot; dispatch releases it on every path.
func (s *Scanner) dispatch(ctx context.Context, t Target, limiter *Limiter, sink chan<- uint16, logger zerolog.Logger) {
	defer limiter.Release()

	if err := s.connector.Connect(ctx, t); err != nil {
		logger.Trace().Err(err).Uint16("port", t.Port).Msg("port closed")
		s.progress.Attempted(t.Port, false)
		return
	}

	s.progress.Attempted(t.Port, true)
	sink <- t.Port
}
