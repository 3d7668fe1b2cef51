package bind

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/appctx"
	"github.com/vulntor/portsniff/pkg/config"
	"github.com/vulntor/portsniff/pkg/scanner"
)

// ScanOptions holds everything the root command needs to run one scan.
type ScanOptions struct {
	Request     scanner.Request
	Concurrency int
	Timeout     time.Duration
	Progress    string
	Output      format.OutputMode
}

// BindScanOptions resolves scan options for cmd.
//
// Values come from the config manager stored on the command context, which
// already merged defaults, the config file, PORTSNIFF_* variables and flags.
// Without a manager (commands run outside the root pre-run) the flags are
// read directly.
//
// Port bounds and concurrency are validated by the scanner itself; this
// function rejects only malformed output and timeout values.
func BindScanOptions(cmd *cobra.Command) (ScanOptions, error) {
	sc, ok := appctx.ScanConfig(cmd.Context())
	if !ok {
		sc = scanConfigFromFlags(cmd.Flags())
	}

	if err := format.ValidateMode(sc.Output); err != nil {
		return ScanOptions{}, scanner.NewInvalidArgumentError(err)
	}
	if sc.Timeout < 0 {
		return ScanOptions{}, scanner.NewInvalidArgumentError(fmt.Errorf("timeout must not be negative: %s", sc.Timeout))
	}

	opts := ScanOptions{
		Request: scanner.Request{
			Address: sc.Address,
			Start:   sc.Start,
			End:     sc.End,
		},
		Concurrency: sc.Concurrency,
		Timeout:     sc.Timeout,
		Progress:    sc.Progress,
		Output:      format.ParseMode(sc.Output),
	}

	switch opts.Progress {
	case config.ProgressDots, config.ProgressBar, config.ProgressNone:
	default:
		opts.Progress = config.ProgressDots
	}
	switch {
	case opts.Output == format.ModeJSON || opts.Output == format.ModeYAML:
		opts.Progress = config.ProgressNone
	case opts.Output == format.ModeTable && opts.Progress == config.ProgressDots:
		// Dots share stdout with the table header.
		opts.Progress = config.ProgressNone
	}

	return opts, nil
}

// scanConfigFromFlags reads scan flags, falling back to defaults for flags
// the command does not define.
func scanConfigFromFlags(flags *pflag.FlagSet) config.ScanConfig {
	sc := config.DefaultConfig().Scan

	lookup := func(name string) (string, bool) {
		f := flags.Lookup(name)
		if f == nil {
			return "", false
		}
		return f.Value.String(), true
	}

	if v, ok := lookup("address"); ok {
		sc.Address = v
	}
	if v, ok := lookup("start"); ok {
		sc.Start = cast.ToInt(v)
	}
	if v, ok := lookup("end"); ok {
		sc.End = cast.ToInt(v)
	}
	if v, ok := lookup("concurrency"); ok {
		sc.Concurrency = cast.ToInt(v)
	}
	if v, ok := lookup("timeout"); ok {
		sc.Timeout = cast.ToDuration(v)
	}
	if v, ok := lookup("progress"); ok {
		sc.Progress = v
	}
	if v, ok := lookup("output"); ok {
		sc.Output = v
	}
	return sc
}
