// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vulntor/portsniff/pkg/scanner"
)

const (
	// EnvPrefix prefixes every environment variable read by the env source.
	EnvPrefix = "PORTSNIFF_"

	ProgressDots = "dots"
	ProgressBar  = "bar"
	ProgressNone = "none"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager holding the default configuration.
func NewManager() *Manager {
	return &Manager{
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
// These serve as the baseline configuration if no other sources override them.
func DefaultConfig() Config {
	req := scanner.DefaultRequest()
	return Config{
		Log: LogConfig{
			Level:  "error",
			Format: "text",
			File:   "",
		},
		Scan: ScanConfig{
			Address:     req.Address,
			Start:       req.Start,
			End:         req.End,
			Concurrency: scanner.DefaultConcurrency,
			Timeout:     0,
			Progress:    ProgressDots,
			Output:      "text",
		},
	}
}

// Load loads configuration from defaults, the optional config file, the
// environment and the command-line flags, in that order of precedence.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	debug := false
	verbosity := 0
	if flags != nil {
		if f := flags.Lookup("debug"); f != nil && f.Value.String() == "true" {
			debug = true
		}
		if v, err := flags.GetCount("verbosity"); err == nil {
			verbosity = v
		}
	}

	sources := DefaultSources(customConfigFilePath, flags, debug)
	for _, src := range sources {
		if fs, ok := src.(*FlagSource); ok {
			fs.Verbosity = verbosity
		}
	}
	return m.LoadWithSources(sources)
}

// LoadWithSources loads the given sources in ascending priority order and
// replaces the current configuration with the merged result.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	k := koanf.New(".")
	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := k.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}

	m.currentConfig = postProcessConfig(newCfg)
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// postProcessConfig normalises enumerations after loading. Structured report
// formats suppress progress output so stdout stays machine readable.
func postProcessConfig(cfg Config) Config {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Scan.Address = strings.TrimSpace(cfg.Scan.Address)
	cfg.Scan.Output = strings.ToLower(strings.TrimSpace(cfg.Scan.Output))
	cfg.Scan.Progress = strings.ToLower(strings.TrimSpace(cfg.Scan.Progress))

	switch cfg.Scan.Progress {
	case ProgressDots, ProgressBar, ProgressNone:
	default:
		cfg.Scan.Progress = ProgressDots
	}
	switch cfg.Scan.Output {
	case "json", "yaml", "yml":
		cfg.Scan.Progress = ProgressNone
	}
	return cfg
}

// DefaultConfigAsMap converts the DefaultConfig struct to a map for koanf's
// confmap provider so every key is known before flags are merged.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		"scan.address":     def.Scan.Address,
		"scan.start":       def.Scan.Start,
		"scan.end":         def.Scan.End,
		"scan.concurrency": def.Scan.Concurrency,
		"scan.timeout":     def.Scan.Timeout,
		"scan.progress":    def.Scan.Progress,
		"scan.output":      def.Scan.Output,
	}
}

// flagKeys maps command-line flag names to koanf keys. Flags absent from the
// map (config path, verbosity, formatter toggles) are not configuration.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"log-file":    "log.file",
	"address":     "scan.address",
	"start":       "scan.start",
	"end":         "scan.end",
	"concurrency": "scan.concurrency",
	"timeout":     "scan.timeout",
	"progress":    "scan.progress",
	"output":      "scan.output",
}

// FlagKey returns the koanf key for a flag name, or "" when the flag is not
// backed by configuration.
func FlagKey(name string) string {
	return flagKeys[name]
}

// BindFlags defines the global logging flags.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-level", defaults.Log.Level, "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "Log format (text, json)")
	flags.String("log-file", defaults.Log.File, "Write logs to this file instead of stderr")
}

// BindScanFlags defines the flags that describe a scan.
func BindScanFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig().Scan

	flags.StringP("address", "a", defaults.Address, "The address to scan")
	flags.IntP("start", "s", defaults.Start, "The first port to scan (1-65535)")
	flags.IntP("end", "e", defaults.End, "The port to stop before (must be less than or equal to 65535)")
	flags.IntP("concurrency", "k", defaults.Concurrency, "Maximum concurrent connection attempts")
	flags.Duration("timeout", defaults.Timeout, "Per-connection dial timeout (0 waits for the network stack)")
	flags.String("progress", defaults.Progress, "Progress display: dots, bar, none")
	flags.StringP("output", "o", defaults.Output, "Report format: text, json, yaml, table")
}
