// pkg/config/source.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vulntor/portsniff/pkg/paths"
)

// ConfigSource represents a configuration source that can load values into koanf.
// Sources are loaded in priority order (lowest first), with higher priority sources
// overriding lower priority values.
//
// Built-in sources and their priorities:
//   - DefaultSource (10): Hardcoded default values
//   - FileSource (20): Config file given with --config, or the per-user default
//   - EnvSource (30): Environment variables (PORTSNIFF_*)
//   - FlagSource (40): Command-line flags
type ConfigSource interface {
	// Name returns a human-readable name for this source (for logging/debugging)
	Name() string

	// Priority returns the load priority. Lower values are loaded first,
	// higher values override lower ones.
	Priority() int

	// Load loads configuration values into the provided koanf instance.
	Load(k *koanf.Koanf) error
}

// DefaultSource provides hardcoded default configuration values.
type DefaultSource struct{}

func (s *DefaultSource) Name() string  { return "defaults" }
func (s *DefaultSource) Priority() int { return 10 }

func (s *DefaultSource) Load(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("error loading defaults: %w", err)
	}
	return nil
}

// FileSource loads configuration from a YAML file.
type FileSource struct {
	Path     string // Path to config file (skipped if empty)
	Required bool   // Fail instead of skipping when the file is missing
}

func (s *FileSource) Name() string  { return "file:" + s.Path }
func (s *FileSource) Priority() int { return 20 }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}

	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) && !s.Required {
			return nil
		}
		return fmt.Errorf("error checking config file %s: %w", s.Path, err)
	}

	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("error loading config file %s: %w", s.Path, err)
	}
	return nil
}

// EnvSource loads configuration from environment variables.
// Variables must carry the prefix. The first underscore after the prefix
// separates the section from the key:
//
//	PORTSNIFF_LOG_LEVEL        -> log.level
//	PORTSNIFF_SCAN_CONCURRENCY -> scan.concurrency
type EnvSource struct {
	Prefix string // Environment variable prefix (default: "PORTSNIFF_")
}

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return 30 }

func (s *EnvSource) Load(k *koanf.Koanf) error {
	prefix := s.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}

	if err := k.Load(env.Provider(prefix, ".", func(key string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(key, prefix)), "_", ".", 1)
	}), nil); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}
	return nil
}

// FlagSource loads configuration from command-line flags. Only flags listed in
// the flag-key table are considered, and unchanged flags never override values
// that an earlier source already set.
type FlagSource struct {
	Flags     *pflag.FlagSet
	Debug     bool // If true, set log.level to "debug"
	Verbosity int  // -v count: 1 info, 2 debug, 3+ trace
}

func (s *FlagSource) Name() string  { return "flags" }
func (s *FlagSource) Priority() int { return 40 }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags != nil {
		provider := posflag.ProviderWithFlag(s.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key := FlagKey(f.Name)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(s.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return fmt.Errorf("error loading command-line flags: %w", err)
		}
	}

	if level := verbosityLevel(s.Verbosity); level != "" {
		_ = k.Set("log.level", level)
	}
	if s.Debug {
		_ = k.Set("log.level", "debug")
	}
	return nil
}

func verbosityLevel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "info"
	case count == 2:
		return "debug"
	default:
		return "trace"
	}
}

// DefaultSources returns the standard configuration sources.
// Order: defaults -> file -> env -> flags
//
// An explicit configPath must exist. Without one the per-user default file is
// read when present.
func DefaultSources(configPath string, flags *pflag.FlagSet, debug bool) []ConfigSource {
	fileSource := &FileSource{Path: configPath, Required: true}
	if configPath == "" {
		fileSource = &FileSource{Path: paths.DefaultConfigFile()}
	}

	return []ConfigSource{
		&DefaultSource{},
		fileSource,
		&EnvSource{Prefix: EnvPrefix},
		&FlagSource{Flags: flags, Debug: debug},
	}
}
