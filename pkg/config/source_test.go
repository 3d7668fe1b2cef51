package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSource_Priority(t *testing.T) {
	src := &DefaultSource{}
	assert.Equal(t, 10, src.Priority())
	assert.Equal(t, "defaults", src.Name())
}

func TestDefaultSource_Load(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, (&DefaultSource{}).Load(k))

	assert.Equal(t, "error", k.String("log.level"))
	assert.Equal(t, "127.0.0.1", k.String("scan.address"))
	assert.Equal(t, 65535, k.Int("scan.end"))
}

func TestFileSource_Priority(t *testing.T) {
	src := &FileSource{Path: "/tmp/test.yaml"}
	assert.Equal(t, 20, src.Priority())
	assert.Equal(t, "file:/tmp/test.yaml", src.Name())
}

func TestFileSource_Load_EmptyPath(t *testing.T) {
	require.NoError(t, (&FileSource{}).Load(koanf.New(".")), "Empty path should skip silently")
}

func TestFileSource_Load_NonExistentFile(t *testing.T) {
	src := &FileSource{Path: "/nonexistent/path/config.yaml"}
	require.NoError(t, src.Load(koanf.New(".")), "Non-existent file should skip silently")
}

func TestFileSource_Load_RequiredMissingFile(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml"), Required: true}
	require.Error(t, src.Load(koanf.New(".")))
}

func TestFileSource_Load_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
log:
  level: warn
  format: json
scan:
  address: 10.0.0.5
  concurrency: 250
  timeout: 2s
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	k := koanf.New(".")
	require.NoError(t, (&FileSource{Path: configPath}).Load(k))

	assert.Equal(t, "warn", k.String("log.level"))
	assert.Equal(t, "json", k.String("log.format"))
	assert.Equal(t, "10.0.0.5", k.String("scan.address"))
	assert.Equal(t, 250, k.Int("scan.concurrency"))
	assert.Equal(t, "2s", k.String("scan.timeout"))
}

func TestFileSource_Load_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("scan: [unterminated"), 0o644))

	err := (&FileSource{Path: configPath}).Load(koanf.New("."))
	require.Error(t, err)
	assert.Contains(t, err.Error(), configPath)
}

func TestEnvSource_Priority(t *testing.T) {
	src := &EnvSource{}
	assert.Equal(t, 30, src.Priority())
	assert.Equal(t, "env", src.Name())
}

func TestEnvSource_Load(t *testing.T) {
	t.Setenv("PORTSNIFF_LOG_LEVEL", "warn")
	t.Setenv("PORTSNIFF_SCAN_CONCURRENCY", "64")

	k := koanf.New(".")
	require.NoError(t, (&EnvSource{Prefix: "PORTSNIFF_"}).Load(k))

	assert.Equal(t, "warn", k.String("log.level"))
	assert.Equal(t, 64, k.Int("scan.concurrency"))
}

func TestEnvSource_Load_DefaultPrefix(t *testing.T) {
	t.Setenv("PORTSNIFF_LOG_FORMAT", "json")

	k := koanf.New(".")
	require.NoError(t, (&EnvSource{}).Load(k))

	assert.Equal(t, "json", k.String("log.format"))
}

func TestFlagSource_Priority(t *testing.T) {
	src := &FlagSource{}
	assert.Equal(t, 40, src.Priority())
	assert.Equal(t, "flags", src.Name())
}

func TestFlagSource_Load_NilFlags(t *testing.T) {
	require.NoError(t, (&FlagSource{}).Load(koanf.New(".")), "Nil flags should skip silently")
}

func TestFlagSource_Load_IgnoresUnmappedFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("address", "127.0.0.1", "")
	require.NoError(t, flags.Set("config", "/tmp/x.yaml"))
	require.NoError(t, flags.Set("address", "10.9.8.7"))

	k := koanf.New(".")
	require.NoError(t, (&FlagSource{Flags: flags}).Load(k))

	assert.Equal(t, "10.9.8.7", k.String("scan.address"))
	assert.False(t, k.Exists("config"))
}

func TestFlagSource_Load_DebugFlag(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, (&FlagSource{Debug: true, Verbosity: 3}).Load(k))
	assert.Equal(t, "debug", k.String("log.level"), "--debug wins over -v")
}

func TestDefaultSources_Order(t *testing.T) {
	sources := DefaultSources("/tmp/config.yaml", nil, false)

	require.Len(t, sources, 4)
	assert.Equal(t, "defaults", sources[0].Name())
	assert.Equal(t, "file:/tmp/config.yaml", sources[1].Name())
	assert.Equal(t, "env", sources[2].Name())
	assert.Equal(t, "flags", sources[3].Name())

	for i := 1; i < len(sources); i++ {
		assert.Greater(t, sources[i].Priority(), sources[i-1].Priority())
	}
	assert.True(t, sources[1].(*FileSource).Required)
}

func TestDefaultSources_UsesPerUserFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	sources := DefaultSources("", nil, false)
	fileSource := sources[1].(*FileSource)
	assert.Equal(t, filepath.Join(dir, "portsniff", "config.yaml"), fileSource.Path)
	assert.False(t, fileSource.Required)
}

func TestLoadWithSources_CustomSource(t *testing.T) {
	customSource := &mockConfigSource{
		name:     "custom",
		priority: 25,
		loadFunc: func(k *koanf.Koanf) error {
			return k.Set("scan.address", "198.51.100.1")
		},
	}

	manager := NewManager()
	require.NoError(t, manager.LoadWithSources([]ConfigSource{
		&DefaultSource{},
		customSource,
		&EnvSource{Prefix: "PORTSNIFF_TEST_"},
	}))
	assert.Equal(t, "198.51.100.1", manager.Get().Scan.Address)
}

func TestLoadWithSources_PriorityOrdering(t *testing.T) {
	t.Setenv("PORTSNIFF_LOG_LEVEL", "warn")

	manager := NewManager()
	require.NoError(t, manager.LoadWithSources([]ConfigSource{
		&EnvSource{Prefix: "PORTSNIFF_"}, // priority 30
		&DefaultSource{},                 // priority 10 - loaded first despite order
	}))
	assert.Equal(t, "warn", manager.Get().Log.Level)
}

func TestLoadWithSources_PropagatesSourceError(t *testing.T) {
	manager := NewManager()
	err := manager.LoadWithSources([]ConfigSource{
		&mockConfigSource{name: "broken", priority: 1, loadFunc: func(*koanf.Koanf) error {
			return assert.AnError
		}},
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "broken")
}

// mockConfigSource is a test helper for custom config sources
type mockConfigSource struct {
	name     string
	priority int
	loadFunc func(k *koanf.Koanf) error
}

func (m *mockConfigSource) Name() string  { return m.name }
func (m *mockConfigSource) Priority() int { return m.priority }
func (m *mockConfigSource) Load(k *koanf.Koanf) error {
	if m.loadFunc != nil {
		return m.loadFunc(k)
	}
	return nil
}
