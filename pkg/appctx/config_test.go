package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/portsniff/pkg/config"
)

func TestWithConfig(t *testing.T) {
	manager := config.NewManager()

	got, ok := Config(WithConfig(context.Background(), manager))
	require.True(t, ok)
	assert.Same(t, manager, got)

	//nolint:staticcheck
	got, ok = Config(WithConfig(nil, manager))
	require.True(t, ok)
	assert.Same(t, manager, got)
}

func TestConfig_Missing(t *testing.T) {
	//nolint:staticcheck
	_, ok := Config(nil)
	assert.False(t, ok)

	_, ok = Config(context.Background())
	assert.False(t, ok)

	_, ok = Config(WithConfig(context.Background(), nil))
	assert.False(t, ok, "nil manager is not a config")

	_, ok = Config(context.WithValue(context.Background(), ctxKey{}, "not a manager"))
	assert.False(t, ok)
}

func TestScanConfig(t *testing.T) {
	_, ok := ScanConfig(context.Background())
	assert.False(t, ok)

	sc, ok := ScanConfig(WithConfig(context.Background(), config.NewManager()))
	require.True(t, ok)
	assert.Equal(t, config.DefaultConfig().Scan, sc)
}
