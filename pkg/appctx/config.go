// Package appctx carries the loaded configuration on command contexts.
package appctx

import (
	"context"

	"github.com/vulntor/portsniff/pkg/config"
)

type ctxKey struct{}

// WithConfig stores the config manager on ctx. A nil ctx is treated as
// context.Background.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, manager)
}

// Config returns the config manager stored by WithConfig.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(ctxKey{}).(*config.Manager)
	return mgr, ok && mgr != nil
}

// ScanConfig returns the merged scan section, if a manager is present.
func ScanConfig(ctx context.Context) (config.ScanConfig, bool) {
	mgr, ok := Config(ctx)
	if !ok {
		return config.ScanConfig{}, false
	}
	return mgr.Get().Scan, true
}
