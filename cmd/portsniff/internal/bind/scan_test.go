package bind

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/appctx"
	"github.com/vulntor/portsniff/pkg/config"
	"github.com/vulntor/portsniff/pkg/scanner"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "portsniff"}
	config.BindScanFlags(cmd.Flags())
	return cmd
}

func TestBindScanOptions_FromFlags(t *testing.T) {
	cmd := newScanCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"-a", "10.0.0.2", "-s", "20", "-e", "25", "-k", "3", "--timeout", "1s", "-o", "table"}))

	opts, err := BindScanOptions(cmd)
	require.NoError(t, err)
	require.Equal(t, scanner.Request{Address: "10.0.0.2", Start: 20, End: 25}, opts.Request)
	require.Equal(t, 3, opts.Concurrency)
	require.Equal(t, time.Second, opts.Timeout)
	require.Equal(t, format.ModeTable, opts.Output)
	require.Equal(t, config.ProgressNone, opts.Progress)
}

func TestBindScanOptions_Defaults(t *testing.T) {
	opts, err := BindScanOptions(newScanCommand())
	require.NoError(t, err)
	require.Equal(t, scanner.DefaultRequest(), opts.Request)
	require.Equal(t, scanner.DefaultConcurrency, opts.Concurrency)
	require.Zero(t, opts.Timeout)
	require.Equal(t, format.ModeText, opts.Output)
}

func TestBindScanOptions_PrefersConfigManager(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PORTSNIFF_SCAN_ADDRESS", "192.0.2.44")

	cmd := newScanCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"-e", "100"}))

	mgr := config.NewManager()
	require.NoError(t, mgr.Load(cmd.Flags(), ""))
	cmd.SetContext(appctx.WithConfig(context.Background(), mgr))

	opts, err := BindScanOptions(cmd)
	require.NoError(t, err)
	require.Equal(t, "192.0.2.44", opts.Request.Address)
	require.Equal(t, 100, opts.Request.End)
}

func TestBindScanOptions_StructuredOutputDisablesProgress(t *testing.T) {
	cmd := newScanCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"-o", "json", "--progress", "bar"}))

	opts, err := BindScanOptions(cmd)
	require.NoError(t, err)
	require.Equal(t, format.ModeJSON, opts.Output)
	require.Equal(t, config.ProgressNone, opts.Progress)
}

func TestBindScanOptions_TableProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress string
		want     string
	}{
		{name: "dots dropped", progress: "dots", want: config.ProgressNone},
		{name: "bar kept on stderr", progress: "bar", want: config.ProgressBar},
		{name: "none kept", progress: "none", want: config.ProgressNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newScanCommand()
			require.NoError(t, cmd.Flags().Parse([]string{"-o", "table", "--progress", tt.progress}))

			opts, err := BindScanOptions(cmd)
			require.NoError(t, err)
			require.Equal(t, tt.want, opts.Progress)
		})
	}
}

func TestBindScanOptions_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown output", args: []string{"-o", "xml"}},
		{name: "negative timeout", args: []string{"--timeout", "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newScanCommand()
			require.NoError(t, cmd.Flags().Parse(tt.args))

			_, err := BindScanOptions(cmd)
			require.ErrorIs(t, err, scanner.ErrInvalidArgument)
			require.Equal(t, 2, scanner.ExitCode(err))
		})
	}
}
