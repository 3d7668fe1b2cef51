// Command portsniff scans a range of TCP ports on one address.
//
// Exit codes:
//   - 0: Success, including scans that found nothing
//   - 1: General error
//   - 2: Invalid usage or input (bad address, port bounds, concurrency, flags)
//   - 130: Interrupted; the partial report was still printed
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vulntor/portsniff/cmd/portsniff/commands"
	"github.com/vulntor/portsniff/cmd/portsniff/internal/format"
	"github.com/vulntor/portsniff/pkg/scanner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := commands.Execute(ctx, commands.NewCommand())
	stop()

	if err != nil {
		if !format.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if scanner.IsValidationError(err) {
				fmt.Fprintln(os.Stderr, "Run 'portsniff --help' for usage.")
			}
		}
		os.Exit(scanner.ExitCode(err))
	}
}
