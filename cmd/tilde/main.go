// Command tilde is a small terminal text editor.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iw2rmb/tilde"
)

// version can be overridden via ldflags; it defaults to the embedded VERSION.
var version = ""

func main() {
	if version == "" {
		version = tilde.Version()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
