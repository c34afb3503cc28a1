// Package main is the presto command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prestocli/presto/internal/runtime"
)

var (
	// Set at build time with -ldflags "-X main.version=..."
	version   = "dev"
	commit    = ""
	buildDate = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt := runtime.NewRuntime(buildInfo())
	if err := rt.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func buildInfo() runtime.BuildInfo {
	info := runtime.BuildInfo{Version: version, Commit: commit}
	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		info.BuildTime = t
	}
	return info
}
