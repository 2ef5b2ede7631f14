package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpgo/forecast-engine/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx, version)
	stop()
	os.Exit(code)
}
