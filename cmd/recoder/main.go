package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/cli"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/telemetry"
)

func main() {
	telemetry.Start()

	// Ctrl-C / SIGTERM cancel an in-flight search
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Main(ctx)

	stop()
	telemetry.Stop()
	os.Exit(code)
}
