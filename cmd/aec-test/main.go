package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/aecgrid/internal/testbin"
)

// main is the entrypoint for the audio_algo_aec_test binary.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := testbin.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
