package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pavez/launchkit/cmd/launchkit"
	"github.com/pavez/launchkit/pkg/display"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := launchkit.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		r := display.NewRenderer(display.Configure(display.FormatAuto, os.Stderr))
		fmt.Fprintln(os.Stderr, r.Error(err))
		stop()
		os.Exit(1)
	}
}
