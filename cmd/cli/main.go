package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/cisaudit/internal/cli"
	"github.com/pratik-mahalle/cisaudit/pkg/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	// 2 for requests the server rejected, 1 for everything else
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && !apiErr.IsServerError() {
		stop()
		os.Exit(2)
	}
	stop()
	os.Exit(1)
}
