package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/akarpovs/bannerdesk/internal/client/cli"
	"github.com/akarpovs/bannerdesk/internal/client/config"
	"github.com/akarpovs/bannerdesk/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	// Keep structured logs out of the interactive prompt unless asked for.
	logOut := io.Discard
	if os.Getenv("BANNERDESK_DEBUG") != "" {
		logOut = os.Stderr
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(logOut, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
