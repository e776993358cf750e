package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/kaizenlib/internal/client/cli"
	"github.com/dmitrijs2005/kaizenlib/internal/client/config"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logFile, err := os.OpenFile("kaizen.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o660)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logFile.Close()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(logFile, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
