package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"crossbook/internal/book"
	"crossbook/internal/engine"
	"crossbook/internal/net"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eng := engine.New([]book.Option{book.WithLogger(logger)}, engine.WithLogger(logger))
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error().Err(err).Msg("error shutting down engine")
		}
	}()

	srv := net.New("0.0.0.0", 9001, eng, logger)
	eng.SetReporter(srv)

	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("server exited with error")
		}
	}()

	<-ctx.Done()
}
