// Package main provides the command service: it validates write requests and publishes
// race and application events.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/rueidis"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/broker"
	"github.com/jnst/race-registration/internal/config"
	"github.com/jnst/race-registration/internal/logger"
	"github.com/jnst/race-registration/internal/publisher"
	"github.com/jnst/race-registration/internal/server"
	"github.com/jnst/race-registration/internal/service"
)

const exitCode = 1

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}

	slog.SetDefault(logger.Setup(cfg.LogLevel, cfg.LogFormat))

	if err := run(cfg); err != nil {
		slog.Error("command service stopped", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.RedisAddr},
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	b := broker.NewRedisBroker(redisClient)

	// Declaring the queues here as well keeps events published before the query service
	// first starts.
	if err := b.DeclareQueue(ctx, cfg.Exchange, cfg.RaceQueue, cfg.RaceBinding); err != nil {
		return err
	}

	if err := b.DeclareQueue(ctx, cfg.Exchange, cfg.ApplicationQueue, cfg.ApplicationBinding); err != nil {
		return err
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	pub := publisher.New(b, publisher.Routing{
		Exchange:       cfg.Exchange,
		RaceKey:        cfg.RaceRoutingKey,
		ApplicationKey: cfg.ApplicationRoutingKey,
	})

	srv := server.NewCommandServer(
		service.NewRaceCommandServiceImpl(pub),
		service.NewApplicationCommandServiceImpl(pub),
		tokens,
	)

	return server.Run(ctx, "api", ":"+cfg.Port, srv.Routes())
}
