// Package main provides the query service: it consumes race and application events into the
// read model and serves it over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/rueidis"
	"golang.org/x/sync/errgroup"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/broker"
	"github.com/jnst/race-registration/internal/config"
	"github.com/jnst/race-registration/internal/dispatch"
	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/logger"
	"github.com/jnst/race-registration/internal/reconcile"
	"github.com/jnst/race-registration/internal/repository"
	"github.com/jnst/race-registration/internal/repository/memory"
	"github.com/jnst/race-registration/internal/server"
	"github.com/jnst/race-registration/internal/service"
)

const exitCode = 1

type stores struct {
	races        repository.RaceRepository
	users        repository.UserRepository
	applications repository.ApplicationRepository
	tm           repository.TransactionManager
	close        func()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}

	slog.SetDefault(logger.Setup(cfg.LogLevel, cfg.LogFormat))

	if err := run(cfg); err != nil {
		slog.Error("query service stopped", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	policy, err := reconcile.ParseDeletePolicy(cfg.DeletePolicy)
	if err != nil {
		return err
	}

	reconciler := reconcile.New(st.races, st.users, st.applications, st.tm, reconcile.WithDeletePolicy(policy))

	dispatcher, err := dispatch.NewDispatcher(reconciler, cfg.DedupeSize)
	if err != nil {
		return err
	}

	redisClient, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.RedisAddr},
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	b := broker.NewRedisBroker(redisClient,
		broker.WithBatchSize(cfg.ConsumerBatchSize),
		broker.WithBlock(cfg.ConsumerBlock),
		broker.WithClaim(cfg.ClaimMinIdle, cfg.ClaimInterval),
	)

	consumer := dispatch.NewConsumer(b, dispatcher, cfg.Exchange, cfg.ConsumerName, cfg.ConsumerWorkers,
		dispatch.Queue{Name: cfg.RaceQueue, Pattern: cfg.RaceBinding, Category: event.CategoryRace},
		dispatch.Queue{Name: cfg.ApplicationQueue, Pattern: cfg.ApplicationBinding, Category: event.CategoryApplication},
	)

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	srv := server.NewQueryServer(
		service.NewRaceQueryServiceImpl(st.races),
		service.NewApplicationQueryServiceImpl(st.applications, st.users),
		service.NewUserQueryServiceImpl(st.users),
		service.NewTokenServiceImpl(st.users, tokens),
		tokens,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Run(ctx) })
	g.Go(func() error { return server.Run(ctx, "query", ":"+cfg.QueryPort, srv.Routes()) })

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		return &stores{
			races:        repository.NewRaceRepositoryImpl(pool),
			users:        repository.NewUserRepositoryImpl(pool),
			applications: repository.NewApplicationRepositoryImpl(pool),
			tm:           repository.NewTransactionManagerImpl(pool),
			close:        pool.Close,
		}, nil
	case "memory":
		store := memory.NewStore()
		if cfg.UsersFile != "" {
			n, err := store.LoadUsers(ctx, cfg.UsersFile)
			if err != nil {
				return nil, err
			}

			slog.Info("users loaded", slog.Int("count", n), slog.String("file", cfg.UsersFile))
		}

		return &stores{
			races:        store.Races(),
			users:        store.Users(),
			applications: store.Applications(),
			tm:           store.TransactionManager(),
			close:        func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
