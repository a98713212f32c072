package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/infra/memory"
	mongostore "trivia-quiz/internal/infra/mongo"
	pgstore "trivia-quiz/internal/infra/postgres"
	"trivia-quiz/internal/infra/rabbitmq"
	rediscache "trivia-quiz/internal/infra/redis"
	"trivia-quiz/internal/infra/trivia"
	transport "trivia-quiz/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := slog.Default()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		repo = rediscache.NewCachedRepository(redisClient, repo, cacheTTL)
		logger.Info("quiz cache: redis", "addr", cfg.Redis.Addr)
	} else {
		repo = memory.NewCachedRepository(repo, cacheTTL)
	}

	var events app.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		events = publisher
	} else {
		logger.Info("rabbitmq not configured, quiz events will not be published")
	}

	timeout := config.TTLDuration(cfg.Trivia.Timeout, 10*time.Second)
	source := trivia.NewClient(cfg.Trivia.BaseURL, &http.Client{Timeout: timeout})

	store := app.NewQuizStore(repo, app.UUIDGenerator{}, events)
	creator := app.NewCreationService(source, store)
	router := transport.NewRouter(
		transport.NewQuizHandler(store, creator, logger.With("component", "api")),
		transport.NewPlayHandler(store, cfg.Server.AllowedOrigin, logger.With("component", "play")),
		cfg.Server.AllowedOrigin,
		logger.With("component", "http"),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openRepository picks the document store: Mongo, then Postgres, then in-memory.
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (app.QuizRepository, func(), error) {
	switch {
	case cfg.Mongo.URI != "":
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		database := cfg.Mongo.Database
		if database == "" {
			database = "trivia_quiz"
		}
		repo := mongostore.NewQuizRepository(client.Database(database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		logger.Info("document store: mongo", "database", database)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("document store: postgres")
		return pgstore.NewQuizRepository(pool), pool.Close, nil
	}

	logger.Warn("no document store configured, quizzes are kept in memory")
	return memory.NewQuizRepository(), func() {}, nil
}
