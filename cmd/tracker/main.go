package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"mention_tracker/internal/config"
	"mention_tracker/internal/publisher"
	"mention_tracker/internal/scheduler"
	"mention_tracker/internal/service"
	"mention_tracker/internal/sink/postgres"
	"mention_tracker/internal/sink/sheets"
	"mention_tracker/internal/source/googlenews"
	"mention_tracker/internal/source/hackernews"
	"mention_tracker/internal/source/reddit"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Sources are invoked in this order; it decides which duplicate wins.
	sources := []service.Source{
		reddit.New(reddit.Config{
			BaseURL:   cfg.Sources.Reddit.BaseURL,
			Timeout:   cfg.Sources.Reddit.Timeout,
			UserAgent: cfg.Sources.Reddit.UserAgent,
		}, logger),
		googlenews.New(googlenews.Config{
			BaseURL:   cfg.Sources.GoogleNews.BaseURL,
			Timeout:   cfg.Sources.GoogleNews.Timeout,
			UserAgent: cfg.Sources.GoogleNews.UserAgent,
		}, logger),
		hackernews.New(hackernews.Config{
			BaseURL:   cfg.Sources.HackerNews.BaseURL,
			Timeout:   cfg.Sources.HackerNews.Timeout,
			UserAgent: cfg.Sources.HackerNews.UserAgent,
		}, logger),
	}

	sink, cleanup, err := buildSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up sink", "kind", cfg.Sink.Kind, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	collectService := service.NewCollectService(sources, sink, pub, logger, cfg.Keyword)

	sched := scheduler.NewScheduler(collectService, cfg.Collect.Interval, cfg.Collect.RunTimeout, logger)

	logger.Info("starting mention tracker",
		"keyword", cfg.Keyword,
		"sink", cfg.Sink.Kind,
		"interval", cfg.Collect.Interval,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func buildSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Sink, func(), error) {
	switch cfg.Sink.Kind {
	case "sheets":
		writer, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			SpreadsheetName: cfg.Sheets.SpreadsheetName,
			SheetName:       cfg.Sheets.SheetName,
			CredentialsFile: cfg.Sheets.CredentialsFile,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return writer, func() {}, nil

	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("connected to database")
		return postgres.NewMentionStore(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink kind %q", cfg.Sink.Kind)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
