package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/clock"
	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/journal"
	"github.com/pbaille/moodlog/internal/logging"
	"github.com/pbaille/moodlog/internal/mood"
	"github.com/pbaille/moodlog/internal/store"
)

var (
	dbPath     string
	configPath string
	userID     string
)

func main() {
	home, _ := os.UserHomeDir()

	rootCmd := &cobra.Command{
		Use:          "moodlog",
		Short:        "Mood journal with automatic emotion classification",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (default ~/.moodlog/moodlog.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(home, ".moodlog", "config.yaml"), "config file")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", envOr("MOODLOG_USER", "local"), "journal owner")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(trendCmd())
	rootCmd.AddCommand(distCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type entryStore interface {
	journal.Store
	Close() error
}

// app holds everything a command needs.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store entryStore
	svc   *journal.Service
}

func (a *app) Close() error { return a.store.Close() }

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log)

	loc, err := cfg.Insights.Location()
	if err != nil {
		return nil, err
	}
	normalizer, err := mood.NewNormalizer(cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("label overrides: %w", err)
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := journal.NewService(
		s,
		classifier.New(cfg.Classifier),
		normalizer,
		clock.System{Location: loc},
		log.With().Str("component", "journal").Logger(),
	)
	return &app{cfg: cfg, log: log, store: s, svc: svc}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (entryStore, error) {
	if cfg.Storage.Driver == "postgres" {
		return store.OpenPostgres(ctx, cfg.Storage.URL)
	}

	path := dbPath
	if path == "" {
		path = cfg.Storage.Path
	}
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".moodlog", "moodlog.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.NewSQLite(path)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
