package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mujeralerta/diagnostico/internal/api"
	"github.com/mujeralerta/diagnostico/internal/cli"
	"github.com/mujeralerta/diagnostico/internal/config"
	"github.com/mujeralerta/diagnostico/internal/db"
	"github.com/mujeralerta/diagnostico/internal/kvstore"
	"github.com/mujeralerta/diagnostico/internal/logger"
	"github.com/mujeralerta/diagnostico/internal/progress"
	"github.com/mujeralerta/diagnostico/internal/softlock"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(log)
	}
	connect := func(baseURL string) cli.Backend {
		return api.NewClient(api.Config{
			BaseURL:    baseURL,
			Token:      cfg.Token,
			Timeout:    cfg.Timeout(),
			MaxRetries: 2,
		}, observer)
	}

	app := &cli.App{
		Backend:       connect(cfg.APIURL),
		Progress:      progress.New(kv, progress.WithLogger(log)),
		Locks:         softlock.New(kv, softlock.WithLogger(log), softlock.WithTTLs(cfg.LockTTL, cfg.MarkTTL)),
		Log:           log,
		AutosaveDelay: cfg.AutosaveDelay(),
		Connect:       connect,
	}

	// Detect interactive terminal for the full-screen entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// openStore opens the configured key-value backend and returns a function
// that releases it.
func openStore(cfg config.Config) (kvstore.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		store, err := kvstore.NewRedisStore(context.Background(), kvstore.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return kvstore.NewSQLiteStore(database), func() { _ = database.Close() }, nil
	}
}
