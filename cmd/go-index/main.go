package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/config"
	"github.com/adfharrison1/go-index/pkg/logging"
	"github.com/adfharrison1/go-index/pkg/server"
	"github.com/adfharrison1/go-index/pkg/storage"
)

// indexFlags collects repeated -index collection=field1,field2 flags
type indexFlags map[string][]string

func (f indexFlags) String() string {
	parts := make([]string, 0, len(f))
	for coll, fields := range f {
		parts = append(parts, coll+"="+strings.Join(fields, ","))
	}
	return strings.Join(parts, " ")
}

func (f indexFlags) Set(value string) error {
	coll, fields, ok := strings.Cut(value, "=")
	if !ok || coll == "" || fields == "" {
		return errors.Errorf("expected collection=field[,field...], got %q", value)
	}
	f[coll] = append(f[coll], strings.Split(fields, ",")...)
	return nil
}

func main() {
	indexes := indexFlags{}

	// Command line flags
	var (
		configFile    = flag.String("config", "", "Path to a YAML config file")
		port          = flag.String("port", "", "Server port (overrides config)")
		shardCount    = flag.Int("shards", 0, "Lock shards per index store (overrides config)")
		statsInterval = flag.Duration("stats-interval", -1, "Index statistics log interval, e.g. 1m. 0 disables (overrides config)")
		logLevel      = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		development   = flag.Bool("dev", false, "Human readable development logging")
		showHelp      = flag.Bool("help", false, "Show help message")
	)
	flag.Var(indexes, "index", "Index fields on collection creation, e.g. -index users=email,age (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ngo-index is an in-memory document store with concurrent secondary indexes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                    # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config configs/go-index.yaml      # Load settings from YAML\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090 -shards 64              # Custom port and sharding\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -index users=email,age             # Index fields up front\n", os.Args[0])
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *shardCount > 0 {
		cfg.Storage.ShardCount = *shardCount
	}
	if *statsInterval >= 0 {
		cfg.Storage.StatsInterval = *statsInterval
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *development {
		cfg.Logging.Development = true
	}
	if len(indexes) > 0 {
		if cfg.Storage.Indexes == nil {
			cfg.Storage.Indexes = map[string][]string{}
		}
		for coll, fields := range indexes {
			cfg.Storage.Indexes[coll] = append(cfg.Storage.Indexes[coll], fields...)
		}
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Build storage options from the resolved config
	storageOptions := []storage.StorageOption{
		storage.WithShardCount(cfg.Storage.ShardCount),
	}
	if cfg.Storage.StatsInterval > 0 {
		storageOptions = append(storageOptions, storage.WithStatsInterval(cfg.Storage.StatsInterval))
		logger.Infof("index statistics logged every %v", cfg.Storage.StatsInterval)
	}
	for coll, fields := range cfg.Storage.Indexes {
		storageOptions = append(storageOptions, storage.WithDefaultIndexes(coll, fields...))
		logger.Infof("collection '%s' will be indexed on %v", coll, fields)
	}

	srv := server.NewServer(logger, storageOptions...)
	srv.StartBackgroundWorkers()
	defer srv.StopBackgroundWorkers()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("starting go-index server on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}
