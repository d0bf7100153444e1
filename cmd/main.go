package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"measurement_collector/internal/export"
	"measurement_collector/internal/handlers"
	"measurement_collector/internal/logger"
	"measurement_collector/internal/repository"
	"measurement_collector/internal/repository/db"
	"measurement_collector/internal/server"
	"measurement_collector/internal/service"

	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, log, buildOptions(log))
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open the instrument byte source and start pumping it into the collector
	src, closeSrc, err := openByteSource(viper.GetString("source.path"), log)
	if err != nil {
		log.Fatalw("failed to open byte source", "err", err)
	}
	go services.Acquisition.Run(ctx, src)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, closeSrc, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// buildOptions assembles service configuration from config keys.
func buildOptions(log *logger.Logger) service.Options {
	signingKey := viper.GetString("auth.signing_key")
	if signingKey == "" {
		log.Fatalw("auth.signing_key must be set in config")
	}

	exportDir := viper.GetString("export.dir")
	if exportDir == "" {
		exportDir = "exports"
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		log.Fatalw("failed to create export directory", "dir", exportDir, "err", err)
	}

	return service.Options{
		SigningKey:   signingKey,
		TokenTTL:     viper.GetDuration("auth.token_ttl"),
		ExportDir:    exportDir,
		ExportLocale: export.ResolveLocale(viper.GetString("export.locale")),
	}
}

// openByteSource opens the configured instrument stream. "-" or an empty
// path selects stdin, which is convenient for piping recorded captures:
//
//	cat capture.txt | ./collector
//
// The returned close func unblocks a pending Read during shutdown.
func openByteSource(path string, log *logger.Logger) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		log.Infow("reading measurement bytes from stdin")
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("reading measurement bytes from file", "path", path)
	return f, func() { _ = f.Close() }, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, closeSrc func(), srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines and unblock the acquisition reader
	cancel()
	closeSrc()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
