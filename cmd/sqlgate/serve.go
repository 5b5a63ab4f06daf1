package main

import (
	"cmp"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sqlgate/sqlgate/pkg/gateway"
	mw "github.com/sqlgate/sqlgate/pkg/httputil/middleware"
	"github.com/sqlgate/sqlgate/pkg/metrics"
	"github.com/sqlgate/sqlgate/pkg/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long:  `Starts the REST server that translates HTTP requests into parameterized SQL against the configured database`,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("listenAddr", "l", "", "server listen address")
	f.String("apiKey", "", "API key clients must present in the X-API-Key header")
	f.StringP("db.path", "d", "", "SQLite database file path")
	f.Bool("metrics.enabled", false, "expose Prometheus metrics")
	f.String("metrics.addr", "", "metrics server listen address")

	viper.BindPFlags(f)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds a production logger at the requested level. "none"
// returns a no-op logger so request logging can be switched off entirely.
func newLogger(level string) (*zap.Logger, error) {
	if level == "none" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	// flag overrides
	if addr := viper.GetString("listenAddr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if path := viper.GetString("db.path"); path != "" {
		cfg.DB.Path = path
	}

	apiKey := cmp.Or(viper.GetString("apiKey"), os.Getenv("SQLGATE_API_KEY"), cfg.APIKey)
	if apiKey == "" {
		return errors.New("API key required (set apiKey in config or SQLGATE_API_KEY)")
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := sqlite.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	server := gateway.NewServer(db, gateway.Options{
		APIKey: apiKey,
		Logger: logger,
	})

	var corsOpts *mw.CORSOptions
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsOpts = &mw.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", gateway.APIKeyHeader},
		}
	}

	server.AddMiddleware(
		mw.RequestID,
		mw.CORSWithOptions(corsOpts),
		mw.Metrics,
	)
	if logLevel != "none" {
		server.AddMiddleware(mw.LoggerWithOptions(&mw.LoggerOptions{Logger: logger}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	if cfg.Metrics.Enabled || viper.GetBool("metrics.enabled") {
		metrics.StartServer(ctx, &wg, &metrics.ServerOpts{Addr: cmp.Or(viper.GetString("metrics.addr"), cfg.Metrics.Addr)})
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", cfg.ListenAddr)
		if err := server.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	log.Println("Server gracefully stopped")
	return nil
}
