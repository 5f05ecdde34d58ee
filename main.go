package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/payout"
	"github.com/danielhkuo/valconnect/router"
)

const (
	llmTimeout      = 60 * time.Second
	payoutTimeout   = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Connect to the database
	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == db.TypeSQLite && !strings.HasPrefix(dsn, "file:") {
		dsn = db.SQLiteDSN(dsn)
	}
	dbConn, err := db.Open(cfg.DatabaseType, dsn)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Language model collaborators
	moods, err := llm.LoadMoods()
	if err != nil {
		slog.Error("mood catalog failed to load", "error", err)
		os.Exit(1)
	}
	completer := llm.NewClient(&http.Client{Timeout: llmTimeout}, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	// Payouts go to the relayer when one is configured
	var payer payout.Payer = payout.LogOnly{}
	if cfg.PayoutURL != "" {
		payer = payout.NewRelayer(&http.Client{Timeout: payoutTimeout}, cfg.PayoutURL, cfg.PayoutToken, cfg.RewardContract)
		slog.Info("Payout relayer configured", "contract", cfg.RewardContract, "amount", cfg.RewardAmount.String())
	} else {
		slog.Warn("No payout relayer configured; payouts will only be logged")
	}

	// Create router
	mux := router.NewRouter(db.NewStore(dbConn), cfg, router.Collaborators{
		Generator:  llm.NewGenerator(completer, moods),
		Comparator: llm.NewComparator(completer),
		Moods:      moods,
		Payer:      payer,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight claims finish
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
