package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/config"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/answer"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/bootstrap"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/corpus"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no configured logger yet
		zap.Must(zap.NewDevelopment()).Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		zap.Must(zap.NewDevelopment()).Fatal("logger setup failed", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx := getCancellableContext()

	docs, err := bootstrap.LoadDocuments(cfg)
	if err != nil {
		logger.Fatal("loading documents failed", zap.Error(err))
	}

	emb, err := bootstrap.NewEmbedder(cfg)
	if err != nil {
		logger.Fatal("embedder setup failed", zap.Error(err))
	}

	client, closeClient, err := bootstrap.NewCorpusClient(ctx, cfg, emb)
	if err != nil {
		logger.Fatal("corpus backend unavailable", zap.Error(err))
	}
	defer func() { _ = closeClient() }()

	store := corpus.NewStore(client, cfg.Corpus.Collection, docs, logger)
	if err := store.Initialize(ctx); err != nil {
		logger.Fatal("corpus setup failed", zap.Error(err))
	}

	pipeline, err := bootstrap.NewPipeline(cfg)
	if err != nil {
		logger.Fatal("generation setup failed", zap.Error(err))
	}

	answerer := answer.New(store, pipeline, bootstrap.AnswerOptions(cfg), logger)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Environment: cfg.App.Environment,
		Answerer:    answerer,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("corpus_backend", cfg.Corpus.Backend),
			zap.String("generation_model", cfg.Generation.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
