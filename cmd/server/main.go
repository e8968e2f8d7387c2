// Command server runs the poker analysis API.
//
// All poker decisions come from user-edited JSON range files; the
// server itself hardcodes no strategy.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/RonakMehtaa/pokeranalysis/internal/config"
	"github.com/RonakMehtaa/pokeranalysis/internal/httpapi"
	"github.com/RonakMehtaa/pokeranalysis/internal/llm"
	"github.com/RonakMehtaa/pokeranalysis/internal/prompts"
	"github.com/RonakMehtaa/pokeranalysis/internal/ranges"
)

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	log.WithFields(logrus.Fields{
		"addr":       cfg.Addr,
		"ranges_dir": cfg.RangesDir,
		"ollama":     cfg.OllamaBaseURL,
		"model":      cfg.OllamaModel,
	}).Info("starting poker analysis api")

	loader := ranges.NewLoader(cfg.RangesDir, log)
	if err := loader.LoadAll(); err != nil {
		log.WithError(err).Fatal("load ranges")
	}
	log.WithField("ranges", loader.Count()).Info("ranges loaded")

	client := llm.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaTimeout, log)
	store := prompts.NewStore(cfg.PromptsDir)

	api := httpapi.NewServer(&cfg, log, loader, client, store)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// No global write timeout: equity streams and LLM calls are
		// long-lived and carry their own deadlines.
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
	log.Info("server stopped")
}
