package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"sitescout-engine/internal/analyze"
	"sitescout-engine/internal/config"
	"sitescout-engine/internal/events"
	"sitescout-engine/internal/guess"
	"sitescout-engine/internal/guess/gemini"
	"sitescout-engine/internal/guess/openai"
	"sitescout-engine/internal/httpapi"
	"sitescout-engine/internal/probe"
	"sitescout-engine/internal/scheduler"
	"sitescout-engine/internal/secrets"
	"sitescout-engine/internal/store"
)

func main() {
	// .env is optional; real env wins either way.
	_ = godotenv.Load()

	dataDir := os.Getenv("SITESCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir: a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "sitescout.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	limiter := probe.NewHostLimiter(cfg.Probe.HostRatePerSec, cfg.Probe.HostBurst)
	timeout := time.Duration(cfg.Probe.TimeoutSeconds) * time.Second

	runner := &analyze.Runner{
		Store:  db,
		Gemini: buildGemini(cfg),
		GPT:    buildOpenAI(cfg),
		Checker: probe.NewChecker(probe.CheckerConfig{
			Concurrency: cfg.Probe.CheckConcurrency,
			Timeout:     timeout,
			UserAgent:   cfg.Probe.UserAgent,
			Limiter:     limiter,
		}),
		Fetcher: probe.NewFetcher(probe.FetcherConfig{
			Concurrency: cfg.Probe.MetaConcurrency,
			Timeout:     timeout,
			UserAgent:   cfg.Probe.UserAgent,
			Limiter:     limiter,
		}),
		Hub: hub,
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	maxAge := time.Duration(cfg.Retention.MaxAgeDays) * 24 * time.Hour
	go scheduler.Every(rootCtx, time.Duration(cfg.Retention.SweepMinutes)*time.Minute, "retention", func(ctx context.Context) error {
		n, err := db.CleanupOldJobs(ctx, maxAge)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[retention] removed %d old jobs", n)
		}
		return nil
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		RunAnalysis: runner.Run,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// /shutdown needs srv itself, so it is attached here rather than in NewMux.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("shutdown token: %s", token)
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func buildOpenAI(cfg config.Config) guess.Guesser {
	if !cfg.Guessers.OpenAI.Enabled {
		return nil
	}
	key, err := secrets.GetAPIKey(secrets.ProviderOpenAI)
	if err != nil || key == "" {
		log.Printf("[guess:gpt] disabled: no api key")
		return nil
	}
	return openai.New(openai.Config{APIKey: key, Model: cfg.Guessers.OpenAI.Model})
}

func buildGemini(cfg config.Config) guess.Guesser {
	if !cfg.Guessers.Gemini.Enabled {
		return nil
	}
	key, err := secrets.GetAPIKey(secrets.ProviderGemini)
	if err != nil || key == "" {
		log.Printf("[guess:gemini] disabled: no api key")
		return nil
	}
	return gemini.New(gemini.Config{APIKey: key, Model: cfg.Guessers.Gemini.Model})
}
