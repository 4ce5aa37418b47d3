package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/finlens/insight-go/collect"
	"github.com/finlens/insight-go/config"
	"github.com/finlens/insight-go/genai"
	"github.com/finlens/insight-go/logger"
	"github.com/finlens/insight-go/pipeline"
	"github.com/finlens/insight-go/search"
	"github.com/finlens/insight-go/server"
	"github.com/finlens/insight-go/store"
)

func main() {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address override")
	demo := flag.Bool("demo", false, "use an in-memory store seeded with demo data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.L().Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.L().Fatalf("failed to configure logging: %v", err)
	}

	if cfg.Anthropic.APIKey == "" {
		logger.L().Fatal("ANTHROPIC_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		st     store.Store
		pinger server.Pinger
	)
	if *demo {
		mem := store.NewMemory()
		store.SeedDemo(mem, "demo-user")
		logger.L().Info("using in-memory store with demo data for user demo-user")
		st, pinger = mem, mem
	} else {
		mongo, err := store.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			logger.L().Fatalf("failed to open store: %v", err)
		}
		defer mongo.Close(context.Background())
		st, pinger = mongo, mongo
	}

	var searcher search.Searcher = search.Disabled{}
	if cfg.Search.APIKey != "" {
		tavily := search.NewTavily(search.TavilyConfig{
			APIKey:     cfg.Search.APIKey,
			BaseURL:    cfg.Search.BaseURL,
			MaxQueries: cfg.Search.MaxQueries,
			Timeout:    cfg.Search.Timeout(),
		})
		cached, err := search.NewCached(tavily, cfg.Search.CacheTTL())
		if err != nil {
			logger.L().Fatalf("failed to set up search cache: %v", err)
		}
		searcher = cached
		logger.L().Info("market search enabled")
	} else {
		logger.L().Info("market search disabled, no TAVILY_API_KEY")
	}

	gen := genai.NewAnthropic(genai.Config{
		APIKey:            cfg.Anthropic.APIKey,
		Model:             cfg.Anthropic.Model,
		RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
	})

	insights := pipeline.New(
		st,
		collect.New(st, cfg.Pipeline.Currency),
		searcher,
		gen,
		pipeline.Options{
			MaxAge:      cfg.Pipeline.MaxAge(),
			KeepPerType: cfg.Pipeline.MaxPerType,
			MaxTokens:   cfg.Pipeline.MaxTokens,
		},
	)

	srv := server.New(server.Config{Addr: cfg.Server.Addr}, insights, pinger)
	if err := srv.Run(ctx); err != nil {
		logger.L().Fatalf("server failed: %v", err)
	}
}
