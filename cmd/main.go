package main

import (
	"context"
	"log"

	"ricette/config"
	"ricette/crawler"
	"ricette/pkg/mongodb"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// MongoDB
	// =========
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("mongodb unreachable", zap.Error(err))
	}

	recipes, err := mongodb.NewRecipeCollection(ctx, client.Database(cfg.MongoDatabase), cfg.MongoCollection)
	if err != nil {
		logger.Fatal("failed to open recipe collection", zap.Error(err))
	}

	// =========
	// Session storage (bbolt)
	// =========
	store := &crawler.SessionStorage{DBPath: cfg.SessionDBPath}
	if err := store.Init(); err != nil {
		logger.Fatal("failed to open session storage", zap.Error(err))
	}
	defer store.Close()

	// =========
	// Fetch session
	// =========
	crawlCfg := crawler.DefaultConfig()
	crawlCfg.BaseURL = cfg.BaseURL
	crawlCfg.StartURL = cfg.StartURL
	crawlCfg.ProxyURL = cfg.ProxyURL

	session, err := crawler.NewSession(crawlCfg, store, logger)
	if err != nil {
		logger.Fatal("failed to create fetch session", zap.Error(err))
	}

	// =========
	// Crawler
	// =========
	c := crawler.NewCrawler(session, recipes, logger, crawlCfg)
	if err := c.Run(ctx); err != nil {
		logger.Fatal("crawl failed", zap.Error(err))
	}
}
