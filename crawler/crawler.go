package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ricette/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Crawler drives the incremental harvest: walk the category listing page
// by page, persist every recipe the store has not seen, and stop at the
// first known URL. The listing is newest-first, so one known URL means
// everything after it, later pages included, was captured on an earlier
// run. Strictly sequential; the store is the only source of truth for
// "already seen" and the Crawler its only writer.
type Crawler struct {
	fetcher Fetcher
	recipes repository.RecipeRepository
	logger  *zap.Logger
	config  *CrawlerConfig
	now     func() time.Time
}

func NewCrawler(fetcher Fetcher, recipes repository.RecipeRepository, logger *zap.Logger, config *CrawlerConfig) *Crawler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Crawler{
		fetcher: fetcher,
		recipes: recipes,
		logger:  logger,
		config:  config,
		now:     time.Now,
	}
}

// Run executes one crawl session to completion. It returns an error only
// on persistence failures other than a duplicate url; page and item level
// trouble is logged and absorbed.
func (c *Crawler) Run(ctx context.Context) error {
	logger := c.logger.With(zap.String("crawl_id", uuid.NewString()))

	currentURL := c.config.StartURL
	stop := false
	var pages, inserted, skipped int

	for currentURL != "" && !stop {
		logger.Info("checking listing page", zap.String("url", currentURL))
		stubs, nextURL := c.fetchListing(ctx, logger, currentURL)
		if len(stubs) == 0 {
			break
		}
		pages++

		for _, stub := range stubs {
			known, err := c.recipes.Exists(ctx, stub.URL)
			if err != nil {
				return fmt.Errorf("novelty check %s: %w", stub.URL, err)
			}
			if known {
				logger.Info("recipe already in store, stopping incremental crawl",
					zap.String("title", stub.Title),
					zap.String("url", stub.URL))
				stop = true
				break
			}

			logger.Info("scraping new recipe", zap.String("title", stub.Title))
			recipe := c.fetchDetail(ctx, logger, stub)
			if recipe == nil {
				skipped++
				continue
			}

			if err := c.recipes.InsertOne(ctx, recipe); err != nil {
				if errors.Is(err, repository.ErrDuplicateURL) {
					// Someone raced us on this url; the record exists, so
					// the item is done, not the crawl.
					logger.Warn("duplicate url on insert, skipping item",
						zap.String("url", recipe.URL))
					skipped++
					continue
				}
				return fmt.Errorf("insert %s: %w", recipe.URL, err)
			}
			inserted++
			logger.Info("inserted recipe", zap.String("title", recipe.Title))
		}

		currentURL = nextURL
		if currentURL != "" && !stop {
			time.Sleep(c.config.DelayBetweenPages)
		}
	}

	logger.Info("crawl session completed, store is up to date",
		zap.Int("pages", pages),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped))
	return nil
}
