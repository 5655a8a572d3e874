package crawler

import (
	"context"
	"strings"
	"time"

	"ricette/repository"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const scrapedAtLayout = "2006-01-02 15:04:05"

// fetchDetail retrieves one recipe page and assembles the flat Recipe from
// its content plus the stub's card metadata. A nil return means skip: the
// item is logged and dropped, never escalated, so one broken page cannot
// stop the crawl. The politeness delay runs after the fetch whether or not
// it succeeded.
func (c *Crawler) fetchDetail(ctx context.Context, logger *zap.Logger, stub ListingStub) *repository.Recipe {
	doc, err := c.fetcher.Get(ctx, stub.URL)
	time.Sleep(c.config.DetailDelay)
	if err != nil {
		logger.Error("detail page failed",
			zap.String("url", stub.URL),
			zap.Error(err))
		return nil
	}

	content := doc.Find("div.gz-content-recipe.gz-mBottom4x").First()
	if content.Length() == 0 {
		logger.Warn("detail page missing content container, skipping",
			zap.String("url", stub.URL))
		return nil
	}

	title := strings.TrimSpace(stub.Title)
	if title == "" {
		title = "Untitled"
	}

	return &repository.Recipe{
		Title:          title,
		URL:            stub.URL,
		Description:    parseDescription(content),
		Ingredients:    parseIngredients(doc),
		Instructions:   parseInstructions(doc),
		RelatedRecipes: parseRelated(content),
		ScrapedAt:      c.now().Format(scrapedAtLayout),
		Category:       stub.Meta.Category,
		PrepTime:       stub.Meta.PrepTime,
		Calories:       stub.Meta.Calories,
		Difficulty:     stub.Meta.Rating,
	}
}

// parseDescription joins the text of every paragraph in the content block
// except translation links. Colons are dropped from the final fragment
// only; the pages habitually end the intro with "Ecco come prepararla:"
// and everything before the colon is wanted.
func parseDescription(content *goquery.Selection) string {
	var fragments []string
	content.Find("p").Not(".gz-translation-link").Each(func(_ int, p *goquery.Selection) {
		fragments = append(fragments, p.Text())
	})
	if len(fragments) > 0 {
		fragments[len(fragments)-1] = strings.ReplaceAll(fragments[len(fragments)-1], ":", "")
	}
	return CleanText(strings.Join(fragments, " "))
}
