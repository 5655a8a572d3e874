package crawler

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// notAvailable marks card metadata the listing page did not carry.
const notAvailable = "Not Available"

// ListingStub is the lightweight summary scraped from one listing card.
// It only lives for the pagination step that produced it; the detail
// fetch merges it into the persisted Recipe.
type ListingStub struct {
	Title string
	URL   string
	Meta  CardMeta
}

type CardMeta struct {
	Category string
	PrepTime string
	Calories string
	// Rating is stored on the Recipe as Difficulty.
	Rating string
}

// fetchListing retrieves one category page and returns its stubs plus the
// absolute next-page URL, "" when pagination is exhausted. Any fetch
// failure is logged and reported as an empty page: the controller cannot
// tell it apart from genuine exhaustion, so the log line is the only
// operator-visible difference.
func (c *Crawler) fetchListing(ctx context.Context, logger *zap.Logger, pageURL string) ([]ListingStub, string) {
	doc, err := c.fetcher.Get(ctx, pageURL)
	if err != nil {
		logger.Error("listing page failed, pagination ends here",
			zap.String("url", pageURL),
			zap.Error(err))
		return nil, ""
	}
	return parseListing(doc, c.config.BaseURL)
}

func parseListing(doc *goquery.Document, baseURL string) ([]ListingStub, string) {
	var stubs []ListingStub

	doc.Find("article.gz-card").Each(func(_ int, card *goquery.Selection) {
		titleNode := card.Find("h2.gz-title a").First()
		if titleNode.Length() == 0 {
			return
		}

		href, _ := titleNode.Attr("href")
		stub := ListingStub{
			Title: titleNode.Text(),
			URL:   resolveURL(baseURL, href),
			Meta: CardMeta{
				Category: notAvailable,
				PrepTime: notAvailable,
				Calories: notAvailable,
				Rating:   notAvailable,
			},
		}

		if category := strings.TrimSpace(card.Find("div.gz-category").First().Text()); category != "" {
			stub.Meta.Category = category
		}

		card.Find("li.gz-single-data-recipe").Each(func(_ int, item *goquery.Selection) {
			classifyBadge(strings.TrimSpace(item.Text()), &stub.Meta)
		})

		stubs = append(stubs, stub)
	})

	nextURL := ""
	if nextNode := doc.Find("a.gz-arrow.next").First(); nextNode.Length() > 0 {
		if href, ok := nextNode.Attr("href"); ok {
			nextURL = resolveURL(baseURL, href)
		}
	}

	return stubs, nextURL
}

// classifyBadge sorts one card footer badge into the metadata field its
// content pattern indicates: a time token means prep time, a Kcal token
// means calories, and a bare number is the difficulty rating. Anything
// else leaves the fields at their sentinels.
func classifyBadge(text string, meta *CardMeta) {
	switch {
	case text == "":
	case strings.Contains(text, "min") || strings.Contains(text, "h"):
		meta.PrepTime = text
	case strings.Contains(text, "Kcal"):
		calories := strings.ReplaceAll(text, "Kcal", "")
		calories = strings.ReplaceAll(calories, ",", ".")
		meta.Calories = strings.TrimSpace(calories)
	default:
		val := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			meta.Rating = val
		}
	}
}

// resolveURL resolves href against base, mirroring urljoin: on any parse
// failure the href is returned as-is.
func resolveURL(base, href string) string {
	baseParsed, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseParsed.ResolveReference(ref).String()
}
