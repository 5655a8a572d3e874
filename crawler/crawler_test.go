package crawler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ricette/repository"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	pages     map[string]string
	requested []string
}

func (f *fakeFetcher) Get(_ context.Context, url string) (*goquery.Document, error) {
	f.requested = append(f.requested, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type fakeRepo struct {
	known     map[string]bool
	inserted  []*repository.Recipe
	insertErr map[string]error
	existsErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{known: make(map[string]bool)}
}

func (r *fakeRepo) Exists(_ context.Context, url string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.known[url], nil
}

func (r *fakeRepo) InsertOne(_ context.Context, recipe *repository.Recipe) error {
	if err := r.insertErr[recipe.URL]; err != nil {
		return err
	}
	r.known[recipe.URL] = true
	r.inserted = append(r.inserted, recipe)
	return nil
}

func (r *fakeRepo) insertedURLs() []string {
	urls := make([]string, 0, len(r.inserted))
	for _, recipe := range r.inserted {
		urls = append(urls, recipe.URL)
	}
	return urls
}

const (
	pageOneURL = "https://gz.test/ricette-cat/"
	pageTwoURL = "https://gz.test/ricette-cat/page2/"
)

func card(slug, title string) string {
	return fmt.Sprintf(`<article class="gz-card">
		<h2 class="gz-title"><a href="/ricetta/%s">%s</a></h2>
		<div class="gz-category">Primi piatti</div>
		<ul><li class="gz-single-data-recipe">25 min</li></ul>
	</article>`, slug, title)
}

func listingPage(nextHref string, cards ...string) string {
	next := ""
	if nextHref != "" {
		next = fmt.Sprintf(`<a class="gz-arrow next" href="%s">Successiva</a>`, nextHref)
	}
	return "<html><body>" + strings.Join(cards, "\n") + next + "</body></html>"
}

func recipeURL(slug string) string {
	return "https://gz.test/ricetta/" + slug
}

func newTestCrawler(fetcher *fakeFetcher, repo *fakeRepo) *Crawler {
	cfg := &CrawlerConfig{
		BaseURL:  "https://gz.test",
		StartURL: pageOneURL,
	}
	return NewCrawler(fetcher, repo, zap.NewNop(), cfg)
}

// First known URL halts everything: the rest of the current page is
// abandoned and later pages are never fetched.
func TestRunHaltsAtFirstKnownURL(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL: listingPage("/ricette-cat/page2/",
			card("a", "Ricetta A"), card("b", "Ricetta B"), card("c", "Ricetta C")),
		pageTwoURL:     listingPage("", card("d", "Ricetta D")),
		recipeURL("a"): detailHTML,
		recipeURL("b"): detailHTML,
	}}
	repo := newFakeRepo()
	repo.known[recipeURL("c")] = true

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{recipeURL("a"), recipeURL("b")}, repo.insertedURLs())
	assert.NotContains(t, fetcher.requested, recipeURL("c"))
	assert.NotContains(t, fetcher.requested, pageTwoURL, "page 2 must never be fetched after the halt")
	assert.NotContains(t, fetcher.requested, recipeURL("d"))
}

func TestRunFollowsPaginationToExhaustion(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("/ricette-cat/page2/", card("a", "Ricetta A")),
		pageTwoURL:     listingPage("", card("b", "Ricetta B")),
		recipeURL("a"): detailHTML,
		recipeURL("b"): detailHTML,
	}}
	repo := newFakeRepo()

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{recipeURL("a"), recipeURL("b")}, repo.insertedURLs())
}

// Running twice against an unchanged listing inserts nothing the second
// time: the first stub of page one is already known, so the crawl halts
// immediately.
func TestRunIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("", card("a", "Ricetta A"), card("b", "Ricetta B")),
		recipeURL("a"): detailHTML,
		recipeURL("b"): detailHTML,
	}}
	repo := newFakeRepo()
	c := newTestCrawler(fetcher, repo)

	require.NoError(t, c.Run(context.Background()))
	require.Len(t, repo.inserted, 2)

	fetcher.requested = nil
	require.NoError(t, c.Run(context.Background()))

	assert.Len(t, repo.inserted, 2, "second run must insert nothing")
	assert.Equal(t, []string{pageOneURL}, fetcher.requested)
}

// A failing detail fetch skips that one item; it never halts the crawl.
func TestRunSkipsFailedDetailAndContinues(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("", card("rotta", "Ricetta Rotta"), card("b", "Ricetta B")),
		recipeURL("b"): detailHTML,
	}}
	repo := newFakeRepo()

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{recipeURL("b")}, repo.insertedURLs())
}

// An unreachable listing page is reported as empty, which ends the crawl
// like natural exhaustion.
func TestRunTreatsListingFailureAsEnd(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("/ricette-cat/page2/", card("a", "Ricetta A")),
		recipeURL("a"): detailHTML,
		// pageTwoURL intentionally missing.
	}}
	repo := newFakeRepo()

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{recipeURL("a")}, repo.insertedURLs())
}

func TestRunEmptyListingHalts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL: listingPage(""),
	}}
	repo := newFakeRepo()

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, repo.inserted)
}

// A duplicate-key violation from a raced insert is fatal to the item only.
func TestRunToleratesDuplicateInsert(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("", card("a", "Ricetta A"), card("b", "Ricetta B")),
		recipeURL("a"): detailHTML,
		recipeURL("b"): detailHTML,
	}}
	repo := newFakeRepo()
	repo.insertErr = map[string]error{
		recipeURL("a"): fmt.Errorf("recipecol: %w", repository.ErrDuplicateURL),
	}

	c := newTestCrawler(fetcher, repo)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{recipeURL("b")}, repo.insertedURLs())
}

// Any other persistence failure stops the run; a write failure is a
// correctness risk worth dying for.
func TestRunFailsOnPersistenceError(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL:     listingPage("", card("a", "Ricetta A")),
		recipeURL("a"): detailHTML,
	}}
	repo := newFakeRepo()
	repo.insertErr = map[string]error{
		recipeURL("a"): fmt.Errorf("connection reset"),
	}

	c := newTestCrawler(fetcher, repo)
	assert.Error(t, c.Run(context.Background()))
}

func TestRunFailsOnNoveltyCheckError(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		pageOneURL: listingPage("", card("a", "Ricetta A")),
	}}
	repo := newFakeRepo()
	repo.existsErr = fmt.Errorf("server selection timeout")

	c := newTestCrawler(fetcher, repo)
	assert.Error(t, c.Run(context.Background()))
}
