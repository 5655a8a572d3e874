package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/storage"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

// Fetcher retrieves one URL and hands back the parsed document. The
// crawler never talks to the network any other way, which keeps every
// parser testable against canned documents.
type Fetcher interface {
	Get(ctx context.Context, url string) (*goquery.Document, error)
}

// Session is the single long-lived fetch resource for a crawl run: one
// colly collector, acquired at startup and shared, sequentially, by every
// listing and detail fetch.
type Session struct {
	collector *colly.Collector
	logger    *zap.Logger
}

func NewSession(config *CrawlerConfig, store storage.Storage, logger *zap.Logger) (*Session, error) {
	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		// Listing page one is revisited on every incremental run.
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.RequestTimeout)

	if store != nil {
		if err := c.SetStorage(store); err != nil {
			return nil, fmt.Errorf("session: set storage: %w", err)
		}
	}

	if config.ProxyURL != "" {
		dialer, err := proxy.SOCKS5("tcp", config.ProxyURL, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("session: socks5 dialer: %w", err)
		}
		dialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
		c.WithTransport(&http.Transport{DialContext: dialContext, DisableKeepAlives: false})
	}

	return &Session{collector: c, logger: logger}, nil
}

// Get fetches pageURL and parses the body. Each call clones the collector
// so response handlers stay scoped to this one request; the clone shares
// the parent's client, storage and limits.
func (s *Session) Get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	c := s.collector.Clone()

	var doc *goquery.Document
	var reqErr error

	c.OnResponse(func(r *colly.Response) {
		d, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			reqErr = fmt.Errorf("session: parse %s: %w", pageURL, err)
			return
		}
		doc = d
	})
	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("session: get %s: %w", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("session: visit %s: %w", pageURL, err)
	}
	c.Wait()

	if reqErr != nil {
		return nil, reqErr
	}
	if doc == nil {
		return nil, fmt.Errorf("session: no response for %s", pageURL)
	}

	s.logger.Debug("fetched page", zap.String("url", pageURL))
	return doc, nil
}

var _ Fetcher = (*Session)(nil)
