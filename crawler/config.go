package crawler

import (
	"time"
)

type CrawlerConfig struct {
	BaseURL        string
	StartURL       string
	UserAgent      string
	RequestTimeout time.Duration
	// DetailDelay runs after every detail fetch, DelayBetweenPages after
	// every listing page. Both are plain blocking waits to bound the
	// outbound request rate; there is no adaptive throttling.
	DetailDelay       time.Duration
	DelayBetweenPages time.Duration
	ProxyURL          string
}

// DefaultConfig returns the crawler configuration used against the live site.
func DefaultConfig() *CrawlerConfig {
	return &CrawlerConfig{
		BaseURL:           "https://www.giallozafferano.it",
		StartURL:          "https://www.giallozafferano.it/ricette-cat/",
		UserAgent:         "Ricette-Crawler/1.0",
		RequestTimeout:    60 * time.Second,
		DetailDelay:       1200 * time.Millisecond,
		DelayBetweenPages: 2 * time.Second,
	}
}
