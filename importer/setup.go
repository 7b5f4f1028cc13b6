package importer

import (
	"playstore/config"
	"playstore/scraper"
)

// FromConfig wires the extraction stack and the metadata fallback around fetcher
func FromConfig(cfg *config.Config, fetcher scraper.PageFetcher) *Importer {
	detector := scraper.NewBotDetector()
	prices := scraper.NewLocaleParser()

	return NewImporter(
		fetcher,
		scraper.NewMetadataClient(cfg.StoreBaseURL, cfg.MetadataRPS, cfg.MetadataTimeout, detector, prices),
		detector,
		scraper.NewExtractor(detector, prices, ""),
		Options{
			PrimaryLocale:   cfg.PrimaryLocale,
			SecondaryLocale: cfg.SecondaryLocale,
			StoreBaseURL:    cfg.StoreBaseURL,
			Retry: scraper.RetryPolicy{
				MaxAttempts: cfg.ImportMaxAttempts,
				Backoff:     cfg.ImportBackoff,
			},
		},
	)
}

// FetcherOptions maps the browser settings of cfg
func FetcherOptions(cfg *config.Config) scraper.FetcherOptions {
	return scraper.FetcherOptions{
		BrowserBin: cfg.ChromiumBin,
		Timeout:    cfg.FetchTimeout,
		Settle:     cfg.FetchSettle,
	}
}
