// Package importer turns a storefront product URL into parsed region data and
// a catalog draft.
package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"playstore/metrics"
	"playstore/models"
	"playstore/scraper"
)

// ErrURLRequired is returned for an empty import URL
var ErrURLRequired = errors.New("url is required")

var (
	productIDPattern = regexp.MustCompile(`(?i)/product/([A-Z0-9_-]{10,})`)
	localePattern    = regexp.MustCompile(`(?i)store\.playstation\.com/([a-z]{2}-[a-z]{2})/`)
)

// MetadataSource answers fallback lookups for products whose page had no title
type MetadataSource interface {
	Lookup(ctx context.Context, productID, region string) (*scraper.Metadata, error)
}

// Options configures the import pipeline
type Options struct {
	PrimaryLocale   string
	SecondaryLocale string
	StoreBaseURL    string
	Retry           scraper.RetryPolicy
}

// Importer runs the fetch, extract and normalize pipeline
type Importer struct {
	fetcher   scraper.PageFetcher
	metadata  MetadataSource
	detector  *scraper.BotDetector
	extractor *scraper.Extractor
	languages *scraper.LanguageDetector
	opts      Options
}

// NewImporter wires the pipeline; metadata may be nil to disable fallback lookups
func NewImporter(fetcher scraper.PageFetcher, metadata MetadataSource, detector *scraper.BotDetector, extractor *scraper.Extractor, opts Options) *Importer {
	if opts.PrimaryLocale == "" {
		opts.PrimaryLocale = "tr-tr"
	}
	if opts.SecondaryLocale == "" {
		opts.SecondaryLocale = "ru-ua"
	}
	if opts.StoreBaseURL == "" {
		opts.StoreBaseURL = "https://store.playstation.com"
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = scraper.DefaultRetryPolicy()
	}
	return &Importer{
		fetcher:   fetcher,
		metadata:  metadata,
		detector:  detector,
		extractor: extractor,
		languages: scraper.NewLanguageDetector(),
		opts:      opts,
	}
}

// ProductTarget is the product and the region URLs derived from an input URL
type ProductTarget struct {
	ProductID string
	URLs      map[string]string
}

// Resolve derives the product id and the per-region URLs. A locale in the input
// URL replaces the primary locale. Without a product id the input URL is used as is.
func (im *Importer) Resolve(rawURL string) ProductTarget {
	t := ProductTarget{URLs: make(map[string]string, 2)}
	if m := productIDPattern.FindStringSubmatch(rawURL); m != nil {
		t.ProductID = strings.ToUpper(m[1])
	}

	primary := im.opts.PrimaryLocale
	if m := localePattern.FindStringSubmatch(rawURL); m != nil {
		primary = strings.ToLower(m[1])
	}

	build := func(locale string) string {
		if t.ProductID == "" {
			return rawURL
		}
		return fmt.Sprintf("%s/%s/product/%s", strings.TrimRight(im.opts.StoreBaseURL, "/"), locale, t.ProductID)
	}
	t.URLs[models.RegionTR] = build(primary)
	t.URLs[models.RegionUA] = build(im.opts.SecondaryLocale)
	return t
}

// Import fetches and parses both regions of the product behind rawURL
func (im *Importer) Import(ctx context.Context, rawURL string) (*models.ImportResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}
	started := time.Now()

	target := im.Resolve(rawURL)
	logger := log.With().Str("product_id", target.ProductID).Logger()
	logger.Info().Str("url", rawURL).Msg("import started")

	fetched := scraper.FetchRegions(ctx, im.fetcher, im.detector, im.opts.Retry,
		target.URLs[models.RegionTR], target.URLs[models.RegionUA])

	results := map[string]scraper.PageResult{
		models.RegionTR: fetched.Primary,
		models.RegionUA: fetched.Secondary,
	}

	pages := make(map[string]RegionPage, len(results))
	for region, res := range results {
		page := RegionPage{Parsed: im.extractor.Parse(res.Content)}
		if !page.Parsed.Blocked {
			page.Language = im.languages.Detect(res.Content, res.Text)
		}
		pages[region] = page
	}
	parsed := Normalize(pages)

	if target.ProductID != "" && im.metadata != nil {
		for _, region := range models.Regions {
			p := parsed[region]
			if p.Name != "" && p.Cover != "" && (p.SalePrice != nil || p.Blocked) {
				continue
			}
			md, err := im.metadata.Lookup(ctx, target.ProductID, region)
			if err != nil {
				metrics.RecordMetadataLookup(region, "miss")
				logger.Warn().Err(err).Str("region", region).Msg("metadata lookup failed")
				continue
			}
			metrics.RecordMetadataLookup(region, "hit")
			parsed[region] = ApplyMetadata(p, md)
		}
	}

	out := &models.ImportResult{
		ProductID: target.ProductID,
		URLs:      target.URLs,
		Status:    make(map[string]*int, len(results)),
		Errors:    make(map[string]*string, len(results)),
		Parsed:    parsed,
		Attempts:  fetched.Attempts,
	}
	for region, res := range results {
		out.Status[region] = nil
		if res.StatusCode != 0 {
			status := res.StatusCode
			out.Status[region] = &status
		}
		out.Errors[region] = nil
		if res.Err != nil {
			msg := res.Err.Error()
			out.Errors[region] = &msg
		}
	}

	out.OK = !parsed[models.RegionTR].Blocked
	out.Draft = Draft(target.ProductID, parsed)

	outcome := "ok"
	if !out.OK {
		outcome = "blocked"
	}
	metrics.RecordImport(outcome, fetched.Attempts, time.Since(started))
	logger.Info().
		Bool("ok", out.OK).
		Int("attempts", fetched.Attempts).
		Str("title", parsed[models.RegionTR].Name).
		Dur("elapsed", time.Since(started)).
		Msg("import finished")

	return out, nil
}
