package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"playstore/models"
)

// ErrNoMetadata is returned when no age-gate variant produced a usable payload
var ErrNoMetadata = errors.New("no metadata found")

// Metadata is what the storefront's container API knows about a product
type Metadata struct {
	Title     string
	Cover     string
	SalePrice *float64
	Currency  string
}

// MetadataClient queries the storefront's container API, used when a product
// page did not yield a title
type MetadataClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	detector   *BotDetector
	scorer     *TitleScorer
	prices     *LocaleParser
	ageGates   []string
	urlPattern *regexp.Regexp
}

// NewMetadataClient creates a client throttled to rps requests per second
func NewMetadataClient(baseURL string, rps float64, timeout time.Duration, detector *BotDetector, prices *LocaleParser) *MetadataClient {
	if rps <= 0 {
		rps = 2
	}
	return &MetadataClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		detector:   detector,
		scorer:     NewTitleScorer(detector),
		prices:     prices,
		ageGates:   []string{"999", "19"},
		urlPattern: regexp.MustCompile(`^https?://`),
	}
}

func regionPath(region string) (country, lang string) {
	if region == models.RegionUA {
		return "UA", "ru"
	}
	return "TR", "en"
}

// ContainerURL builds the container API address for one age-gate variant
func (c *MetadataClient) ContainerURL(productID, region, age string) string {
	country, lang := regionPath(region)
	return fmt.Sprintf("%s/store/api/chihiro/00_09_000/container/%s/%s/%s/%s", c.baseURL, country, lang, age, productID)
}

// FetchContainer downloads and decodes one container payload
func (c *MetadataClient) FetchContainer(ctx context.Context, url string) (*Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json,text/plain,*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("metadata request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return ParseTree(body)
}

// Lookup tries the age-gate variants in order. The first variant with a usable
// title wins; otherwise the first payload that decoded still supplies cover and price.
func (c *MetadataClient) Lookup(ctx context.Context, productID, region string) (*Metadata, error) {
	var fallback *Metadata
	for _, age := range c.ageGates {
		url := c.ContainerURL(productID, region, age)
		payload, err := c.FetchContainer(ctx, url)
		if err != nil {
			log.Debug().Err(err).Str("url", url).Msg("metadata variant failed")
			continue
		}

		md := c.Read(payload)
		if md.Title != "" {
			return md, nil
		}
		if fallback == nil {
			fallback = md
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoMetadata
}

// Read pulls title, cover and price out of a container payload
func (c *MetadataClient) Read(payload *Node) *Metadata {
	md := &Metadata{}
	if title, ok := c.Title(payload); ok {
		md.Title = title
	}
	if cover, ok := c.Cover(payload); ok {
		md.Cover = cover
	}
	if price, currency, ok := c.Price(payload); ok {
		md.SalePrice = &price
		md.Currency = currency
	}
	return md
}

func (c *MetadataClient) usableTitle(t string) bool {
	return t != "" && !c.detector.IsBlocked(t) && !c.detector.LooksDenied(t)
}

// Title prefers the well-known name fields and falls back to scoring every string
func (c *MetadataClient) Title(payload *Node) (string, bool) {
	for _, p := range []string{"name", "long_name", "default_sku.name", "default_sku.title_name"} {
		if t, ok := payload.Lookup(p).Text(); ok && c.usableTitle(t) {
			return t, true
		}
	}
	t, ok := c.scorer.PickTitle(payload)
	if !ok || !c.usableTitle(t) {
		return "", false
	}
	return t, true
}

// Cover returns the first absolute image URL of the payload
func (c *MetadataClient) Cover(payload *Node) (string, bool) {
	if images := payload.FirstOf("images", "data.images", "included.images"); images != nil && images.Kind == KindArray {
		for _, im := range images.Items {
			if u, ok := im.FirstOf("url", "src", "source", "image.url").Text(); ok && c.urlPattern.MatchString(u) {
				return u, true
			}
		}
	}
	if u, ok := payload.FirstOf("default_sku.image_url", "image_url", "thumbnail_url").Text(); ok && c.urlPattern.MatchString(u) {
		return u, true
	}
	return "", false
}

// Price returns the sale price of the default SKU, or its base price when there is no discount
func (c *MetadataClient) Price(payload *Node) (float64, string, bool) {
	skus := payload.FirstOf("skus", "data.skus")
	def := payload.FirstOf("default_sku", "data.default_sku")

	var sku *Node
	if skus != nil && skus.Kind == KindArray {
		if id, ok := def.FirstOf("id", "sku_id").Scalar(); ok {
			for _, s := range skus.Items {
				if sid, ok := s.Get("id").Scalar(); ok && sid == id {
					sku = s
					break
				}
			}
		}
		if sku == nil && len(skus.Items) > 0 {
			sku = skus.Items[0]
		}
	}
	if sku == nil {
		return 0, "", false
	}

	prices := sku.FirstOf("prices", "price", "default_price")
	if prices == nil {
		return 0, "", false
	}
	currency, _ := prices.FirstOf("currencyCode", "currency_code", "currency").Text()

	for _, field := range [][]string{
		{"discountedPrice", "discounted_price", "actual_price", "sale_price"},
		{"basePrice", "base_price", "original_price", "strikethrough_price"},
	} {
		if v, err := c.prices.ParseNode(prices.FirstOf(field...)); err == nil {
			return v, currency, true
		}
	}
	return 0, "", false
}
