package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"playstore/models"
)

// Page is fetched content prepared for the matchers
type Page struct {
	HTML           string
	StructuredData []*Node
}

// NewPage decodes the structured-data blocks of content once for all matchers
func NewPage(content string) *Page {
	return &Page{HTML: content, StructuredData: ParseStructuredData(content)}
}

// Matcher pulls one candidate value out of a page
type Matcher func(p *Page) (string, bool)

// FirstMatch combines matchers so that the first one producing a value wins
func FirstMatch(matchers ...Matcher) Matcher {
	return func(p *Page) (string, bool) {
		for _, m := range matchers {
			if v, ok := m(p); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Reject drops values from m for which drop returns true
func Reject(m Matcher, drop func(string) bool) Matcher {
	return func(p *Page) (string, bool) {
		v, ok := m(p)
		if !ok || drop(v) {
			return "", false
		}
		return v, true
	}
}

var (
	headingPattern  = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	titleTagPattern = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)

	discountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Save\s*(\d{1,3})%`),
		regexp.MustCompile(`(?i)%(\d{1,3})\s*indirim`),
	}
)

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// MetaContent reads the content attribute of a social-preview meta tag
func MetaContent(property string) Matcher {
	re := regexp.MustCompile(`(?i)<meta[^>]+(?:property|name)=["']` + regexp.QuoteMeta(property) + `["'][^>]+content=["']([^"']+)["']`)
	return func(p *Page) (string, bool) {
		m := re.FindStringSubmatch(p.HTML)
		if m == nil {
			return "", false
		}
		v := strings.TrimSpace(html.UnescapeString(m[1]))
		return v, v != ""
	}
}

// Heading returns the text of the first h1 with inner tags removed
func Heading(p *Page) (string, bool) {
	m := headingPattern.FindStringSubmatch(p.HTML)
	if m == nil {
		return "", false
	}
	v := collapse(html.UnescapeString(tagPattern.ReplaceAllString(m[1], " ")))
	return v, v != ""
}

// DocumentTitle returns the text of the title tag
func DocumentTitle(p *Page) (string, bool) {
	m := titleTagPattern.FindStringSubmatch(p.HTML)
	if m == nil {
		return "", false
	}
	v := collapse(html.UnescapeString(m[1]))
	return v, v != ""
}

// StructuredImage returns the first image referenced by a structured-data entity
func StructuredImage(p *Page) (string, bool) {
	for _, obj := range structuredObjects(p.StructuredData) {
		img := obj.Get("image")
		if img == nil {
			continue
		}
		if img.Kind == KindArray {
			if len(img.Items) == 0 {
				continue
			}
			img = img.Items[0]
		}
		if img.Kind == KindObject {
			img = img.Get("url")
		}
		if u, ok := img.Text(); ok {
			return u, true
		}
	}
	return "", false
}

// ImageByAlt finds an img tag whose alt text equals alt, in either attribute order
func ImageByAlt(alt string) Matcher {
	if alt == "" {
		return func(*Page) (string, bool) { return "", false }
	}
	safe := regexp.QuoteMeta(alt)
	altFirst := regexp.MustCompile(`(?i)<img[^>]+alt=["']` + safe + `["'][^>]+src=["']([^"']+)["']`)
	srcFirst := regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]+alt=["']` + safe + `["']`)
	return func(p *Page) (string, bool) {
		for _, re := range []*regexp.Regexp{altFirst, srcFirst} {
			if m := re.FindStringSubmatch(p.HTML); m != nil {
				return m[1], true
			}
		}
		return "", false
	}
}

// HostedImage returns the first img served from host with a known image extension
func HostedImage(host string) Matcher {
	re := regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+` + regexp.QuoteMeta(host) + `[^"']+\.(?:jpg|jpeg|png|webp)[^"']*)["']`)
	return func(p *Page) (string, bool) {
		m := re.FindStringSubmatch(p.HTML)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// DiscountText finds the advertised discount percentage
func DiscountText(p *Page) (string, bool) {
	for _, re := range discountPatterns {
		if m := re.FindStringSubmatch(p.HTML); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Offer is a price advertised in structured data
type Offer struct {
	Price    float64
	Currency string
}

// Extractor turns a fetched product page into a parsed region result
type Extractor struct {
	detector  *BotDetector
	prices    *LocaleParser
	imageHost string
	title     Matcher
}

// NewExtractor creates an extractor that recognises cover images served from imageHost
func NewExtractor(detector *BotDetector, prices *LocaleParser, imageHost string) *Extractor {
	if imageHost == "" {
		imageHost = "store.playstation.com"
	}
	e := &Extractor{
		detector:  detector,
		prices:    prices,
		imageHost: imageHost,
	}
	e.title = Reject(FirstMatch(
		MetaContent("og:title"),
		MetaContent("twitter:title"),
		Heading,
		DocumentTitle,
	), detector.LooksDenied)
	return e
}

// Title resolves the product title
func (e *Extractor) Title(p *Page) (string, bool) {
	v, ok := e.title(p)
	if !ok {
		return "", false
	}
	return collapse(v), true
}

// Cover resolves the cover image, using title to match img alt text
func (e *Extractor) Cover(p *Page, title string) (string, bool) {
	v, ok := FirstMatch(
		MetaContent("og:image"),
		MetaContent("twitter:image"),
		StructuredImage,
		ImageByAlt(title),
		HostedImage(e.imageHost),
	)(p)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Edition resolves the normalized edition label
func (e *Extractor) Edition(p *Page, title string) (string, bool) {
	return FirstMatch(EditionMatchers(title)...)(p)
}

// Discount returns the discount percentage, or 0 when none is advertised
func (e *Extractor) Discount(p *Page) int {
	v, ok := DiscountText(p)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 100 {
		return 0
	}
	return n
}

// OfferPrice scans structured data for the first offer with a usable price.
// Zero prices are skipped; free entries are not sold through offers.
func (e *Extractor) OfferPrice(p *Page) (Offer, bool) {
	for _, obj := range structuredObjects(p.StructuredData) {
		offers := obj.Get("offers")
		if offers == nil {
			continue
		}
		candidates := []*Node{offers}
		if offers.Kind == KindArray {
			candidates = offers.Items
		}
		for _, o := range candidates {
			price, err := e.prices.ParseNode(o.Get("price"))
			if err != nil || price <= 0 {
				continue
			}
			currency, _ := o.Get("priceCurrency").Text()
			return Offer{Price: price, Currency: currency}, true
		}
	}
	return Offer{}, false
}

// Parse extracts every field of a product page. Blocked or empty content yields
// a result marked blocked with no fields set.
func (e *Extractor) Parse(content string) models.ParsedRegion {
	if strings.TrimSpace(content) == "" {
		return models.ParsedRegion{Blocked: true, BlockReason: "empty page"}
	}
	if blocked, reason := e.detector.DetectBlock(content); blocked {
		return models.ParsedRegion{Blocked: true, BlockReason: reason}
	}

	p := NewPage(content)
	out := models.ParsedRegion{}

	title, hasTitle := e.Title(p)
	if hasTitle {
		out.Name = title
		out.TitleSource = models.SourcePage
	}

	alt := title
	if !hasTitle {
		alt, _ = FirstMatch(Heading, DocumentTitle)(p)
	}
	if cover, ok := e.Cover(p, alt); ok {
		out.Cover = cover
	}

	if offer, ok := e.OfferPrice(p); ok {
		price := offer.Price
		out.SalePrice = &price
		out.Currency = offer.Currency
	}

	out.DiscPerc = e.Discount(p)

	if edition, ok := e.Edition(p, title); ok {
		out.Edition = edition
	}

	return out
}
