// Package catalog filters, ranks and mutates the in-memory game catalog.
package catalog

import (
	"sort"
	"strings"

	"playstore/models"
	"playstore/pricing"
)

// Sort orders
const (
	SortPop       = "pop"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

const (
	DefaultPageSize = 24
	StandardEdition = "Standard Edition"
	unrankedPopRank = 999999
)

// Query describes one catalog listing request
type Query struct {
	Region   string
	Search   string
	Platform string
	Until    string
	Sort     string
	Page     int
	PerPage  int
}

// Pricing is the rate table and rounding applied to a region's prices
type Pricing struct {
	Rules     []models.RateRule
	RoundStep int
}

// Result is one page of priced items plus the size of the full match set
type Result struct {
	Items   []models.GameListItem
	Total   int
	Page    int
	PerPage int
}

type scored struct {
	item  models.GameListItem
	score int
}

// Run filters, prices, ranks and paginates records. It never mutates records.
func Run(records []models.GameRecord, q Query, p Pricing) Result {
	region := strings.ToUpper(strings.TrimSpace(q.Region))
	if region == "" {
		region = models.RegionTR
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	search := strings.TrimSpace(q.Search)
	until := datePart(strings.TrimSpace(q.Until))

	matched := make([]scored, 0, len(records))
	for i := range records {
		g := &records[i]
		if search != "" && !Matches(g.Name, search) {
			continue
		}
		if q.Platform != "" && !PlatformMatches(g.Platform, q.Platform) {
			continue
		}

		item := ListItem(g, region, p)
		if until != "" && (item.DiscountedUntil == nil || datePart(*item.DiscountedUntil) != until) {
			continue
		}

		s := scored{item: item}
		if search != "" {
			s.score = Relevance(g.Name, search)
		}
		matched = append(matched, s)
	}

	tie := tieBreak(q.Sort)
	sort.SliceStable(matched, func(i, j int) bool {
		if search != "" && matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return tie(matched[i].item, matched[j].item)
	})

	res := Result{Total: len(matched), Page: page, PerPage: perPage, Items: []models.GameListItem{}}
	start := (page - 1) * perPage
	if start >= len(matched) {
		return res
	}
	end := min(start+perPage, len(matched))
	for _, s := range matched[start:end] {
		res.Items = append(res.Items, s.item)
	}
	return res
}

func tieBreak(order string) func(a, b models.GameListItem) bool {
	switch order {
	case SortPriceAsc:
		return func(a, b models.GameListItem) bool {
			if a.FinalPriceRub != b.FinalPriceRub {
				return a.FinalPriceRub < b.FinalPriceRub
			}
			return a.PopRank < b.PopRank
		}
	case SortPriceDesc:
		return func(a, b models.GameListItem) bool {
			if a.FinalPriceRub != b.FinalPriceRub {
				return a.FinalPriceRub > b.FinalPriceRub
			}
			return a.PopRank < b.PopRank
		}
	}
	return func(a, b models.GameListItem) bool {
		return a.PopRank < b.PopRank
	}
}

// ListItem prices g for region. A subscription in any region shows the
// product as the standard edition.
func ListItem(g *models.GameRecord, region string, p Pricing) models.GameListItem {
	info, _ := g.Region(region)
	sub := g.Subscription()

	edition := g.Edition
	if sub != "" || edition == "" {
		edition = StandardEdition
	}
	platform := g.Platform
	if platform == "" {
		platform = models.DefaultPlatform
	}
	popRank := g.PopRank
	if popRank == 0 {
		popRank = unrankedPopRank
	}

	return models.GameListItem{
		ID:              g.ID,
		Name:            g.Name,
		Edition:         edition,
		Ru:              NormalizeRu(info.Ru),
		Sub:             sub,
		Platform:        platform,
		Cover:           g.Cover,
		DiscPerc:        info.DiscPerc,
		DiscountedUntil: info.DiscountedUntil,
		StorePrice:      info.SalePrice,
		FinalPriceRub:   pricing.ComputeDisplayPrice(info.SalePrice, p.Rules, p.RoundStep),
		PopRank:         popRank,
	}
}
