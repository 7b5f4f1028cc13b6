package models

import "time"

// Regions
const (
	RegionTR = "TR"
	RegionUA = "UA"
)

// Regions lists the supported storefront regions, primary first
var Regions = []string{RegionTR, RegionUA}

// Russian localisation levels
const (
	RuVoice = "voice"
	RuText  = "text"
	RuNone  = "none"
)

// Subscription tags
const (
	SubEAPlay      = "eaplay"
	SubPSPlusExtra = "psplus_extra"
)

const DefaultPlatform = "PS4 / PS5"

// RegionInfo holds the per-region store data of a game
type RegionInfo struct {
	SalePrice       float64 `json:"salePrice"`
	DiscPerc        int     `json:"discPerc"`
	DiscountedUntil *string `json:"discountedUntil"`
	Ru              string  `json:"ru"`
	Sub             string  `json:"sub"`
}

// GameRecord is one catalog entry
type GameRecord struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Edition  string                `json:"edition,omitempty"`
	Platform string                `json:"platform"`
	Cover    string                `json:"cover,omitempty"`
	PopRank  int                   `json:"popRank"`
	Regions  map[string]RegionInfo `json:"regions"`
}

// Region returns the info for region and whether the record has it
func (g *GameRecord) Region(region string) (RegionInfo, bool) {
	info, ok := g.Regions[region]
	return info, ok
}

// Subscription returns the primary region's tag, falling back to the secondary
func (g *GameRecord) Subscription() string {
	for _, r := range Regions {
		if info, ok := g.Regions[r]; ok && info.Sub != "" {
			return info.Sub
		}
	}
	return ""
}

// DiscountedUntil returns the primary region's expiry, falling back to the secondary
func (g *GameRecord) DiscountedUntil() *string {
	for _, r := range Regions {
		if info, ok := g.Regions[r]; ok && info.DiscountedUntil != nil && *info.DiscountedUntil != "" {
			return info.DiscountedUntil
		}
	}
	return nil
}

// CatalogDocument is the persisted list of games
type CatalogDocument struct {
	UpdatedAt *time.Time   `json:"updatedAt"`
	Items     []GameRecord `json:"items"`
}

// GameListItem is a catalog entry priced for one region
type GameListItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Edition         string  `json:"edition"`
	Ru              string  `json:"ru"`
	Sub             string  `json:"sub"`
	Platform        string  `json:"platform"`
	Cover           string  `json:"cover"`
	DiscPerc        int     `json:"discPerc"`
	DiscountedUntil *string `json:"discountedUntil"`
	StorePrice      float64 `json:"storePrice"`
	FinalPriceRub   float64 `json:"finalPriceRub"`
	PopRank         int     `json:"popRank"`
}

// GamePage is one page of catalog query results
type GamePage struct {
	Region    string         `json:"region"`
	Page      int            `json:"page"`
	PerPage   int            `json:"perPage"`
	Total     int            `json:"total"`
	Items     []GameListItem `json:"items"`
	UpdatedAt *time.Time     `json:"updatedAt"`
}

// AdminGameItem is the condensed entry shown in the admin list
type AdminGameItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Platform        string  `json:"platform"`
	Cover           *string `json:"cover"`
	PopRank         int     `json:"popRank"`
	DiscountedUntil *string `json:"discountedUntil"`
}

// DateCount is one bucket of the discount-date histogram
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StringPtr returns a pointer to s, or nil for the empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GameInput is a manual catalog insert. DiscountedUntil applies to every region
// that does not carry its own expiry.
type GameInput struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Cover           string                `json:"cover"`
	Platform        string                `json:"platform"`
	Edition         string                `json:"edition"`
	DiscountedUntil string                `json:"discountedUntil"`
	Regions         map[string]RegionInfo `json:"regions"`
}
