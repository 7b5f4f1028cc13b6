package models

// Title sources
const (
	SourcePage     = "page"
	SourceMetadata = "metadata"
)

// ParsedRegion is the extraction result for one region page
type ParsedRegion struct {
	Blocked         bool     `json:"blocked"`
	BlockReason     string   `json:"blockReason,omitempty"`
	Name            string   `json:"name,omitempty"`
	TitleSource     string   `json:"titleSource,omitempty"`
	Edition         string   `json:"edition,omitempty"`
	Cover           string   `json:"cover,omitempty"`
	SalePrice       *float64 `json:"salePrice"`
	Currency        string   `json:"currency,omitempty"`
	DiscPerc        int      `json:"discPerc"`
	DiscountedUntil *string  `json:"discountedUntil"`
	Ru              string   `json:"ru,omitempty"`
	Sub             string   `json:"sub,omitempty"`
}

// ImportResult is the outcome of importing one product URL
type ImportResult struct {
	OK        bool                    `json:"ok"`
	ProductID string                  `json:"productId,omitempty"`
	URLs      map[string]string       `json:"urls"`
	Status    map[string]*int         `json:"status"`
	Errors    map[string]*string      `json:"errors"`
	Parsed    map[string]ParsedRegion `json:"parsed"`
	Attempts  int                     `json:"attempts"`
	Draft     *GameRecord             `json:"draft,omitempty"`
}
