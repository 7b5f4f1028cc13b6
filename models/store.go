package models

import "time"

// RateRule maps a store price bracket to a conversion rate. A nil Max leaves
// the bracket open above.
type RateRule struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Rate float64  `json:"rate"`
}

// StoreSettings are the catalog-wide display settings
type StoreSettings struct {
	RoundStep            int     `json:"roundStep"`
	WhatsappLink         string  `json:"whatsappLink"`
	DefaultDiscountUntil *string `json:"defaultDiscountUntil"`
}

// StoreDocument is the persisted settings and rate tables
type StoreDocument struct {
	Settings StoreSettings         `json:"settings"`
	Rates    map[string][]RateRule `json:"rates"`
}

const DefaultRoundStep = 50

// DefaultStoreDocument returns the document used when nothing is persisted yet
func DefaultStoreDocument() StoreDocument {
	return StoreDocument{
		Settings: StoreSettings{RoundStep: DefaultRoundStep},
		Rates: map[string][]RateRule{
			RegionTR: {},
			RegionUA: {},
		},
	}
}

// StoreMeta is the public summary of the catalog
type StoreMeta struct {
	Settings    StoreSettings   `json:"settings"`
	UpdatedAt   MetaTimestamps  `json:"updatedAt"`
	HasAnyUntil map[string]bool `json:"hasAnyUntil"`
	Total       int             `json:"total"`
}

// MetaTimestamps reports when each document last changed
type MetaTimestamps struct {
	Games *time.Time `json:"games"`
}
