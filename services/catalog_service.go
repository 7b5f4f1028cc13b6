package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"playstore/catalog"
	"playstore/config"
	"playstore/metrics"
	"playstore/models"
	"playstore/pricing"
)

// ErrInvalidRoundStep is returned for round steps other than 50 and 100
var ErrInvalidRoundStep = errors.New("round step must be 50 or 100")

// Documents is the persistence the catalog service needs
type Documents interface {
	LoadStore(ctx context.Context) models.StoreDocument
	SaveStore(ctx context.Context, doc models.StoreDocument) error
	LoadCatalog(ctx context.Context) models.CatalogDocument
	SaveCatalog(ctx context.Context, doc models.CatalogDocument) error
}

// CatalogService loads the documents fresh for every call, applies a pure
// transformation and writes the result back when it changed something
type CatalogService struct {
	docs Documents
	cfg  *config.Config
	now  func() time.Time
	mu   sync.Mutex
}

// NewCatalogService creates a new catalog service
func NewCatalogService(docs Documents, cfg *config.Config) *CatalogService {
	return &CatalogService{
		docs: docs,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Store returns the settings and rates with environment overrides applied
func (s *CatalogService) Store(ctx context.Context) models.StoreDocument {
	return s.withOverrides(s.docs.LoadStore(ctx))
}

func (s *CatalogService) withOverrides(doc models.StoreDocument) models.StoreDocument {
	if s.cfg.WhatsappLink != "" {
		doc.Settings.WhatsappLink = s.cfg.WhatsappLink
	}
	if s.cfg.RoundStep != 0 {
		doc.Settings.RoundStep = s.cfg.RoundStep
	}
	return doc
}

// Query lists one page of the catalog priced for the requested region
func (s *CatalogService) Query(ctx context.Context, q catalog.Query) models.GamePage {
	store := s.Store(ctx)
	games := s.docs.LoadCatalog(ctx)

	q.Region = normalizeRegion(q.Region)
	if q.PerPage == 0 {
		q.PerPage = s.cfg.PageSize
	}

	res := catalog.Run(games.Items, q, catalog.Pricing{
		Rules:     store.Rates[q.Region],
		RoundStep: store.Settings.RoundStep,
	})

	return models.GamePage{
		Region:    q.Region,
		Page:      res.Page,
		PerPage:   res.PerPage,
		Total:     res.Total,
		Items:     res.Items,
		UpdatedAt: games.UpdatedAt,
	}
}

// Meta summarises settings and catalog state for the storefront
func (s *CatalogService) Meta(ctx context.Context) models.StoreMeta {
	store := s.Store(ctx)
	games := s.docs.LoadCatalog(ctx)
	metrics.SetCatalogSize(len(games.Items))

	return models.StoreMeta{
		Settings:    store.Settings,
		UpdatedAt:   models.MetaTimestamps{Games: games.UpdatedAt},
		HasAnyUntil: catalog.HasAnyUntil(games.Items),
		Total:       len(games.Items),
	}
}

// DiscountDates returns the expiry histogram of region
func (s *CatalogService) DiscountDates(ctx context.Context, region string) (string, []models.DateCount) {
	region = normalizeRegion(region)
	return region, catalog.DiscountDates(s.docs.LoadCatalog(ctx).Items, region)
}

// Count returns the number of games in the catalog
func (s *CatalogService) Count(ctx context.Context) int {
	n := len(s.docs.LoadCatalog(ctx).Items)
	metrics.SetCatalogSize(n)
	return n
}

// Rates returns the rate table of region
func (s *CatalogService) Rates(ctx context.Context, region string) (string, []models.RateRule) {
	region = normalizeRegion(region)
	rules := s.Store(ctx).Rates[region]
	if rules == nil {
		rules = []models.RateRule{}
	}
	return region, rules
}

// RateRuleInput is a rate rule as submitted by the admin page; numbers may
// arrive as JSON numbers or numeric strings and an empty max means unbounded
type RateRuleInput struct {
	Min  any `json:"min"`
	Max  any `json:"max"`
	Rate any `json:"rate"`
}

// ReplaceRates validates and stores the rate table of region. Overlapping
// brackets are accepted and reported back.
func (s *CatalogService) ReplaceRates(ctx context.Context, region string, input []RateRuleInput) ([]pricing.Overlap, error) {
	region = normalizeRegion(region)

	rules := make([]models.RateRule, 0, len(input))
	for i, in := range input {
		rule, err := toRateRule(in)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	if err := pricing.ValidateRules(rules); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.LoadStore(ctx)
	doc.Rates[region] = rules
	if err := s.docs.SaveStore(ctx, doc); err != nil {
		return nil, err
	}

	overlaps := pricing.DetectOverlaps(rules)
	for _, o := range overlaps {
		log.Warn().Str("region", region).Int("first", o.First).Int("second", o.Second).Msg("overlapping rate rules")
	}
	return overlaps, nil
}

func toRateRule(in RateRuleInput) (models.RateRule, error) {
	lo, ok := toNumber(in.Min)
	if !ok {
		return models.RateRule{}, pricing.ErrInvalidRule
	}
	rate, ok := toNumber(in.Rate)
	if !ok {
		return models.RateRule{}, pricing.ErrInvalidRule
	}
	rule := models.RateRule{Min: lo, Rate: rate}
	if in.Max == nil {
		return rule, nil
	}
	if str, isStr := in.Max.(string); isStr && strings.TrimSpace(str) == "" {
		return rule, nil
	}
	hi, ok := toNumber(in.Max)
	if !ok {
		return models.RateRule{}, pricing.ErrInvalidRule
	}
	rule.Max = &hi
	return rule, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Settings returns the effective store settings
func (s *CatalogService) Settings(ctx context.Context) models.StoreSettings {
	return s.Store(ctx).Settings
}

// SettingsUpdate is a partial settings change; nil fields are left alone and
// an empty default date clears it
type SettingsUpdate struct {
	RoundStep            *int    `json:"roundStep"`
	WhatsappLink         *string `json:"whatsappLink"`
	DefaultDiscountUntil *string `json:"defaultDiscountUntil"`
	DefaultDate          *string `json:"defaultDate"`
}

// UpdateSettings applies a partial settings change
func (s *CatalogService) UpdateSettings(ctx context.Context, upd SettingsUpdate) (models.StoreSettings, error) {
	if upd.RoundStep != nil && *upd.RoundStep != 50 && *upd.RoundStep != 100 {
		return models.StoreSettings{}, ErrInvalidRoundStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.LoadStore(ctx)
	if upd.RoundStep != nil {
		doc.Settings.RoundStep = *upd.RoundStep
	}
	if upd.WhatsappLink != nil {
		doc.Settings.WhatsappLink = *upd.WhatsappLink
	}
	dd := upd.DefaultDiscountUntil
	if dd == nil {
		dd = upd.DefaultDate
	}
	if dd != nil {
		doc.Settings.DefaultDiscountUntil = models.StringPtr(strings.TrimSpace(*dd))
	}

	if err := s.docs.SaveStore(ctx, doc); err != nil {
		return models.StoreSettings{}, err
	}
	return s.withOverrides(doc).Settings, nil
}

// AdminList returns the condensed catalog for the management page
func (s *CatalogService) AdminList(ctx context.Context) (*time.Time, []models.AdminGameItem) {
	games := s.docs.LoadCatalog(ctx)
	return games.UpdatedAt, catalog.AdminList(games.Items)
}

// AddGame inserts a record, applying the default discount date from settings
func (s *CatalogService) AddGame(ctx context.Context, in models.GameInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaultUntil := s.docs.LoadStore(ctx).Settings.DefaultDiscountUntil
	games := s.docs.LoadCatalog(ctx)

	items, rec, err := catalog.Insert(games.Items, in, defaultUntil)
	if err != nil {
		return 0, err
	}
	if err := s.saveItems(ctx, items); err != nil {
		return 0, err
	}
	log.Info().Str("id", rec.ID).Int("pop_rank", rec.PopRank).Msg("game added")
	return len(items), nil
}

// DeleteGame removes one record by id
func (s *CatalogService) DeleteGame(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := catalog.DeleteByID(s.docs.LoadCatalog(ctx).Items, id)
	if err != nil {
		return 0, err
	}
	if err := s.saveItems(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// DeleteByDiscountDate removes every record expiring on date ("none" for no date)
func (s *CatalogService) DeleteByDiscountDate(ctx context.Context, date string) (removed, remaining int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, removed, err := catalog.DeleteByDiscountDate(s.docs.LoadCatalog(ctx).Items, date)
	if err != nil {
		return 0, 0, err
	}
	if err := s.saveItems(ctx, items); err != nil {
		return 0, 0, err
	}
	return removed, len(items), nil
}

// DeleteAll empties the catalog
func (s *CatalogService) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveItems(ctx, []models.GameRecord{})
}

func (s *CatalogService) saveItems(ctx context.Context, items []models.GameRecord) error {
	now := s.now().UTC()
	if err := s.docs.SaveCatalog(ctx, models.CatalogDocument{UpdatedAt: &now, Items: items}); err != nil {
		return err
	}
	metrics.SetCatalogSize(len(items))
	return nil
}

func normalizeRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return models.RegionTR
	}
	return region
}
