package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/catalog"
	"playstore/config"
	"playstore/models"
	"playstore/pricing"
	"playstore/repository"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, cfg *config.Config) (*CatalogService, *repository.DocumentRepository) {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	docs := repository.NewDocumentRepository(store)

	if cfg == nil {
		cfg = &config.Config{PageSize: 24}
	}
	svc := NewCatalogService(docs, cfg)
	svc.now = func() time.Time { return fixedNow }
	return svc, docs
}

func TestStoreOverrides(t *testing.T) {
	svc, docs := newTestService(t, &config.Config{WhatsappLink: "https://wa.me/env", RoundStep: 100, PageSize: 24})
	ctx := context.Background()

	doc := models.DefaultStoreDocument()
	doc.Settings.WhatsappLink = "https://wa.me/saved"
	require.NoError(t, docs.SaveStore(ctx, doc))

	settings := svc.Settings(ctx)
	assert.Equal(t, "https://wa.me/env", settings.WhatsappLink)
	assert.Equal(t, 100, settings.RoundStep)

	assert.Equal(t, "https://wa.me/saved", docs.LoadStore(ctx).Settings.WhatsappLink, "overrides are not persisted")
}

func TestReplaceRates(t *testing.T) {
	svc, docs := newTestService(t, nil)
	ctx := context.Background()

	overlaps, err := svc.ReplaceRates(ctx, "ua", []RateRuleInput{
		{Min: 0.0, Max: "1000", Rate: "3.5"},
		{Min: "500", Max: "", Rate: 2.0},
	})
	require.NoError(t, err)
	assert.Equal(t, []pricing.Overlap{{First: 1, Second: 2}}, overlaps)

	region, rules := svc.Rates(ctx, "UA")
	assert.Equal(t, models.RegionUA, region)
	require.Len(t, rules, 2)
	assert.Equal(t, 3.5, rules[0].Rate)
	require.NotNil(t, rules[0].Max)
	assert.Equal(t, 1000.0, *rules[0].Max)
	assert.Nil(t, rules[1].Max)

	assert.Empty(t, docs.LoadStore(ctx).Rates[models.RegionTR])

	t.Run("invalid rules leave the table alone", func(t *testing.T) {
		_, err := svc.ReplaceRates(ctx, "UA", []RateRuleInput{{Min: "abc", Rate: 1.0}})
		assert.ErrorIs(t, err, pricing.ErrInvalidRule)

		_, err = svc.ReplaceRates(ctx, "UA", []RateRuleInput{{Min: 100.0, Max: 50.0, Rate: 1.0}})
		assert.ErrorIs(t, err, pricing.ErrInvalidRule)

		_, err = svc.ReplaceRates(ctx, "UA", []RateRuleInput{{Min: 0.0, Rate: true}})
		assert.ErrorIs(t, err, pricing.ErrInvalidRule)

		_, rules := svc.Rates(ctx, "UA")
		assert.Len(t, rules, 2)
	})
}

func TestRatesDefaultRegion(t *testing.T) {
	svc, _ := newTestService(t, nil)

	region, rules := svc.Rates(context.Background(), "")
	assert.Equal(t, models.RegionTR, region)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
}

func TestUpdateSettings(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	step := 100
	link := "https://wa.me/2"
	date := " 2025-02-01 "
	settings, err := svc.UpdateSettings(ctx, SettingsUpdate{RoundStep: &step, WhatsappLink: &link, DefaultDate: &date})
	require.NoError(t, err)
	assert.Equal(t, 100, settings.RoundStep)
	assert.Equal(t, link, settings.WhatsappLink)
	require.NotNil(t, settings.DefaultDiscountUntil)
	assert.Equal(t, "2025-02-01", *settings.DefaultDiscountUntil)

	empty := ""
	settings, err = svc.UpdateSettings(ctx, SettingsUpdate{DefaultDiscountUntil: &empty})
	require.NoError(t, err)
	assert.Nil(t, settings.DefaultDiscountUntil)
	assert.Equal(t, 100, settings.RoundStep, "unset fields are kept")

	bad := 75
	_, err = svc.UpdateSettings(ctx, SettingsUpdate{RoundStep: &bad})
	assert.ErrorIs(t, err, ErrInvalidRoundStep)
}

func TestGameLifecycle(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	date := "2025-02-01"
	_, err := svc.UpdateSettings(ctx, SettingsUpdate{DefaultDate: &date})
	require.NoError(t, err)

	count, err := svc.AddGame(ctx, models.GameInput{ID: "a", Name: "Halo Infinite"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.AddGame(ctx, models.GameInput{ID: "b", Name: "Halo", DiscountedUntil: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.AddGame(ctx, models.GameInput{ID: "a", Name: "Again"})
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)

	updatedAt, list := svc.AdminList(ctx)
	require.NotNil(t, updatedAt)
	assert.Equal(t, fixedNow, *updatedAt)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-02-01", *list[0].DiscountedUntil)

	_, dates := svc.DiscountDates(ctx, "tr")
	assert.Equal(t, []models.DateCount{{Date: "2025-02-01", Count: 1}, {Date: "2025-03-01", Count: 1}}, dates)

	page := svc.Query(ctx, catalog.Query{Search: "halo"})
	assert.Equal(t, models.RegionTR, page.Region)
	assert.Equal(t, 24, page.PerPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "b", page.Items[0].ID)

	meta := svc.Meta(ctx)
	assert.Equal(t, 2, meta.Total)
	assert.True(t, meta.HasAnyUntil[models.RegionTR])

	removed, remaining, err := svc.DeleteByDiscountDate(ctx, "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, remaining)

	_, list = svc.AdminList(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].PopRank)

	_, err = svc.DeleteGame(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	count, err = svc.DeleteGame(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.AddGame(ctx, models.GameInput{ID: "c", Name: "C"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAll(ctx))
	assert.Equal(t, 0, svc.Count(ctx))
}
