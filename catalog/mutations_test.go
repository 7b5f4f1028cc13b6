package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/models"
)

func dated(id string, tr, ua *string) models.GameRecord {
	return models.GameRecord{
		ID:   id,
		Name: id,
		Regions: map[string]models.RegionInfo{
			models.RegionTR: {DiscountedUntil: tr},
			models.RegionUA: {DiscountedUntil: ua},
		},
	}
}

func str(s string) *string { return &s }

func TestInsert(t *testing.T) {
	items := []models.GameRecord{game("a", "A", 1, 100)}
	defaultUntil := str("2025-02-01")

	next, rec, err := Insert(items, models.GameInput{
		ID:   " b ",
		Name: "B",
		Regions: map[string]models.RegionInfo{
			models.RegionTR: {SalePrice: 10, Ru: "Озвучка", DiscountedUntil: str("2025-03-01")},
		},
	}, defaultUntil)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Len(t, items, 1)

	assert.Equal(t, "b", rec.ID)
	assert.Equal(t, 2, rec.PopRank)
	assert.Equal(t, models.DefaultPlatform, rec.Platform)
	assert.Equal(t, models.RuVoice, rec.Regions[models.RegionTR].Ru)
	assert.Equal(t, "2025-03-01", *rec.Regions[models.RegionTR].DiscountedUntil)

	ua := rec.Regions[models.RegionUA]
	assert.Equal(t, models.RuNone, ua.Ru)
	assert.Equal(t, 0.0, ua.SalePrice)
	assert.Equal(t, "2025-02-01", *ua.DiscountedUntil)
}

func TestInsertRenumbersGaps(t *testing.T) {
	items := []models.GameRecord{game("a", "A", 5, 1), game("b", "B", 9, 1)}

	next, rec, err := Insert(items, models.GameInput{ID: "c", Name: "C"}, nil)
	require.NoError(t, err)
	require.Len(t, next, 3)
	for i, g := range next {
		assert.Equal(t, i+1, g.PopRank, g.ID)
	}
	assert.Equal(t, "c", rec.ID)
	assert.Equal(t, 3, rec.PopRank)
	assert.Equal(t, 5, items[0].PopRank, "input is left alone")
}

func TestInsertExplicitUntil(t *testing.T) {
	_, rec, err := Insert(nil, models.GameInput{ID: "a", Name: "A", DiscountedUntil: "2025-05-05"}, str("2025-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.PopRank)
	for _, r := range models.Regions {
		assert.Equal(t, "2025-05-05", *rec.Regions[r].DiscountedUntil, r)
	}
}

func TestInsertErrors(t *testing.T) {
	items := []models.GameRecord{game("a", "A", 1, 100)}

	_, _, err := Insert(items, models.GameInput{ID: "b"}, nil)
	assert.ErrorIs(t, err, ErrIDAndNameRequired)

	_, _, err = Insert(items, models.GameInput{Name: "B"}, nil)
	assert.ErrorIs(t, err, ErrIDAndNameRequired)

	_, _, err = Insert(items, models.GameInput{ID: "a", Name: "Again"}, nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDeleteByID(t *testing.T) {
	items := []models.GameRecord{game("a", "A", 1, 1), game("b", "B", 2, 1), game("c", "C", 3, 1)}

	next, err := DeleteByID(items, "b")
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "a", next[0].ID)
	assert.Equal(t, 1, next[0].PopRank)
	assert.Equal(t, "c", next[1].ID)
	assert.Equal(t, 2, next[1].PopRank)
	assert.Equal(t, 3, items[2].PopRank, "input is left alone")

	_, err = DeleteByID(items, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DeleteByID(items, "  ")
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestDeleteByDiscountDate(t *testing.T) {
	items := []models.GameRecord{
		dated("tr-match", str("2025-01-31T23:59:00Z"), nil),
		dated("ua-match", nil, str("2025-01-31")),
		dated("tr-wins", str("2025-02-14"), str("2025-01-31")),
		dated("undated", nil, nil),
		dated("blank", str(""), nil),
	}

	next, removed, err := DeleteByDiscountDate(items, "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	require.Len(t, next, 3)
	assert.Equal(t, "tr-wins", next[0].ID)
	assert.Equal(t, 1, next[0].PopRank)
	assert.Equal(t, 3, next[2].PopRank)

	next, removed, err = DeleteByDiscountDate(items, "NONE")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, next, 3)

	_, _, err = DeleteByDiscountDate(items, "")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, _, err = DeleteByDiscountDate(items, "31.01.2025")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestDiscountDates(t *testing.T) {
	items := []models.GameRecord{
		dated("a", str("2025-02-01"), nil),
		dated("b", str("2025-01-31T10:00:00Z"), nil),
		dated("c", str("2025-01-31"), str("2025-03-01")),
		dated("d", nil, nil),
	}

	assert.Equal(t, []models.DateCount{
		{Date: "2025-01-31", Count: 2},
		{Date: "2025-02-01", Count: 1},
	}, DiscountDates(items, models.RegionTR))

	assert.Equal(t, []models.DateCount{{Date: "2025-03-01", Count: 1}}, DiscountDates(items, models.RegionUA))
	assert.Empty(t, DiscountDates(nil, models.RegionTR))
}

func TestHasAnyUntil(t *testing.T) {
	assert.Equal(t, map[string]bool{models.RegionTR: false, models.RegionUA: false}, HasAnyUntil(nil))

	items := []models.GameRecord{dated("a", nil, str("2025-01-01")), dated("b", str(""), nil)}
	assert.Equal(t, map[string]bool{models.RegionTR: false, models.RegionUA: true}, HasAnyUntil(items))
}

func TestAdminList(t *testing.T) {
	g := dated("a", nil, str("2025-01-01"))
	g.PopRank = 7
	withCover := dated("b", nil, nil)
	withCover.Cover = "https://img/b.png"

	list := AdminList([]models.GameRecord{g, withCover})
	require.Len(t, list, 2)
	assert.Nil(t, list[0].Cover)
	assert.Equal(t, 7, list[0].PopRank)
	assert.Equal(t, "2025-01-01", *list[0].DiscountedUntil)
	assert.Equal(t, "https://img/b.png", *list[1].Cover)
	assert.Nil(t, list[1].DiscountedUntil)
}
