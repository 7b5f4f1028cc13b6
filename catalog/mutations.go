package catalog

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"playstore/models"
)

var (
	ErrIDAndNameRequired = errors.New("id and name are required")
	ErrIDRequired        = errors.New("id is required")
	ErrAlreadyExists     = errors.New("game already exists")
	ErrNotFound          = errors.New("game not found")
	ErrDateRequired      = errors.New("date is required")
	ErrBadDate           = errors.New("date must be YYYY-MM-DD or none")
)

// NoDate selects records without any discount expiry
const NoDate = "none"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Renumber assigns popRank 1..N in slice order
func Renumber(items []models.GameRecord) {
	for i := range items {
		items[i].PopRank = i + 1
	}
}

// Insert appends a new record built from in and renumbers the catalog.
// Missing regions get empty defaults and defaultUntil fills regions without
// an expiry.
func Insert(items []models.GameRecord, in models.GameInput, defaultUntil *string) ([]models.GameRecord, models.GameRecord, error) {
	id := strings.TrimSpace(in.ID)
	name := strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return nil, models.GameRecord{}, ErrIDAndNameRequired
	}
	for _, g := range items {
		if g.ID == id {
			return nil, models.GameRecord{}, ErrAlreadyExists
		}
	}

	until := models.StringPtr(strings.TrimSpace(in.DiscountedUntil))
	if until == nil {
		until = defaultUntil
	}

	platform := in.Platform
	if platform == "" {
		platform = models.DefaultPlatform
	}

	rec := models.GameRecord{
		ID:       id,
		Name:     name,
		Edition:  in.Edition,
		Platform: platform,
		Cover:    in.Cover,
		Regions:  make(map[string]models.RegionInfo, len(models.Regions)),
	}
	for _, r := range models.Regions {
		info, ok := in.Regions[r]
		if !ok {
			info = models.RegionInfo{Ru: models.RuNone}
		}
		info.Ru = NormalizeRu(info.Ru)
		if info.DiscountedUntil == nil || *info.DiscountedUntil == "" {
			info.DiscountedUntil = until
		}
		rec.Regions[r] = info
	}

	next := make([]models.GameRecord, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, rec)
	Renumber(next)
	return next, next[len(next)-1], nil
}

// DeleteByID removes the record with id and renumbers the rest
func DeleteByID(items []models.GameRecord, id string) ([]models.GameRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}
	next := make([]models.GameRecord, 0, len(items))
	for _, g := range items {
		if g.ID != id {
			next = append(next, g)
		}
	}
	if len(next) == len(items) {
		return nil, ErrNotFound
	}
	Renumber(next)
	return next, nil
}

// DeleteByDiscountDate removes records whose expiry (primary region first)
// falls on date, or records without expiry when date is "none"
func DeleteByDiscountDate(items []models.GameRecord, date string) ([]models.GameRecord, int, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, 0, ErrDateRequired
	}
	wantNone := strings.EqualFold(date, NoDate)
	if !wantNone && !isoDatePattern.MatchString(date) {
		return nil, 0, ErrBadDate
	}

	next := make([]models.GameRecord, 0, len(items))
	removed := 0
	for i := range items {
		until := items[i].DiscountedUntil()
		var match bool
		if wantNone {
			match = until == nil
		} else {
			match = until != nil && datePart(*until) == date
		}
		if match {
			removed++
			continue
		}
		next = append(next, items[i])
	}
	Renumber(next)
	return next, removed, nil
}

// DiscountDates counts records per expiry date in region, oldest first
func DiscountDates(items []models.GameRecord, region string) []models.DateCount {
	counts := make(map[string]int)
	for i := range items {
		info, ok := items[i].Region(region)
		if !ok || info.DiscountedUntil == nil {
			continue
		}
		if d := datePart(*info.DiscountedUntil); d != "" {
			counts[d]++
		}
	}

	out := make([]models.DateCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, models.DateCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// HasAnyUntil reports per region whether any record carries an expiry
func HasAnyUntil(items []models.GameRecord) map[string]bool {
	out := make(map[string]bool, len(models.Regions))
	for _, r := range models.Regions {
		out[r] = false
	}
	for i := range items {
		for _, r := range models.Regions {
			if info, ok := items[i].Region(r); ok && info.DiscountedUntil != nil && *info.DiscountedUntil != "" {
				out[r] = true
			}
		}
	}
	return out
}

// AdminList condenses records for the management page
func AdminList(items []models.GameRecord) []models.AdminGameItem {
	out := make([]models.AdminGameItem, 0, len(items))
	for i := range items {
		g := &items[i]
		out = append(out, models.AdminGameItem{
			ID:              g.ID,
			Name:            g.Name,
			Platform:        g.Platform,
			Cover:           models.StringPtr(g.Cover),
			PopRank:         g.PopRank,
			DiscountedUntil: g.DiscountedUntil(),
		})
	}
	return out
}
