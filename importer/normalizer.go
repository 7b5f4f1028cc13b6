package importer

import (
	"playstore/models"
	"playstore/scraper"
)

// RegionPage is the raw material for normalizing one region
type RegionPage struct {
	Parsed   models.ParsedRegion
	Language scraper.LanguageInfo
}

// Normalize combines per-region parse results into their final form.
//
// Language support and subscription tags are attached to usable regions, a
// subscription forces the standard edition, and the primary region's discount
// overrides whatever the secondary regions advertised, blocked or not.
func Normalize(pages map[string]RegionPage) map[string]models.ParsedRegion {
	out := make(map[string]models.ParsedRegion, len(pages))
	for region, page := range pages {
		p := page.Parsed
		if !p.Blocked {
			p.Ru = page.Language.Ru
			p.Sub = page.Language.Sub
			if p.Sub != "" {
				p.Edition = scraper.StandardEdition
			}
		}
		out[region] = p
	}

	primary, ok := out[models.RegionTR]
	if !ok || primary.Blocked {
		return out
	}
	for region, p := range out {
		if region == models.RegionTR {
			continue
		}
		p.DiscPerc = primary.DiscPerc
		out[region] = p
	}
	return out
}

// ApplyMetadata fills gaps of a region result from a container payload. The
// title is taken for any region lacking one; cover and price only for usable pages.
func ApplyMetadata(p models.ParsedRegion, md *scraper.Metadata) models.ParsedRegion {
	if md == nil {
		return p
	}
	if p.Name == "" && md.Title != "" {
		p.Name = md.Title
		p.TitleSource = models.SourceMetadata
	}
	if p.Blocked {
		return p
	}
	if p.Cover == "" && md.Cover != "" {
		p.Cover = md.Cover
	}
	if p.SalePrice == nil && md.SalePrice != nil {
		price := *md.SalePrice
		p.SalePrice = &price
		if p.Currency == "" {
			p.Currency = md.Currency
		}
	}
	return p
}

// Draft assembles a catalog record from a successful import. It returns nil
// when the primary region is unusable or no title was found anywhere. Blocked
// secondary regions are left out of the record.
func Draft(productID string, parsed map[string]models.ParsedRegion) *models.GameRecord {
	primary, ok := parsed[models.RegionTR]
	if productID == "" || !ok || primary.Blocked {
		return nil
	}

	rec := &models.GameRecord{
		ID:       productID,
		Platform: models.DefaultPlatform,
		Regions:  make(map[string]models.RegionInfo, len(models.Regions)),
	}
	for _, r := range models.Regions {
		p := parsed[r]
		if p.Blocked {
			continue
		}
		if rec.Name == "" {
			rec.Name = p.Name
		}
		if rec.Edition == "" {
			rec.Edition = p.Edition
		}
		if rec.Cover == "" {
			rec.Cover = p.Cover
		}

		info := models.RegionInfo{
			DiscPerc:        p.DiscPerc,
			DiscountedUntil: p.DiscountedUntil,
			Ru:              p.Ru,
			Sub:             p.Sub,
		}
		if info.Ru == "" {
			info.Ru = models.RuNone
		}
		if p.SalePrice != nil {
			info.SalePrice = *p.SalePrice
		}
		rec.Regions[r] = info
	}
	if rec.Name == "" {
		return nil
	}
	if rec.Subscription() != "" {
		rec.Edition = scraper.StandardEdition
	}
	return rec
}
