package catalog

import (
	"regexp"
	"strings"

	"playstore/models"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9а-я]+`)

// NormalizeText lowercases s, folds ё to е and collapses everything except
// latin, cyrillic and digits into single spaces
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ё", "е")
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Matches reports whether every token of query occurs in name
func Matches(name, query string) bool {
	nq := NormalizeText(query)
	if nq == "" {
		return true
	}
	nn := NormalizeText(name)
	for _, t := range strings.Fields(nq) {
		if !strings.Contains(nn, t) {
			return false
		}
	}
	return true
}

// Relevance scores how closely name matches query; higher is closer
func Relevance(name, query string) int {
	nq := NormalizeText(query)
	if nq == "" {
		return 0
	}
	nn := NormalizeText(name)
	if nn == "" {
		return 0
	}

	switch {
	case nn == nq:
		return 400
	case strings.HasPrefix(nn, nq):
		return 320
	case strings.Contains(nn, nq):
		return 240
	}

	score := 180

	words := strings.Fields(nn)
	starts := 0
	for _, t := range strings.Fields(nq) {
		for _, w := range words {
			if strings.HasPrefix(w, t) {
				starts++
				break
			}
		}
	}
	score += min(80, starts*20)

	diff := len([]rune(nn)) - len([]rune(nq))
	if diff < 0 {
		diff = -diff
	}
	score += max(0, 40-min(40, diff))

	return score
}

// PlatformMatches applies the PS4/PS5 filter; any other filter value passes everything
func PlatformMatches(platform, filter string) bool {
	f := strings.ToUpper(strings.TrimSpace(filter))
	switch f {
	case "PS4", "PS5":
		return strings.Contains(strings.ToUpper(platform), f)
	}
	return true
}

// NormalizeRu maps free-form language values onto voice, text or none
func NormalizeRu(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	switch {
	case s == "":
		return models.RuNone
	case strings.Contains(s, "voice") || strings.Contains(s, "озвуч"):
		return models.RuVoice
	case strings.Contains(s, "text") || strings.Contains(s, "текст") || strings.Contains(s, "sub") || strings.Contains(s, "screen"):
		return models.RuText
	}
	return models.RuNone
}

// datePart returns the portion of an ISO timestamp before any time component
func datePart(v string) string {
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		return v[:i]
	}
	return v
}
