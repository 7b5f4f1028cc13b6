package scraper

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// TitleCandidate is a string found in a metadata payload that might be the product title
type TitleCandidate struct {
	Text  string
	Path  string
	Score int
}

// TitleScorer recovers a title from an arbitrarily nested metadata payload
type TitleScorer struct {
	detector     *BotDetector
	urlPattern   *regexp.Regexp
	idPattern    *regexp.Regexp
	pricePattern *regexp.Regexp
}

// NewTitleScorer creates a scorer that discards values the detector considers denied
func NewTitleScorer(detector *BotDetector) *TitleScorer {
	return &TitleScorer{
		detector:     detector,
		urlPattern:   regexp.MustCompile(`^https?://`),
		idPattern:    regexp.MustCompile(`^[A-Z]{2}\d{3,}`),
		pricePattern: regexp.MustCompile(`(?i)\btry\b|\buah\b|₺|₴`),
	}
}

// Collect walks the payload and returns every plausible string, first path wins
// for values repeated with different case
func (ts *TitleScorer) Collect(root *Node) []TitleCandidate {
	var out []TitleCandidate
	seen := make(map[string]bool)

	root.Walk(func(path Path, n *Node) {
		if n.Kind != KindString {
			return
		}
		t := strings.TrimSpace(n.Str)
		if utf8.RuneCountInString(t) < 2 {
			return
		}
		if ts.detector.LooksDenied(t) || ts.urlPattern.MatchString(t) || ts.idPattern.MatchString(t) {
			return
		}
		key := strings.ToLower(t)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, TitleCandidate{Text: t, Path: path.String()})
	})

	return out
}

// Score rates a candidate; higher is more title-like
func (ts *TitleScorer) Score(c TitleCandidate) int {
	s := 0
	p := strings.ToLower(c.Path)
	if strings.Contains(p, "localized") {
		s += 6
	}
	if strings.Contains(p, "title") {
		s += 6
	}
	if strings.Contains(p, "name") {
		s += 5
	}
	if strings.Contains(p, "product") {
		s += 2
	}
	if strings.Contains(p, "default_sku") {
		s++
	}

	n := utf8.RuneCountInString(c.Text)
	switch {
	case n < 6:
		s -= 2
	case n <= 60:
		s += 4
	case n <= 120:
		s += 2
	}

	if ts.pricePattern.MatchString(c.Text) {
		s -= 3
	}
	return s
}

// Rank scores candidates and orders them best first; equal scores keep discovery order
func (ts *TitleScorer) Rank(candidates []TitleCandidate) []TitleCandidate {
	ranked := make([]TitleCandidate, len(candidates))
	for i, c := range candidates {
		c.Score = ts.Score(c)
		ranked[i] = c
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// PickTitle returns the best scoring title in the payload
func (ts *TitleScorer) PickTitle(root *Node) (string, bool) {
	ranked := ts.Rank(ts.Collect(root))
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Text, true
}
