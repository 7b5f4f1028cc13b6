package scraper

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const StandardEdition = "Standard Edition"

var (
	editionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Standard|Premium|Ultimate|Gold|Complete|Definitive|Anniversary)\s+Edition\b`),
		regexp.MustCompile(`(?i)\bDigital\s+Deluxe\b`),
		regexp.MustCompile(`(?i)\bDeluxe\s+Edition\b`),
		regexp.MustCompile(`(?i)\bCollector'?s\s+Edition\b`),
		regexp.MustCompile(`(?i)\bGame\s+of\s+the\s+Year\b`),
		regexp.MustCompile(`(?i)\b(Deluxe|Ultimate|Premium)\s+Bundle\b`),
	}

	// raw page text is noisy, so only the unambiguous templates apply there
	rawEditionPatterns = []*regexp.Regexp{
		editionPatterns[0],
		editionPatterns[2],
		editionPatterns[1],
	}

	digitalDeluxePattern = regexp.MustCompile(`(?i)^digital\s+deluxe$`)
	gotyPattern          = regexp.MustCompile(`(?i)^game\s+of\s+the\s+year$`)
	connectorPattern     = regexp.MustCompile(`\b(Of|The)\b`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// EditionFromText finds the first known edition label in text and normalizes it
func EditionFromText(text string) (string, bool) {
	return matchEdition(text, editionPatterns)
}

func matchEdition(text string, patterns []*regexp.Regexp) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return NormalizeEdition(m), true
		}
	}
	return "", false
}

// NormalizeEdition expands short labels and title-cases each word, keeping
// the connectors "of" and "the" lowercase
func NormalizeEdition(label string) string {
	out := strings.TrimSpace(whitespacePattern.ReplaceAllString(label, " "))
	switch {
	case digitalDeluxePattern.MatchString(out):
		out = "Digital Deluxe Edition"
	case gotyPattern.MatchString(out):
		out = "Game of the Year Edition"
	}

	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	words := strings.Split(out, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = upper.String(string(r[0])) + lower.String(string(r[1:]))
	}
	out = strings.Join(words, " ")

	return connectorPattern.ReplaceAllStringFunc(out, strings.ToLower)
}

// EditionMatchers builds the edition fallback chain: the resolved title, every
// string of the structured data, then the raw page
func EditionMatchers(title string) []Matcher {
	return []Matcher{
		func(*Page) (string, bool) {
			return EditionFromText(title)
		},
		func(p *Page) (string, bool) {
			for _, block := range p.StructuredData {
				found := ""
				block.Walk(func(_ Path, n *Node) {
					if found != "" || n.Kind != KindString {
						return
					}
					if ed, ok := EditionFromText(n.Str); ok {
						found = ed
					}
				})
				if found != "" {
					return found, true
				}
			}
			return "", false
		},
		func(p *Page) (string, bool) {
			return matchEdition(p.HTML, rawEditionPatterns)
		},
	}
}
