package scraper

import (
	"html"
	"regexp"
	"strings"

	"playstore/models"
)

// LanguageInfo describes Russian localisation and subscription inclusion of a product page
type LanguageInfo struct {
	RuVoice bool   `json:"ruVoice"`
	RuText  bool   `json:"ruText"`
	Ru      string `json:"ru"`
	Sub     string `json:"sub"`
	Source  string `json:"source"`
}

// LanguageDetector reads language support from the embedded app state and falls
// back to label blocks of the visible page text
type LanguageDetector struct {
	ruPattern     *regexp.Regexp
	eaPlayPattern *regexp.Regexp
	psPlusPattern *regexp.Regexp
	extraPattern  *regexp.Regexp
	audioLabels   []string
	textLabels    []string
}

// NewLanguageDetector creates a new language detector
func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{
		ruPattern:     regexp.MustCompile(`(?i)(Russian|Русск|Російськ|ru-ru|\bru\b)`),
		eaPlayPattern: regexp.MustCompile(`(?i)\bea\s*play\b`),
		psPlusPattern: regexp.MustCompile(`(?i)playstation\s*plus|ps\s*plus`),
		extraPattern:  regexp.MustCompile(`(?i)\bextra\b`),
		audioLabels: []string{
			"audio languages", "voice languages", "dub languages",
			"язык озвучки", "озвучка", "дубляж",
			"ses dilleri", "ses dili", "seslendirme",
		},
		textLabels: []string{
			"subtitles", "subtitle languages", "screen languages", "text languages",
			"субтитры", "субтитри", "текст",
			"altyazı", "altyazılar", "ekran dilleri", "ekran dili",
		},
	}
}

type languageBuckets struct {
	audio  []string
	subs   []string
	screen []string
	other  []string
}

// Detect inspects the page markup and its visible text
func (ld *LanguageDetector) Detect(content, text string) LanguageInfo {
	info := LanguageInfo{Ru: models.RuNone, Sub: ld.DetectSubscription(text)}

	if state := ParseNextData(content); state != nil {
		b := ld.bucket(state)
		info.RuVoice = anyRussian(b.audio)
		info.RuText = anyRussian(b.subs) || anyRussian(b.screen)
		if info.RuVoice || info.RuText {
			info.Source = "state"
			info.Ru = ruLevel(info.RuVoice, info.RuText)
			return info
		}
	}

	lines := visibleLines(text)
	info.RuVoice = ld.ruPattern.MatchString(labelBlock(lines, ld.audioLabels))
	info.RuText = ld.ruPattern.MatchString(labelBlock(lines, ld.textLabels))
	info.Ru = ruLevel(info.RuVoice, info.RuText)
	info.Source = "text"
	return info
}

// DetectSubscription returns the subscription tag advertised on the page, if any
func (ld *LanguageDetector) DetectSubscription(text string) string {
	if ld.eaPlayPattern.MatchString(text) {
		return models.SubEAPlay
	}
	if ld.psPlusPattern.MatchString(text) && ld.extraPattern.MatchString(text) {
		return models.SubPSPlusExtra
	}
	return ""
}

func (ld *LanguageDetector) bucket(state *Node) languageBuckets {
	var b languageBuckets
	state.Walk(func(path Path, n *Node) {
		v, ok := n.Scalar()
		if !ok {
			return
		}
		p := strings.ToLower(path.Keys())
		switch {
		case strings.Contains(p, "audio") || strings.Contains(p, "voice") || strings.Contains(p, "dub"):
			b.audio = append(b.audio, v)
		case strings.Contains(p, "subtitle"):
			b.subs = append(b.subs, v)
		case strings.Contains(p, "screen") || strings.Contains(p, "text") || strings.Contains(p, "interface"):
			b.screen = append(b.screen, v)
		case strings.HasSuffix(p, "language") || strings.HasSuffix(p, "languages"):
			b.other = append(b.other, v)
		}
	})
	return b
}

func isRussianToken(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "ru", "ru-ru", "ru_ru":
		return true
	}
	return strings.Contains(s, "russian") || strings.Contains(s, "русск") || strings.Contains(s, "російс")
}

func anyRussian(values []string) bool {
	for _, v := range values {
		if isRussianToken(v) {
			return true
		}
	}
	return false
}

func ruLevel(voice, text bool) string {
	switch {
	case voice:
		return models.RuVoice
	case text:
		return models.RuText
	}
	return models.RuNone
}

func visibleLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// labelBlock returns the lines following the first label match
func labelBlock(lines []string, labels []string) string {
	const blockLines = 20
	for i, line := range lines {
		t := strings.ToLower(line)
		for _, l := range labels {
			if t == l || strings.HasPrefix(t, l+":") || strings.HasPrefix(t, l+" ") {
				end := i + blockLines
				if end > len(lines) {
					end = len(lines)
				}
				return strings.Join(lines[i:end], " | ")
			}
		}
	}
	return ""
}

// VisibleText approximates the rendered text of markup when no browser is involved
func VisibleText(content string) string {
	stripped := scriptStylePattern.ReplaceAllString(content, "\n")
	stripped = blockTagPattern.ReplaceAllString(stripped, "\n")
	stripped = tagPattern.ReplaceAllString(stripped, " ")
	return html.UnescapeString(stripped)
}

var (
	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	blockTagPattern    = regexp.MustCompile(`(?i)<(br|/p|/div|/li|/h\d|/tr|/dt|/dd)[^>]*>`)
)
