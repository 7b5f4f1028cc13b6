package scraper

import (
	"regexp"
	"strings"
)

// BotDetector recognises anti-bot and denial responses served instead of a product page
type BotDetector struct {
	blockPatterns   []*regexp.Regexp
	contentPatterns []*regexp.Regexp
	deniedPhrases   []string
}

// NewBotDetector creates a new bot detector
func NewBotDetector() *BotDetector {
	return &BotDetector{
		blockPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)sorry, you have been blocked`),
			regexp.MustCompile(`(?i)access denied`),
			regexp.MustCompile(`(?i)forbidden`),
			regexp.MustCompile(`(?i)request blocked`),
			regexp.MustCompile(`(?i)checking your browser`),
			regexp.MustCompile(`(?i)cf-browser-verification`),
			regexp.MustCompile(`(?i)captcha`),
			regexp.MustCompile(`(?i)cloudflare`),
		},
		// markers only a rendered storefront page carries
		contentPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)__NEXT_DATA__`),
			regexp.MustCompile(`(?i)data-reactroot`),
			regexp.MustCompile(`(?i)application/ld\+json`),
		},
		deniedPhrases: []string{"access denied", "forbidden", "denied"},
	}
}

// DetectBlock reports whether content is a block page and which marker tripped it.
// A denial marker alone is not enough: pages that also carry real content markers
// are treated as normal product pages.
func (bd *BotDetector) DetectBlock(content string) (bool, string) {
	reason := ""
	for _, pattern := range bd.blockPatterns {
		if loc := pattern.FindStringIndex(content); loc != nil {
			reason = content[loc[0]:loc[1]]
			break
		}
	}
	if reason == "" {
		return false, ""
	}

	for _, pattern := range bd.contentPatterns {
		if pattern.MatchString(content) {
			return false, ""
		}
	}
	return true, reason
}

// IsBlocked checks if the page content is an anti-bot or denial page
func (bd *BotDetector) IsBlocked(content string) bool {
	blocked, _ := bd.DetectBlock(content)
	return blocked
}

// LooksDenied checks a single extracted value, such as a title, for denial phrases
func (bd *BotDetector) LooksDenied(value string) bool {
	low := strings.ToLower(value)
	for _, phrase := range bd.deniedPhrases {
		if strings.Contains(low, phrase) {
			return true
		}
	}
	return false
}

// Unusable reports whether fetched content cannot be parsed at all
func (bd *BotDetector) Unusable(content string) bool {
	return strings.TrimSpace(content) == "" || bd.IsBlocked(content)
}
