package scraper

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a price string carries no usable number
var ErrUnparseable = errors.New("unparseable price")

// LocaleParser handles the number formats served by the regional storefronts
type LocaleParser struct {
	// everything that is not part of a number
	noise *regexp.Regexp
}

// NewLocaleParser creates a new locale-aware parser
func NewLocaleParser() *LocaleParser {
	return &LocaleParser{
		noise: regexp.MustCompile(`[^\d.,\-]`),
	}
}

// ParsePrice converts strings like "₺ 1.299,00", "1 299,00 ₴" or "1299" into a number.
//
// The parser is tuned for Turkish and Ukrainian formatting. When both separators
// appear the dot is a thousands separator and the last comma is the decimal point,
// so a US style "1,234.56" comes out as 1.23456. Callers that need US formatting
// must not route it through here.
func (lp *LocaleParser) ParsePrice(text string) (float64, error) {
	numberStr := lp.noise.ReplaceAllString(text, "")
	if numberStr == "" {
		return 0, ErrUnparseable
	}

	value, err := strconv.ParseFloat(lp.cleanNumberString(numberStr), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrUnparseable
	}
	return value, nil
}

// ParseNode reads a price from a structured-data value, which may be a JSON
// number or a formatted string
func (lp *LocaleParser) ParseNode(n *Node) (float64, error) {
	if n == nil {
		return 0, ErrUnparseable
	}
	switch n.Kind {
	case KindNumber:
		return n.Number, nil
	case KindString:
		return lp.ParsePrice(n.Str)
	}
	return 0, ErrUnparseable
}

// cleanNumberString converts the separator layout to a plain decimal
func (lp *LocaleParser) cleanNumberString(numberStr string) string {
	hasDot := strings.Contains(numberStr, ".")
	hasComma := strings.Contains(numberStr, ",")

	switch {
	case hasDot && hasComma:
		// 1.299,00 -> 1299.00
		numberStr = strings.ReplaceAll(numberStr, ".", "")
		if i := strings.LastIndex(numberStr, ","); i >= 0 {
			numberStr = numberStr[:i] + "." + numberStr[i+1:]
		}
		return numberStr
	case hasComma:
		// 1299,50 -> 1299.50; a second comma leaves the string unparseable
		return strings.Replace(numberStr, ",", ".", 1)
	default:
		return numberStr
	}
}
