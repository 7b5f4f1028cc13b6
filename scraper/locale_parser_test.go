package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	lp := NewLocaleParser()

	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"turkish thousands and decimals", "₺ 1.299,00", 1299},
		{"ukrainian with spaces", "1 299,00 ₴", 1299},
		{"single comma is decimal", "1299,50", 1299.50},
		{"plain integer", "1299", 1299},
		{"plain decimal", "849.99 TL", 849.99},
		{"negative", "-15", -15},
		{"several dots with comma", "1.234.567,89", 1234567.89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lp.ParsePrice(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParsePriceUSFormatIsMisread(t *testing.T) {
	lp := NewLocaleParser()

	// the last comma is always the decimal point
	got, err := lp.ParsePrice("1,234.56")
	require.NoError(t, err)
	assert.InDelta(t, 1.23456, got, 1e-9)
}

func TestParsePriceUnparseable(t *testing.T) {
	lp := NewLocaleParser()

	for _, in := range []string{"", "free", "₺", "1,2,3", "--"} {
		t.Run(in, func(t *testing.T) {
			_, err := lp.ParsePrice(in)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParseNode(t *testing.T) {
	lp := NewLocaleParser()

	v, err := lp.ParseNode(&Node{Kind: KindNumber, Number: 42.5})
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	v, err = lp.ParseNode(&Node{Kind: KindString, Str: "1.099,90 TL"})
	require.NoError(t, err)
	assert.InDelta(t, 1099.90, v, 1e-9)

	_, err = lp.ParseNode(nil)
	assert.ErrorIs(t, err, ErrUnparseable)

	_, err = lp.ParseNode(&Node{Kind: KindBool, Bool: true})
	assert.ErrorIs(t, err, ErrUnparseable)
}
