package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"playstore/models"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Halo Infinite", "halo infinite"},
		{"  EA SPORTS™ FC 25 — Ultimate  ", "ea sports fc 25 ultimate"},
		{"Ёлки: Часть 2!", "елки часть 2"},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), tt.in)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Halo Infinite", ""))
	assert.True(t, Matches("Halo Infinite", "infinite halo"))
	assert.True(t, Matches("Halo Infinite", "INF"))
	assert.False(t, Matches("Halo Infinite", "halo wars"))
	assert.True(t, Matches("Ведьмак 3: Дикая Охота", "ведьмак охота"))
}

func TestRelevance(t *testing.T) {
	assert.Equal(t, 400, Relevance("Halo", "halo"))
	assert.Equal(t, 320, Relevance("Halo Infinite", "halo"))
	assert.Equal(t, 240, Relevance("The Halo Collection", "halo"))
	assert.Equal(t, 240, Relevance("Super Halo Bros", "halo"))
	assert.Equal(t, 0, Relevance("Halo", ""))
	assert.Equal(t, 0, Relevance("™", "halo"))

	// 180 base, two word starts, length difference of 9
	assert.Equal(t, 251, Relevance("Halo Infinite Campaign", "halo campaign"))
}

func TestPlatformMatches(t *testing.T) {
	assert.True(t, PlatformMatches("PS4 / PS5", "ps4"))
	assert.True(t, PlatformMatches("PS5", "PS5"))
	assert.False(t, PlatformMatches("PS5", "PS4"))
	assert.True(t, PlatformMatches("PS5", "all"))
	assert.True(t, PlatformMatches("", ""))
}

func TestNormalizeRu(t *testing.T) {
	tests := map[string]string{
		"":          models.RuNone,
		"voice":     models.RuVoice,
		"Озвучка":   models.RuVoice,
		"text":      models.RuText,
		"subtitles": models.RuText,
		"Текст":     models.RuText,
		"screen":    models.RuText,
		"no":        models.RuNone,
		"  VOICE  ": models.RuVoice,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRu(in), in)
	}
}
