package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFromAppState(t *testing.T) {
	ld := NewLanguageDetector()

	t.Run("russian voice", func(t *testing.T) {
		page := `<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"product":{
			"audioLanguages":["en","ru"],"subtitleLanguages":["tr"]}}}}</script>`
		info := ld.Detect(page, "")
		assert.True(t, info.RuVoice)
		assert.Equal(t, "voice", info.Ru)
		assert.Equal(t, "state", info.Source)
	})

	t.Run("russian subtitles", func(t *testing.T) {
		page := `<script id="__NEXT_DATA__" type="application/json">{"product":{
			"audio":[{"code":"en-US"}],"subtitleLanguages":[{"name":"Russian"}]}}</script>`
		info := ld.Detect(page, "")
		assert.False(t, info.RuVoice)
		assert.True(t, info.RuText)
		assert.Equal(t, "text", info.Ru)
	})

	t.Run("screen languages", func(t *testing.T) {
		page := `<script id="__NEXT_DATA__" type="application/json">{"screenLanguages":["ru-RU"]}</script>`
		assert.Equal(t, "text", ld.Detect(page, "").Ru)
	})
}

func TestDetectFromVisibleText(t *testing.T) {
	ld := NewLanguageDetector()

	t.Run("audio block", func(t *testing.T) {
		text := "Halo\nAudio languages\nEnglish\nRussian\n"
		info := ld.Detect("<html></html>", text)
		assert.Equal(t, "voice", info.Ru)
		assert.Equal(t, "text", info.Source)
	})

	t.Run("subtitle block", func(t *testing.T) {
		text := "Audio languages\nEnglish\n" + fillerLines(25) + "Subtitles: Русский, English\n"
		info := ld.Detect("<html></html>", text)
		assert.False(t, info.RuVoice)
		assert.True(t, info.RuText)
		assert.Equal(t, "text", info.Ru)
	})

	t.Run("state without russian falls back to text", func(t *testing.T) {
		page := `<script id="__NEXT_DATA__" type="application/json">{"audioLanguages":["en"]}</script>`
		info := ld.Detect(page, "Ses dilleri\nRusça değil\nRussian\n")
		assert.Equal(t, "voice", info.Ru)
		assert.Equal(t, "text", info.Source)
	})

	t.Run("nothing", func(t *testing.T) {
		info := ld.Detect("", "Audio languages\nEnglish\n")
		assert.Equal(t, "none", info.Ru)
	})
}

func fillerLines(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "line\n"
	}
	return s
}

func TestDetectSubscription(t *testing.T) {
	ld := NewLanguageDetector()

	assert.Equal(t, "eaplay", ld.DetectSubscription("Included with EA Play"))
	assert.Equal(t, "psplus_extra", ld.DetectSubscription("PlayStation Plus Extra game catalog"))
	assert.Equal(t, "psplus_extra", ld.DetectSubscription("PS Plus\nExtra"))
	assert.Equal(t, "", ld.DetectSubscription("PS Plus Essential"))
	assert.Equal(t, "", ld.DetectSubscription(""))
}

func TestVisibleText(t *testing.T) {
	got := VisibleText(`<style>.a{}</style><div>Tom &amp; Jerry</div><script>var x = 1;</script><p>Second</p>`)
	assert.Contains(t, got, "Tom & Jerry")
	assert.Contains(t, got, "Second")
	assert.NotContains(t, got, "var x")
	assert.NotContains(t, got, ".a{}")
}
