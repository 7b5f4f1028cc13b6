package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containerPayload = `{
	"name":"Halo Infinite",
	"images":[{"type":1,"url":"https://img.example/halo.png"}],
	"default_sku":{"id":"SKU1"},
	"skus":[
		{"id":"SKU0","prices":{"currencyCode":"TRY","basePrice":"₺99,00"}},
		{"id":"SKU1","prices":{"currencyCode":"TRY","discountedPrice":"₺899,00","basePrice":"₺1.299,00"}}
	]
}`

func newTestMetadataClient(baseURL string) *MetadataClient {
	return NewMetadataClient(baseURL, 1000, 5*time.Second, NewBotDetector(), NewLocaleParser())
}

func TestContainerURL(t *testing.T) {
	c := newTestMetadataClient("https://store.example/")

	assert.Equal(t,
		"https://store.example/store/api/chihiro/00_09_000/container/TR/en/999/EP0001-CUSA00001_00-HALO",
		c.ContainerURL("EP0001-CUSA00001_00-HALO", "TR", "999"))
	assert.Equal(t,
		"https://store.example/store/api/chihiro/00_09_000/container/UA/ru/19/X",
		c.ContainerURL("X", "UA", "19"))
}

func TestMetadataLookup(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, "/999/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(containerPayload))
	}))
	defer srv.Close()

	md, err := newTestMetadataClient(srv.URL).Lookup(context.Background(), "PROD", "TR")
	require.NoError(t, err)

	assert.Equal(t, "Halo Infinite", md.Title)
	assert.Equal(t, "https://img.example/halo.png", md.Cover)
	require.NotNil(t, md.SalePrice)
	assert.Equal(t, 899.0, *md.SalePrice)
	assert.Equal(t, "TRY", md.Currency)

	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "/TR/en/999/PROD")
	assert.Contains(t, paths[1], "/TR/en/19/PROD")
}

func TestMetadataLookupNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestMetadataClient(srv.URL).Lookup(context.Background(), "PROD", "UA")
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestMetadataLookupKeepsPayloadWithoutTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"image_url":"https://img.example/only.png","name":"Access Denied"}`))
	}))
	defer srv.Close()

	md, err := newTestMetadataClient(srv.URL).Lookup(context.Background(), "PROD", "TR")
	require.NoError(t, err)
	assert.Empty(t, md.Title)
	assert.Equal(t, "https://img.example/only.png", md.Cover)
	assert.Nil(t, md.SalePrice)
}

func TestMetadataRead(t *testing.T) {
	c := newTestMetadataClient("http://unused")

	t.Run("title from scorer", func(t *testing.T) {
		payload, err := ParseTree([]byte(`{"data":{"product":{"localizedTitle":"Gran Turismo 7"}}}`))
		require.NoError(t, err)
		assert.Equal(t, "Gran Turismo 7", c.Read(payload).Title)
	})

	t.Run("base price without discount", func(t *testing.T) {
		payload, err := ParseTree([]byte(`{"skus":[{"id":"A","price":{"currency":"UAH","base_price":1999}}]}`))
		require.NoError(t, err)
		md := c.Read(payload)
		require.NotNil(t, md.SalePrice)
		assert.Equal(t, 1999.0, *md.SalePrice)
		assert.Equal(t, "UAH", md.Currency)
	})

	t.Run("relative image ignored", func(t *testing.T) {
		payload, err := ParseTree([]byte(`{"images":[{"url":"/img/a.png"}],"thumbnail_url":"https://img.example/t.png"}`))
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/t.png", c.Read(payload).Cover)
	})
}
