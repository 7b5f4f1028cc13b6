package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"playstore/models"
)

// ErrDocumentNotFound is returned by blob stores for documents never written
var ErrDocumentNotFound = errors.New("document not found")

// Document names
const (
	StoreDocumentName   = "store"
	CatalogDocumentName = "games"
)

// BlobStore persists whole named documents
type BlobStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, body []byte) error
}

// DocumentRepository reads and replaces the settings and catalog documents.
// Unreadable documents fall back to empty defaults so read paths stay available.
type DocumentRepository struct {
	blobs BlobStore
}

func NewDocumentRepository(blobs BlobStore) *DocumentRepository {
	return &DocumentRepository{blobs: blobs}
}

// LoadStore returns the settings and rate tables
func (r *DocumentRepository) LoadStore(ctx context.Context) models.StoreDocument {
	doc := models.DefaultStoreDocument()
	if !r.load(ctx, StoreDocumentName, &doc) {
		return models.DefaultStoreDocument()
	}
	if doc.Settings.RoundStep == 0 {
		doc.Settings.RoundStep = models.DefaultRoundStep
	}
	if doc.Rates == nil {
		doc.Rates = make(map[string][]models.RateRule)
	}
	for _, region := range models.Regions {
		if doc.Rates[region] == nil {
			doc.Rates[region] = []models.RateRule{}
		}
	}
	return doc
}

// SaveStore replaces the settings and rate tables
func (r *DocumentRepository) SaveStore(ctx context.Context, doc models.StoreDocument) error {
	return r.save(ctx, StoreDocumentName, doc)
}

// LoadCatalog returns the game list
func (r *DocumentRepository) LoadCatalog(ctx context.Context) models.CatalogDocument {
	var doc models.CatalogDocument
	if !r.load(ctx, CatalogDocumentName, &doc) {
		doc = models.CatalogDocument{}
	}
	if doc.Items == nil {
		doc.Items = []models.GameRecord{}
	}
	return doc
}

// SaveCatalog replaces the game list
func (r *DocumentRepository) SaveCatalog(ctx context.Context, doc models.CatalogDocument) error {
	if doc.Items == nil {
		doc.Items = []models.GameRecord{}
	}
	return r.save(ctx, CatalogDocumentName, doc)
}

func (r *DocumentRepository) load(ctx context.Context, name string, v any) bool {
	body, err := r.blobs.Read(ctx, name)
	if errors.Is(err, ErrDocumentNotFound) {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("document", name).Msg("failed to read document, using defaults")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		log.Warn().Err(err).Str("document", name).Msg("corrupt document, using defaults")
		return false
	}
	return true
}

func (r *DocumentRepository) save(ctx context.Context, name string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := r.blobs.Write(ctx, name, body); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}
