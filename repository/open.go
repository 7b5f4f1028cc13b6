package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"playstore/config"
	"playstore/database"
)

// Open selects the storage backend named by the configuration. The returned
// close function releases the database handle, if any.
func Open(ctx context.Context, cfg *config.Config) (*DocumentRepository, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Open(ctx, cfg.StorageDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreateTables(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("driver", cfg.StorageDriver).Msg("using sql document store")
		return NewDocumentRepository(NewSQLStore(db)), db.Close, nil
	case config.DriverFile:
		store, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.DataDir).Msg("using file document store")
		return NewDocumentRepository(store), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
