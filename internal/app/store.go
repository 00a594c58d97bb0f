package app

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/kv/memory"
	"github.com/dmitrijs2005/cardkeeper/internal/kv/s3"
	"github.com/dmitrijs2005/cardkeeper/internal/kv/sqlite"
)

// OpenStore opens the backend named by cfg.StorageType. The returned func
// releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageType {
	case config.StorageSQLite, "":
		if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
			return nil, nil, err
		}
		db, err := sqlite.InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return sqlite.NewStore(db), db.Close, nil

	case config.StorageMemory:
		return memory.New(), noop, nil

	case config.StorageS3:
		store, err := s3.NewFromConfig(ctx, s3.Options{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 store: %w", err)
		}
		return store, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type %q: %w", cfg.StorageType, common.ErrValidation)
	}
}
