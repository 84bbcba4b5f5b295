package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/osse101/playcredits/internal/catalog"
	"github.com/osse101/playcredits/internal/logger"
)

// SyncGameCatalog loads, validates and applies the JSON game seed at path.
// An empty path or a missing file is not an error.
func SyncGameCatalog(ctx context.Context, path string, svc catalog.Service) (*catalog.SyncResult, error) {
	log := logger.FromContext(ctx)
	if path == "" {
		return &catalog.SyncResult{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info(LogMsgSeedMissing, "path", path)
		return &catalog.SyncResult{}, nil
	}

	log.Info(LogMsgSeedingGames, "path", path)
	loader := catalog.NewLoader()

	seed, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadSeed, err)
	}
	if err := loader.Validate(seed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidSeed, err)
	}

	result, err := loader.Sync(ctx, seed, svc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSyncSeed, err)
	}
	return result, nil
}
