package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/configs"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/validation"
)

// ErrInvalidSeed is returned for a seed file that parses but is inconsistent
var ErrInvalidSeed = errors.New("invalid game seed")

// SeedConfig is the JSON game seed file
type SeedConfig struct {
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Games       []GameDef `json:"games"`
}

// GameDef is one seeded game
type GameDef struct {
	Name          string           `json:"name"`
	BaseRate      decimal.Decimal  `json:"base_rate"`
	HalfLifeHours *decimal.Decimal `json:"half_life_hours,omitempty"`
}

// SyncResult counts what a seed sync changed
type SyncResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Loader reads the game seed file and applies it to the catalog
type Loader interface {
	Load(path string) (*SeedConfig, error)
	Validate(cfg *SeedConfig) error
	Sync(ctx context.Context, cfg *SeedConfig, svc Service) (*SyncResult, error)
}

type seedLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a Loader validating against the embedded games schema
func NewLoader() Loader {
	return &seedLoader{schemaValidator: validation.NewSchemaValidator(configs.Schemas)}
}

// Load reads and parses a seed file after schema validation
func (l *seedLoader) Load(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadSeedFailed, err)
	}

	if err := l.schemaValidator.ValidateBytes(data, configs.GamesSchema); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var cfg SeedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseSeedFailed, err)
	}
	return &cfg, nil
}

// Validate rejects duplicate names and rates the catalog would refuse
func (l *seedLoader) Validate(cfg *SeedConfig) error {
	if cfg == nil || len(cfg.Games) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSeed, ErrMsgSeedEmpty)
	}

	seen := make(map[string]bool, len(cfg.Games))
	for i, def := range cfg.Games {
		name := NormalizeName(def.Name)
		if name == "" {
			return fmt.Errorf("%w: game at index %d has no name", ErrInvalidSeed, i)
		}
		key := NameKey(name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate game %q", ErrInvalidSeed, name)
		}
		seen[key] = true

		if _, err := validateRates(def.BaseRate, def.HalfLifeHours); err != nil {
			return fmt.Errorf("%w: game %q: %v", ErrInvalidSeed, name, err)
		}
	}
	return nil
}

// Sync creates missing games and moves changed rates forward. Games absent
// from the seed are left alone.
func (l *seedLoader) Sync(ctx context.Context, cfg *SeedConfig, svc Service) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	existing, err := svc.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListGamesFailed, err)
	}
	byKey := make(map[string]int, len(existing))
	for i := range existing {
		byKey[NameKey(existing[i].Name)] = i
	}

	result := &SyncResult{}
	for _, def := range cfg.Games {
		name := NormalizeName(def.Name)
		idx, ok := byKey[NameKey(name)]
		if !ok {
			game, err := svc.CreateGame(ctx, name, def.BaseRate, def.HalfLifeHours)
			if err != nil {
				return nil, fmt.Errorf(ErrMsgSeedGameFailed, name, err)
			}
			result.Inserted++
			log.Info(LogMsgSeedInserted, "game_id", game.ID, "name", game.Name)
			continue
		}

		current := existing[idx]
		if sameRates(current.BaseRate, current.HalfLifeHours, def.BaseRate, def.HalfLifeHours) {
			result.Skipped++
			continue
		}
		if _, err := svc.SetRates(ctx, current.ID, def.BaseRate, def.HalfLifeHours); err != nil {
			return nil, fmt.Errorf(ErrMsgSeedGameFailed, name, err)
		}
		result.Updated++
		log.Info(LogMsgSeedUpdated, "game_id", current.ID, "name", current.Name, "base_rate", def.BaseRate.String())
	}

	log.Info(LogMsgSeedCompleted, "inserted", result.Inserted, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}

// sameRates compares stored rates with seeded ones. A zero half-life is no decay, like nil.
func sameRates(baseA decimal.Decimal, hlA *decimal.Decimal, baseB decimal.Decimal, hlB *decimal.Decimal) bool {
	if !baseA.Equal(baseB) {
		return false
	}
	decaysA := hlA != nil && hlA.IsPositive()
	decaysB := hlB != nil && hlB.IsPositive()
	if decaysA != decaysB {
		return false
	}
	return !decaysA || hlA.Equal(*hlB)
}
