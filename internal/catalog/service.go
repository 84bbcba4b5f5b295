package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/repository"
)

// Service defines the game catalog operations
type Service interface {
	CreateGame(ctx context.Context, name string, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error)
	GetGame(ctx context.Context, gameID int64) (*domain.Game, error)
	GetGameByName(ctx context.Context, name string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	// SetRates changes accrual parameters going forward. Existing sessions keep their credits.
	SetRates(ctx context.Context, gameID int64, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error)
}

type service struct {
	repo      repository.Catalog
	publisher event.Publisher
	cache     *gameCache
}

// NewService creates a catalog service with an expiring read cache
func NewService(repo repository.Catalog, publisher event.Publisher, cacheSize int, cacheTTL time.Duration) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		cache:     newGameCache(cacheSize, cacheTTL),
	}
}

func (s *service) CreateGame(ctx context.Context, name string, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error) {
	log := logger.FromContext(ctx)

	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNameRequired)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: "+ErrMsgNameTooLong, domain.ErrInvalidInput, MaxNameLength)
	}
	halfLife, err := validateRates(baseRate, halfLife)
	if err != nil {
		return nil, err
	}

	game := &domain.Game{
		Name:          name,
		BaseRate:      baseRate,
		HalfLifeHours: halfLife,
	}
	if err := s.repo.CreateGame(ctx, game, NameKey(name)); err != nil {
		if errors.Is(err, domain.ErrDuplicateGame) {
			return nil, err
		}
		return nil, fmt.Errorf(ErrMsgCreateGameFailed, err)
	}

	s.cache.Set(game)
	log.Info(LogMsgGameCreated, "game_id", game.ID, "name", game.Name, "base_rate", game.BaseRate.String())
	return game, nil
}

func (s *service) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	if game, ok := s.cache.Get(gameID); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "game_id", gameID)
		return game, nil
	}

	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownGame) {
			return nil, err
		}
		return nil, fmt.Errorf(ErrMsgGetGameFailed, gameID, err)
	}
	s.cache.Set(game)
	return game, nil
}

func (s *service) GetGameByName(ctx context.Context, name string) (*domain.Game, error) {
	key := NameKey(name)
	if key == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNameRequired)
	}
	game, err := s.repo.GetGameByNameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(game)
	return game, nil
}

func (s *service) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListGamesFailed, err)
	}
	return games, nil
}

func (s *service) SetRates(ctx context.Context, gameID int64, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error) {
	log := logger.FromContext(ctx)

	halfLife, err := validateRates(baseRate, halfLife)
	if err != nil {
		return nil, err
	}

	game, err := s.repo.UpdateGameRates(ctx, gameID, baseRate, halfLife)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownGame) {
			return nil, err
		}
		return nil, fmt.Errorf(ErrMsgUpdateRatesFailed, gameID, err)
	}

	s.cache.Invalidate(gameID)
	log.Debug(LogMsgCacheInvalidate, "game_id", gameID)

	halfLifeStr := ""
	if game.HalfLifeHours != nil {
		halfLifeStr = game.HalfLifeHours.String()
	}
	log.Info(LogMsgRatesUpdated, "game_id", gameID, "base_rate", game.BaseRate.String(), "half_life_hours", halfLifeStr)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewGameRatesUpdatedEvent(game))
	}
	return game, nil
}

// validateRates checks accrual parameters and returns the half-life to store.
// A zero half-life is stored as nil, which means no decay.
func validateRates(baseRate decimal.Decimal, halfLife *decimal.Decimal) (*decimal.Decimal, error) {
	if baseRate.LessThan(MinBaseRate) {
		return nil, fmt.Errorf("%w: "+ErrMsgRateBelowMinFmt, domain.ErrRateBelowMinimum, baseRate.String(), MinBaseRate.String())
	}
	if halfLife == nil {
		return nil, nil
	}
	if halfLife.IsNegative() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeHalfLife)
	}
	if halfLife.IsZero() {
		return nil, nil
	}
	hl := *halfLife
	return &hl, nil
}
