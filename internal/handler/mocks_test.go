package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/ledger"
)

// MockLedgerService mocks ledger.Service
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) LogSession(ctx context.Context, req ledger.LogSessionRequest) (*domain.SessionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionResult), args.Error(1)
}

func (m *MockLedgerService) GrantBonus(ctx context.Context, req ledger.GrantBonusRequest) (*domain.Bonus, *domain.UserBalance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Bonus), args.Get(1).(*domain.UserBalance), args.Error(2)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserBalance), args.Error(1)
}

func (m *MockLedgerService) RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserBalance), args.Error(1)
}

func (m *MockLedgerService) ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockLedgerService) RecalculateGame(ctx context.Context, gameID int64) (*domain.RecalculationReport, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecalculationReport), args.Error(1)
}

func (m *MockLedgerService) RecalculateAll(ctx context.Context) ([]domain.RecalculationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecalculationReport), args.Error(1)
}

// MockCatalogService mocks catalog.Service
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateGame(ctx context.Context, name string, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error) {
	args := m.Called(ctx, name, baseRate, halfLife)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *MockCatalogService) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *MockCatalogService) GetGameByName(ctx context.Context, name string) (*domain.Game, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *MockCatalogService) ListGames(ctx context.Context) ([]domain.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Game), args.Error(1)
}

func (m *MockCatalogService) SetRates(ctx context.Context, gameID int64, baseRate decimal.Decimal, halfLife *decimal.Decimal) (*domain.Game, error) {
	args := m.Called(ctx, gameID, baseRate, halfLife)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

// MockLeaderboardService mocks leaderboard.Service
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) RequestLeaderboard(ctx context.Context, kind domain.PeriodKind, at *time.Time, limit int) (*domain.Leaderboard, error) {
	args := m.Called(ctx, kind, at, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardService) GetOrCreateCurrent(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, error) {
	args := m.Called(ctx, kind, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockLeaderboardService) RollForward(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.Period, []domain.Period, error) {
	args := m.Called(ctx, kind, now)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Period), args.Get(1).([]domain.Period), args.Error(2)
}

func (m *MockLeaderboardService) GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Period), args.Error(1)
}

func (m *MockLeaderboardService) ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Period), args.Error(1)
}

func (m *MockLeaderboardService) GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Placement), args.Error(1)
}

func (m *MockLeaderboardService) Record(ctx context.Context, periodID int64) (*domain.SnapshotResult, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotResult), args.Error(1)
}

func (m *MockLeaderboardService) CloseAndSnapshot(ctx context.Context, kind domain.PeriodKind, now time.Time) (*domain.SnapshotResult, error) {
	args := m.Called(ctx, kind, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotResult), args.Error(1)
}

func (m *MockLeaderboardService) RefreshActive(ctx context.Context, now time.Time) ([]domain.SnapshotResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotResult), args.Error(1)
}

func (m *MockLeaderboardService) Diff(ctx context.Context, periodID int64) (*domain.SnapshotDiff, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotDiff), args.Error(1)
}
