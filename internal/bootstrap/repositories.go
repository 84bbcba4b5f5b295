package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/playcredits/internal/database/postgres"
	"github.com/osse101/playcredits/internal/repository"
)

// Repositories holds the postgres repository implementations
type Repositories struct {
	Catalog     repository.Catalog
	Ledger      repository.Ledger
	Leaderboard repository.Leaderboard
}

// InitializeRepositories creates all repository implementations on one pool
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalog:     postgres.NewCatalogRepository(dbPool),
		Ledger:      postgres.NewLedgerRepository(dbPool),
		Leaderboard: postgres.NewLeaderboardRepository(dbPool),
	}
}
