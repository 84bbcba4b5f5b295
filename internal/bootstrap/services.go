package bootstrap

import (
	"fmt"

	"github.com/osse101/playcredits/internal/catalog"
	"github.com/osse101/playcredits/internal/concurrency"
	"github.com/osse101/playcredits/internal/config"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/leaderboard"
	"github.com/osse101/playcredits/internal/ledger"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
)

// Services holds the application services and the calendar they share
type Services struct {
	Calendar    *period.Calendar
	Catalog     catalog.Service
	Ledger      ledger.Service
	Leaderboard leaderboard.Service
}

// InitializeServices wires services onto repositories and the event publisher
func InitializeServices(cfg *config.Config, repos *Repositories, publisher event.Publisher) (*Services, error) {
	calendar, err := period.LoadCalendar(cfg.Timezone, cfg.WeekStartDay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadCalendar, err)
	}
	logger.Info(LogMsgCalendarLoaded, "timezone", calendar.Location().String(), "week_start", calendar.WeekStart().String())

	return &Services{
		Calendar:    calendar,
		Catalog:     catalog.NewService(repos.Catalog, publisher, cfg.CatalogCacheSize, cfg.CatalogCacheTTL),
		Ledger:      ledger.NewService(repos.Ledger, publisher),
		Leaderboard: leaderboard.NewService(repos.Leaderboard, calendar, concurrency.NewLockManager(), publisher),
	}, nil
}
