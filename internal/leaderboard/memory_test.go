package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/repository"
)

type memSession struct {
	userID   string
	gameID   int64
	hours    decimal.Decimal
	credits  decimal.Decimal
	playedAt time.Time
}

type memBonus struct {
	userID  string
	credits decimal.Decimal
}

// memoryLeaderboard is an in-memory repository.Leaderboard. Transactions are
// serialized and stage their writes until Commit.
type memoryLeaderboard struct {
	txLock sync.Mutex
	mu     sync.Mutex

	sessions   []memSession
	bonuses    []memBonus
	periods    map[int64]domain.Period
	placements map[int64][]domain.Placement
	nextID     int64

	failOn     map[string]error
	rankCalls  int
	replaceLog []int64
	lockLog    []string
}

func newMemoryLeaderboard() *memoryLeaderboard {
	return &memoryLeaderboard{
		periods:    map[int64]domain.Period{},
		placements: map[int64][]domain.Placement{},
		failOn:     map[string]error{},
	}
}

func (m *memoryLeaderboard) addSession(user string, game int64, hours, credits string, at time.Time) {
	m.sessions = append(m.sessions, memSession{
		userID:   user,
		gameID:   game,
		hours:    decimal.RequireFromString(hours),
		credits:  decimal.RequireFromString(credits),
		playedAt: at,
	})
}

func (m *memoryLeaderboard) addBonus(user, credits string) {
	m.bonuses = append(m.bonuses, memBonus{userID: user, credits: decimal.RequireFromString(credits)})
}

func (m *memoryLeaderboard) fail(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failOn[method]
}

func (m *memoryLeaderboard) logLock(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockLog = append(m.lockLog, name)
}

func (m *memoryLeaderboard) locks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.lockLog...)
}

func (m *memoryLeaderboard) rank(kind domain.PeriodKind, start, end time.Time) []domain.LeaderboardEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankCalls++

	type agg struct {
		credits decimal.Decimal
		hours   decimal.Decimal
		perGame map[int64]decimal.Decimal
	}
	users := map[string]*agg{}
	for _, s := range m.sessions {
		if s.playedAt.Before(start) || !s.playedAt.Before(end) {
			continue
		}
		a, ok := users[s.userID]
		if !ok {
			a = &agg{perGame: map[int64]decimal.Decimal{}}
			users[s.userID] = a
		}
		a.credits = a.credits.Add(s.credits)
		a.hours = a.hours.Add(s.hours)
		a.perGame[s.gameID] = a.perGame[s.gameID].Add(s.hours)
	}
	if kind.IncludesBonuses() {
		for _, b := range m.bonuses {
			if a, ok := users[b.userID]; ok {
				a.credits = a.credits.Add(b.credits)
			}
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for user, a := range users {
		var topGame int64
		topHours := decimal.Zero
		for game, hours := range a.perGame {
			if hours.GreaterThan(topHours) || (hours.Equal(topHours) && game < topGame) || topGame == 0 {
				topGame, topHours = game, hours
			}
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:             user,
			Credits:            a.credits,
			GamesPlayed:        len(a.perGame),
			MostPlayedGameID:   topGame,
			MostPlayedGameName: fmt.Sprintf("game-%d", topGame),
			MostPlayedHours:    topHours,
			TotalHours:         a.hours,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Credits.Equal(entries[j].Credits) {
			return entries[i].Credits.GreaterThan(entries[j].Credits)
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

func (m *memoryLeaderboard) Rank(ctx context.Context, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	if err := m.fail("Rank"); err != nil {
		return nil, err
	}
	return m.rank(kind, start, end), nil
}

func (m *memoryLeaderboard) BeginTx(ctx context.Context) (repository.LeaderboardTx, error) {
	if err := m.fail("BeginTx"); err != nil {
		return nil, err
	}
	m.txLock.Lock()
	return &memoryLeaderboardTx{m: m, periods: map[int64]domain.Period{}, placements: map[int64][]domain.Placement{}}, nil
}

func (m *memoryLeaderboard) GetPeriod(ctx context.Context, periodID int64) (*domain.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[periodID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrPeriodNotFound, periodID)
	}
	return &p, nil
}

func (m *memoryLeaderboard) ListPeriods(ctx context.Context, kind domain.PeriodKind, limit int) ([]domain.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Period
	for _, p := range m.periods {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLeaderboard) GetPlacements(ctx context.Context, periodID int64) ([]domain.Placement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Placement{}, m.placements[periodID]...), nil
}

// insertPeriod stores a period directly, bypassing the lifecycle
func (m *memoryLeaderboard) insertPeriod(kind domain.PeriodKind, start, end time.Time, active bool) domain.Period {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p := domain.Period{ID: m.nextID, Kind: kind, StartAt: start, EndAt: end, IsActive: active, CreatedAt: start}
	m.periods[p.ID] = p
	return p
}

type memoryLeaderboardTx struct {
	m          *memoryLeaderboard
	done       bool
	periods    map[int64]domain.Period
	placements map[int64][]domain.Placement
}

func (t *memoryLeaderboardTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if err := t.m.fail("Commit"); err != nil {
		return err
	}
	t.m.mu.Lock()
	for id, p := range t.periods {
		t.m.periods[id] = p
	}
	for id, rows := range t.placements {
		t.m.placements[id] = rows
		t.m.replaceLog = append(t.m.replaceLog, id)
	}
	t.m.mu.Unlock()
	t.done = true
	t.m.txLock.Unlock()
	return nil
}

func (t *memoryLeaderboardTx) Rollback(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.done = true
	t.m.txLock.Unlock()
	return nil
}

func (t *memoryLeaderboardTx) Rank(ctx context.Context, kind domain.PeriodKind, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	return t.m.Rank(ctx, kind, start, end)
}

// visiblePeriods returns committed periods overlaid with this transaction's writes
func (t *memoryLeaderboardTx) visiblePeriods() map[int64]domain.Period {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	out := make(map[int64]domain.Period, len(t.m.periods)+len(t.periods))
	for id, p := range t.m.periods {
		out[id] = p
	}
	for id, p := range t.periods {
		out[id] = p
	}
	return out
}

func (t *memoryLeaderboardTx) UpsertPeriod(ctx context.Context, kind domain.PeriodKind, start, end time.Time) (*domain.Period, error) {
	if err := t.m.fail("UpsertPeriod"); err != nil {
		return nil, err
	}
	for _, p := range t.visiblePeriods() {
		if p.Kind == kind && p.StartAt.Equal(start) && p.EndAt.Equal(end) {
			return &p, nil
		}
	}
	t.m.mu.Lock()
	t.m.nextID++
	p := domain.Period{ID: t.m.nextID, Kind: kind, StartAt: start, EndAt: end, IsActive: true, CreatedAt: time.Now()}
	t.m.mu.Unlock()
	t.periods[p.ID] = p
	return &p, nil
}

func (t *memoryLeaderboardTx) CloseEndedPeriods(ctx context.Context, kind domain.PeriodKind, keepID int64, now time.Time) ([]domain.Period, error) {
	var closed []domain.Period
	for id, p := range t.visiblePeriods() {
		if p.Kind == kind && p.IsActive && id != keepID && !p.EndAt.After(now) {
			p.IsActive = false
			closedAt := now
			p.ClosedAt = &closedAt
			t.periods[id] = p
			closed = append(closed, p)
		}
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].EndAt.Before(closed[j].EndAt) })
	return closed, nil
}

func (t *memoryLeaderboardTx) LockKind(ctx context.Context, kind domain.PeriodKind) error {
	if err := t.m.fail("LockKind"); err != nil {
		return err
	}
	t.m.logLock("kind:" + string(kind))
	return nil
}

func (t *memoryLeaderboardTx) GetPeriodForUpdate(ctx context.Context, periodID int64) (*domain.Period, error) {
	t.m.logLock(fmt.Sprintf("row:%d", periodID))
	p, ok := t.visiblePeriods()[periodID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrPeriodNotFound, periodID)
	}
	return &p, nil
}

func (t *memoryLeaderboardTx) LatestClosedPeriod(ctx context.Context, kind domain.PeriodKind) (*domain.Period, error) {
	var latest *domain.Period
	for _, p := range t.visiblePeriods() {
		if p.Kind != kind || p.IsActive {
			continue
		}
		if latest == nil || p.EndAt.After(latest.EndAt) {
			cp := p
			latest = &cp
		}
	}
	return latest, nil
}

func (t *memoryLeaderboardTx) ReplacePlacements(ctx context.Context, periodID int64, entries []domain.LeaderboardEntry, recordedAt time.Time) (int, error) {
	if err := t.m.fail("ReplacePlacements"); err != nil {
		return 0, err
	}
	rows := make([]domain.Placement, len(entries))
	for i, e := range entries {
		e.Rank = i + 1
		rows[i] = domain.Placement{PeriodID: periodID, LeaderboardEntry: e, RecordedAt: recordedAt}
	}
	t.placements[periodID] = rows
	return len(rows), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) count(t event.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}
