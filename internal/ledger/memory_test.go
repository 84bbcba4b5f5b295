package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/repository"
)

// memoryLedger is an in-memory repository.Ledger. Transactions are fully
// serialized and their writes only become visible on Commit.
type memoryLedger struct {
	txLock sync.Mutex
	mu     sync.Mutex

	games    map[int64]domain.Game
	sessions []domain.Session
	bonuses  []domain.Bonus
	balances map[string]domain.UserBalance
	nextID   int64

	failOn    map[string]error
	commits   int
	rollbacks int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		games:    map[int64]domain.Game{},
		balances: map[string]domain.UserBalance{},
		failOn:   map[string]error{},
	}
}

func (m *memoryLedger) addGame(id int64, rate string, halfLife string) {
	g := domain.Game{ID: id, Name: "game", BaseRate: decimal.RequireFromString(rate)}
	if halfLife != "" {
		hl := decimal.RequireFromString(halfLife)
		g.HalfLifeHours = &hl
	}
	m.games[id] = g
}

func (m *memoryLedger) setRates(id int64, rate string) {
	g := m.games[id]
	g.BaseRate = decimal.RequireFromString(rate)
	m.games[id] = g
}

func (m *memoryLedger) fail(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failOn[method]
}

func (m *memoryLedger) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	if err := m.fail("BeginTx"); err != nil {
		return nil, err
	}
	m.txLock.Lock()
	return &memoryLedgerTx{m: m, updates: map[int64]decimal.Decimal{}, balances: map[string]domain.UserBalance{}}, nil
}

func (m *memoryLedger) GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.balances[userID]; ok {
		return &b, nil
	}
	return &domain.UserBalance{UserID: userID, TotalCredits: decimal.Zero}, nil
}

func (m *memoryLedger) ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Session
	for i := len(m.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.sessions[i].UserID == userID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

func (m *memoryLedger) ListGameIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memoryLedgerTx struct {
	m        *memoryLedger
	done     bool
	sessions []domain.Session
	bonuses  []domain.Bonus
	updates  map[int64]decimal.Decimal
	balances map[string]domain.UserBalance
}

func (t *memoryLedgerTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if err := t.m.fail("Commit"); err != nil {
		return err
	}
	t.m.mu.Lock()
	t.m.sessions = append(t.m.sessions, t.sessions...)
	t.m.bonuses = append(t.m.bonuses, t.bonuses...)
	for i := range t.m.sessions {
		if c, ok := t.updates[t.m.sessions[i].ID]; ok {
			t.m.sessions[i].CreditsEarned = c
		}
	}
	for id, b := range t.balances {
		t.m.balances[id] = b
	}
	t.m.commits++
	t.m.mu.Unlock()

	t.done = true
	t.m.txLock.Unlock()
	return nil
}

func (t *memoryLedgerTx) Rollback(ctx context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.done = true
	t.m.mu.Lock()
	t.m.rollbacks++
	t.m.mu.Unlock()
	t.m.txLock.Unlock()
	return nil
}

func (t *memoryLedgerTx) LockUserGame(ctx context.Context, userID string, gameID int64) error {
	return t.m.fail("LockUserGame")
}

func (t *memoryLedgerTx) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	if err := t.m.fail("GetGame"); err != nil {
		return nil, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	g, ok := t.m.games[gameID]
	if !ok {
		return nil, domain.ErrUnknownGame
	}
	return &g, nil
}

// visibleSessions returns committed sessions with this transaction's changes applied
func (t *memoryLedgerTx) visibleSessions() []domain.Session {
	t.m.mu.Lock()
	all := append(append([]domain.Session{}, t.m.sessions...), t.sessions...)
	t.m.mu.Unlock()
	for i := range all {
		if c, ok := t.updates[all[i].ID]; ok {
			all[i].CreditsEarned = c
		}
	}
	return all
}

func (t *memoryLedgerTx) GetPriorHours(ctx context.Context, userID string, gameID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range t.visibleSessions() {
		if s.UserID == userID && s.GameID == gameID {
			total = total.Add(s.Hours)
		}
	}
	return total, nil
}

func (t *memoryLedgerTx) InsertSession(ctx context.Context, session *domain.Session) error {
	if err := t.m.fail("InsertSession"); err != nil {
		return err
	}
	t.m.mu.Lock()
	t.m.nextID++
	session.ID = t.m.nextID
	t.m.mu.Unlock()
	session.CreatedAt = time.Now()
	t.sessions = append(t.sessions, *session)
	return nil
}

func (t *memoryLedgerTx) InsertBonus(ctx context.Context, bonus *domain.Bonus) error {
	if err := t.m.fail("InsertBonus"); err != nil {
		return err
	}
	t.m.mu.Lock()
	t.m.nextID++
	bonus.ID = t.m.nextID
	t.m.mu.Unlock()
	t.bonuses = append(t.bonuses, *bonus)
	return nil
}

func (t *memoryLedgerTx) RefreshBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	if err := t.m.fail("RefreshBalance"); err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, s := range t.visibleSessions() {
		if s.UserID == userID {
			total = total.Add(s.CreditsEarned)
		}
	}
	t.m.mu.Lock()
	bonuses := append(append([]domain.Bonus{}, t.m.bonuses...), t.bonuses...)
	t.m.mu.Unlock()
	for _, b := range bonuses {
		if b.UserID == userID {
			total = total.Add(b.Credits)
		}
	}
	balance := domain.UserBalance{UserID: userID, TotalCredits: total, UpdatedAt: time.Now()}
	t.balances[userID] = balance
	return &balance, nil
}

func (t *memoryLedgerTx) ListGameSessionsForUpdate(ctx context.Context, gameID int64) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range t.visibleSessions() {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *memoryLedgerTx) UpdateSessionCredits(ctx context.Context, sessionID int64, credits decimal.Decimal) error {
	if err := t.m.fail("UpdateSessionCredits"); err != nil {
		return err
	}
	t.updates[sessionID] = credits
	return nil
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

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
