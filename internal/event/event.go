package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/playcredits/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	ID       string      `json:"id"`
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from map metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Event types
const (
	SessionLogged       Type = domain.EventTypeSessionLogged
	BonusGranted        Type = domain.EventTypeBonusGranted
	CreditsRecalculated Type = domain.EventTypeCreditsRecalculated
	GameRatesUpdated    Type = domain.EventTypeGameRatesUpdated
	PeriodRolled        Type = domain.EventTypePeriodRolled
	SnapshotRecorded    Type = domain.EventTypeSnapshotRecorded
	SnapshotSkipped     Type = domain.EventTypeSnapshotSkipped
)

// Typed event payloads

// SessionLoggedPayloadV1 is the typed payload for session logged events
type SessionLoggedPayloadV1 struct {
	SessionID     int64           `json:"session_id"`
	UserID        string          `json:"user_id"`
	GameID        int64           `json:"game_id"`
	Hours         decimal.Decimal `json:"hours"`
	CreditsEarned decimal.Decimal `json:"credits_earned"`
	PriorHours    decimal.Decimal `json:"prior_hours"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	PlayedAt      time.Time       `json:"played_at"`
}

// BonusGrantedPayloadV1 is the typed payload for bonus granted events
type BonusGrantedPayloadV1 struct {
	BonusID      int64           `json:"bonus_id"`
	UserID       string          `json:"user_id"`
	Credits      decimal.Decimal `json:"credits"`
	Reason       string          `json:"reason"`
	GrantedBy    string          `json:"granted_by"`
	TotalCredits decimal.Decimal `json:"total_credits"`
}

// CreditsRecalculatedPayloadV1 is the typed payload for recalculation events
type CreditsRecalculatedPayloadV1 struct {
	GameID          int64           `json:"game_id"`
	SessionsScanned int             `json:"sessions_scanned"`
	SessionsUpdated int             `json:"sessions_updated"`
	UsersRefreshed  int             `json:"users_refreshed"`
	CreditsDelta    decimal.Decimal `json:"credits_delta"`
}

// GameRatesUpdatedPayloadV1 is the typed payload for catalog rate changes
type GameRatesUpdatedPayloadV1 struct {
	GameID        int64            `json:"game_id"`
	BaseRate      decimal.Decimal  `json:"base_rate"`
	HalfLifeHours *decimal.Decimal `json:"half_life_hours,omitempty"`
}

// PeriodRolledPayloadV1 is the typed payload for period rollover events
type PeriodRolledPayloadV1 struct {
	Kind     domain.PeriodKind `json:"kind"`
	Current  domain.Period     `json:"current"`
	Closed   []domain.Period   `json:"closed"`
	RolledAt time.Time         `json:"rolled_at"`
}

// SnapshotPayloadV1 is the typed payload for snapshot recorded and skipped events
type SnapshotPayloadV1 struct {
	PeriodID   int64             `json:"period_id"`
	Kind       domain.PeriodKind `json:"kind"`
	StartAt    time.Time         `json:"start_at"`
	EndAt      time.Time         `json:"end_at"`
	Placements int               `json:"placements"`
	Reason     string            `json:"reason,omitempty"`
}

func newEvent(t Type, payload interface{}) Event {
	return Event{
		ID:      uuid.NewString(),
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// Type-safe event constructors

// NewSessionLoggedEvent creates a new session logged event
func NewSessionLoggedEvent(result *domain.SessionResult) Event {
	s := result.Session
	return newEvent(SessionLogged, SessionLoggedPayloadV1{
		SessionID:     s.ID,
		UserID:        s.UserID,
		GameID:        s.GameID,
		Hours:         s.Hours,
		CreditsEarned: s.CreditsEarned,
		PriorHours:    result.PriorHours,
		TotalCredits:  result.Balance.TotalCredits,
		PlayedAt:      s.PlayedAt,
	})
}

// NewBonusGrantedEvent creates a new bonus granted event
func NewBonusGrantedEvent(bonus *domain.Bonus, balance *domain.UserBalance) Event {
	return newEvent(BonusGranted, BonusGrantedPayloadV1{
		BonusID:      bonus.ID,
		UserID:       bonus.UserID,
		Credits:      bonus.Credits,
		Reason:       bonus.Reason,
		GrantedBy:    bonus.GrantedBy,
		TotalCredits: balance.TotalCredits,
	})
}

// NewCreditsRecalculatedEvent creates a new recalculation event
func NewCreditsRecalculatedEvent(report *domain.RecalculationReport) Event {
	return newEvent(CreditsRecalculated, CreditsRecalculatedPayloadV1{
		GameID:          report.GameID,
		SessionsScanned: report.SessionsScanned,
		SessionsUpdated: report.SessionsUpdated,
		UsersRefreshed:  report.UsersRefreshed,
		CreditsDelta:    report.CreditsDelta,
	})
}

// NewGameRatesUpdatedEvent creates a new rates updated event
func NewGameRatesUpdatedEvent(game *domain.Game) Event {
	return newEvent(GameRatesUpdated, GameRatesUpdatedPayloadV1{
		GameID:        game.ID,
		BaseRate:      game.BaseRate,
		HalfLifeHours: game.HalfLifeHours,
	})
}

// NewPeriodRolledEvent creates a new period rolled event
func NewPeriodRolledEvent(current *domain.Period, closed []domain.Period, rolledAt time.Time) Event {
	return newEvent(PeriodRolled, PeriodRolledPayloadV1{
		Kind:     current.Kind,
		Current:  *current,
		Closed:   closed,
		RolledAt: rolledAt,
	})
}

// NewSnapshotEvent creates a snapshot recorded or skipped event from a result
func NewSnapshotEvent(result *domain.SnapshotResult) Event {
	t := SnapshotRecorded
	if result.Skipped {
		t = SnapshotSkipped
	}
	p := result.Period
	return newEvent(t, SnapshotPayloadV1{
		PeriodID:   p.ID,
		Kind:       p.Kind,
		StartAt:    p.StartAt,
		EndAt:      p.EndAt,
		Placements: result.Placements,
		Reason:     result.Reason,
	})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is the fire-and-forget side used by services
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
