package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.SessionLogged,
		event.BonusGranted,
		event.CreditsRecalculated,
		event.GameRatesUpdated,
		event.PeriodRolled,
		event.SnapshotRecorded,
		event.SnapshotSkipped,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.SessionLogged:
		var p event.SessionLoggedPayloadV1
		if p, err = event.DecodePayload[event.SessionLoggedPayloadV1](evt); err == nil {
			SessionsLogged.WithLabelValues(strconv.FormatInt(p.GameID, 10)).Inc()
			HoursLogged.Add(p.Hours.InexactFloat64())
			CreditsAccrued.Add(p.CreditsEarned.InexactFloat64())
		}

	case event.BonusGranted:
		BonusesGranted.Inc()

	case event.CreditsRecalculated:
		var p event.CreditsRecalculatedPayloadV1
		if p, err = event.DecodePayload[event.CreditsRecalculatedPayloadV1](evt); err == nil {
			SessionsRecalculated.WithLabelValues(strconv.FormatInt(p.GameID, 10)).Add(float64(p.SessionsUpdated))
		}

	case event.GameRatesUpdated:
		RatesUpdated.Inc()

	case event.PeriodRolled:
		var p event.PeriodRolledPayloadV1
		if p, err = event.DecodePayload[event.PeriodRolledPayloadV1](evt); err == nil {
			PeriodsRolled.WithLabelValues(string(p.Kind)).Add(float64(len(p.Closed)))
		}

	case event.SnapshotRecorded:
		var p event.SnapshotPayloadV1
		if p, err = event.DecodePayload[event.SnapshotPayloadV1](evt); err == nil {
			SnapshotsRecorded.WithLabelValues(string(p.Kind)).Inc()
			SnapshotPlacements.WithLabelValues(string(p.Kind)).Set(float64(p.Placements))
		}

	case event.SnapshotSkipped:
		var p event.SnapshotPayloadV1
		if p, err = event.DecodePayload[event.SnapshotPayloadV1](evt); err == nil {
			SnapshotsSkipped.WithLabelValues(string(p.Kind), p.Reason).Inc()
		}
	}

	if err != nil {
		log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
