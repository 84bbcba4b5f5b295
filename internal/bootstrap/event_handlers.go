package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the leaderboard
// audit log to the bus
func RegisterEventHandlers(bus event.Bus) error {
	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	logger.Info(LogMsgMetricsCollectorRegistered)

	bus.Subscribe(event.PeriodRolled, logPeriodRolled)
	bus.Subscribe(event.SnapshotRecorded, logSnapshot)
	bus.Subscribe(event.SnapshotSkipped, logSnapshot)
	return nil
}

func logPeriodRolled(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.PeriodRolledPayloadV1](evt)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgLeaderboardAudit,
		"event_type", evt.Type,
		"event_id", evt.ID,
		"kind", payload.Kind,
		"current_period_id", payload.Current.ID,
		"closed", len(payload.Closed))
	return nil
}

func logSnapshot(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.SnapshotPayloadV1](evt)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgLeaderboardAudit,
		"event_type", evt.Type,
		"event_id", evt.ID,
		"period_id", payload.PeriodID,
		"kind", payload.Kind,
		"placements", payload.Placements,
		"reason", payload.Reason)
	return nil
}
