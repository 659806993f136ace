package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"mealtracker/models"
)

// Broadcaster delivers an event to live clients.
type Broadcaster interface {
	Broadcast(payload any)
}

// Pusher delivers a notification to offline devices.
type Pusher interface {
	Push(ctx context.Context, title, body string, data map[string]string) error
}

// AlertBus fans alerts out to the realtime hub and push. Either sink may be
// nil. Delivery is best effort; failures are logged, never returned.
type AlertBus struct {
	rt   Broadcaster
	push Pusher
	log  *slog.Logger
	now  func() time.Time

	pushOff atomic.Bool
}

func NewAlertBus(rt Broadcaster, push Pusher, log *slog.Logger) *AlertBus {
	return &AlertBus{rt: rt, push: push, log: log, now: time.Now}
}

// SetPushEnabled turns push delivery on or off. Realtime delivery is not
// affected.
func (b *AlertBus) SetPushEnabled(enabled bool) { b.pushOff.Store(!enabled) }

func (b *AlertBus) PushEnabled() bool { return b.push != nil && !b.pushOff.Load() }

func (b *AlertBus) Emit(ctx context.Context, a models.Alert) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = b.now().UTC()
	}

	if b.rt != nil {
		b.rt.Broadcast(map[string]any{
			"kind":  a.Type,
			"alert": a,
		})
	}
	// Meal logs stay off the phone.
	if b.PushEnabled() && a.Type != models.AlertMealLogged {
		if err := b.push.Push(ctx, a.Title, a.Message, map[string]string{
			"type": a.Type, "ref": a.Ref,
		}); err != nil {
			b.log.Warn("push alert failed", "type", a.Type, "ref", a.Ref, "error", err)
		}
	}
}

// NewlyAchieved returns the badges achieved in after but not in before.
func NewlyAchieved(before, after []Achievement) []Achievement {
	had := make(map[string]bool, len(before))
	for _, a := range before {
		had[a.ID] = a.Achieved
	}
	var out []Achievement
	for _, a := range after {
		if a.Achieved && !had[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
