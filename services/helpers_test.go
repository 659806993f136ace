package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func ptr[T any](v T) *T { return &v }

// at returns testNow shifted by whole days, at the given hour.
func at(daysAgo, hour int) time.Time {
	d := testNow.AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

type fakePhotoDetector struct {
	foods []string
	err   error
	calls []string
}

func (f *fakePhotoDetector) DetectFoods(_ context.Context, ref string) ([]string, error) {
	f.calls = append(f.calls, ref)
	return f.foods, f.err
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func (r *recordingBroadcaster) Broadcast(payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := payload.(map[string]any); ok {
		r.payloads = append(r.payloads, m)
	}
}

func (r *recordingBroadcaster) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.payloads))
	for _, p := range r.payloads {
		out = append(out, p["kind"].(string))
	}
	return out
}

type pushed struct {
	title, body string
	data        map[string]string
}

type recordingPusher struct {
	err    error
	pushes []pushed
}

func (r *recordingPusher) Push(_ context.Context, title, body string, data map[string]string) error {
	r.pushes = append(r.pushes, pushed{title: title, body: body, data: data})
	return r.err
}
