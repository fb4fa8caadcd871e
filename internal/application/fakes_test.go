package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"doorlock-remote/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingDevice struct {
	mu       sync.Mutex
	requests []domain.DeviceCommandRequest
}

func (d *countingDevice) Execute(_ context.Context, req domain.DeviceCommandRequest) domain.Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return domain.Succeeded(req.Command, string(req.Command)+" ok")
}

func (d *countingDevice) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
	seen  []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, clip *domain.AudioClip, _ string) (string, error) {
	f.calls++
	f.seen = append(f.seen, string(clip.Data))
	return f.text, f.err
}

type fakeClassifier struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   int
}

func (f *fakeClassifier) Classify(_ context.Context, transcript, _ string) (domain.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.Intent{}, f.err
	}
	reply, ok := f.replies[transcript]
	if !ok {
		reply = "unknown"
	}
	return domain.ParseIntentReply(reply), nil
}

type fakeSource struct {
	items []domain.Utterance
	index int
}

func (s *fakeSource) Start(_ context.Context) error { return nil }
func (s *fakeSource) Stop() error                   { return nil }
func (s *fakeSource) Name() string                  { return "fake" }

func (s *fakeSource) NextUtterance(ctx context.Context) (domain.Utterance, error) {
	if s.index < len(s.items) {
		u := s.items[s.index]
		s.index++
		return u, nil
	}
	<-ctx.Done()
	return domain.Utterance{}, ctx.Err()
}

type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
	notify   chan struct{}
}

func (n *recordingNotifier) Notify(_ context.Context, outcome domain.Outcome) error {
	n.mu.Lock()
	n.outcomes = append(n.outcomes, outcome)
	n.mu.Unlock()
	if n.notify != nil {
		n.notify <- struct{}{}
	}
	return nil
}
