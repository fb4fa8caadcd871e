package application

import (
	"context"

	"doorlock-remote/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, outcome domain.Outcome) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ domain.Outcome) error {
	return nil
}
