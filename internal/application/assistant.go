package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"doorlock-remote/internal/domain"
)

// CredentialsFunc returns the settings in effect for the next run. It is
// called once per utterance so settings saved while serving take effect.
type CredentialsFunc func() Credentials

// Assistant feeds utterances from an AudioSource through the pipeline and
// reports each outcome to the notifier.
type Assistant struct {
	audio       AudioSource
	pipeline    *Pipeline
	credentials CredentialsFunc
	notifier    Notifier
	logger      *slog.Logger
}

func NewAssistant(
	audio AudioSource,
	pipeline *Pipeline,
	credentials CredentialsFunc,
	notifier Notifier,
	logger *slog.Logger,
) *Assistant {
	return &Assistant{
		audio:       audio,
		pipeline:    pipeline,
		credentials: credentials,
		notifier:    notifier,
		logger:      logger,
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()

	a.logger.Info("assistant ready, waiting for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOne(ctx); err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return ctx.Err()
				}
				a.logger.Error("processing command", "error", err)
			}
		}
	}
}

func (a *Assistant) processOne(ctx context.Context) error {
	utterance, err := a.audio.NextUtterance(ctx)
	if err != nil {
		return fmt.Errorf("getting utterance: %w", err)
	}

	creds := a.credentials()

	var outcome domain.Outcome
	switch {
	case utterance.Clip != nil:
		a.logger.Info("received audio", "bytes", len(utterance.Clip.Data))
		outcome = a.pipeline.Process(ctx, utterance.Clip, creds)
	case utterance.Text != "":
		a.logger.Info("received text command", "text", utterance.Text)
		outcome = a.pipeline.ProcessText(ctx, utterance.Text, creds)
	default:
		return nil
	}

	a.logger.Info("command finished", "kind", outcome.Kind, "command", outcome.Command, "message", outcome.Message)

	if err := a.notifier.Notify(ctx, outcome); err != nil {
		a.logger.Error("notifying result", "error", err)
	}

	return nil
}
