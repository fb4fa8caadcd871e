package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"doorlock-remote/internal/domain"
)

// Credentials is the per-run view of the saved settings.
type Credentials struct {
	APIKey  string
	Address domain.DeviceAddress
}

// Pipeline runs transcribe, classify and dispatch strictly in sequence.
type Pipeline struct {
	stt        Transcriber
	classifier IntentClassifier
	dispatcher *Dispatcher
	callbacks  *CallbackQueue
	logger     *slog.Logger
}

func NewPipeline(
	stt Transcriber,
	classifier IntentClassifier,
	dispatcher *Dispatcher,
	callbacks *CallbackQueue,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		stt:        stt,
		classifier: classifier,
		dispatcher: dispatcher,
		callbacks:  callbacks,
		logger:     logger,
	}
}

// Process transcribes clip and continues with the transcript. The clip is
// discarded once transcription finishes, whatever the result.
func (p *Pipeline) Process(ctx context.Context, clip *domain.AudioClip, creds Credentials) domain.Outcome {
	logger := p.logger.With("run", uuid.NewString())

	if clip == nil || len(clip.Data) == 0 {
		return p.dispatcher.Fail(domain.Validation("no audio recorded"))
	}

	logger.Info("transcribing", "bytes", len(clip.Data), "mime", clip.MIMEType)
	text, err := p.stt.Transcribe(ctx, clip, creds.APIKey)
	if discardErr := clip.Discard(); discardErr != nil {
		logger.Warn("discarding clip", "error", discardErr)
	}
	if err != nil {
		logger.Error("transcription failed", "error", err)
		return p.dispatcher.Fail(err)
	}

	logger.Info("transcribed", "text", text)
	return p.classifyAndDispatch(ctx, logger, text, creds)
}

// ProcessText skips transcription.
func (p *Pipeline) ProcessText(ctx context.Context, text string, creds Credentials) domain.Outcome {
	logger := p.logger.With("run", uuid.NewString())
	return p.classifyAndDispatch(ctx, logger, text, creds)
}

// ProcessAsync runs Process on its own goroutine and delivers the outcome to
// fn through the callback queue, or directly when the pipeline has none.
func (p *Pipeline) ProcessAsync(ctx context.Context, clip *domain.AudioClip, creds Credentials, fn func(domain.Outcome)) {
	go func() {
		outcome := p.Process(ctx, clip, creds)
		if p.callbacks == nil {
			fn(outcome)
			return
		}
		if !p.callbacks.Post(func() { fn(outcome) }) {
			p.logger.Warn("callback queue closed, dropping outcome", "kind", outcome.Kind)
		}
	}()
}

func (p *Pipeline) classifyAndDispatch(ctx context.Context, logger *slog.Logger, text string, creds Credentials) domain.Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return p.dispatcher.Fail(domain.EmptyTranscript())
	}

	intent, err := p.classifier.Classify(ctx, text, creds.APIKey)
	if err != nil {
		logger.Error("classification failed", "error", err)
		return p.dispatcher.Fail(err)
	}

	logger.Info("classified", "status", intent.Status, "command", intent.Command)
	return p.dispatcher.Dispatch(ctx, intent, creds.Address)
}
