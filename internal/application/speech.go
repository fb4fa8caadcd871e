package application

import (
	"context"

	"doorlock-remote/internal/domain"
)

type Transcriber interface {
	// Transcribe returns the trimmed, non-empty text spoken in clip.
	Transcribe(ctx context.Context, clip *domain.AudioClip, apiKey string) (string, error)
}
