package application

import (
	"context"

	"doorlock-remote/internal/domain"
)

// AudioSource yields utterances for the serve loop.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextUtterance(ctx context.Context) (domain.Utterance, error)
	Name() string
}

// Recorder owns the capture device. Only one capture may be active at a time.
type Recorder interface {
	StartCapture(ctx context.Context) (domain.CaptureHandle, error)
	StopCapture(handle domain.CaptureHandle) (*domain.AudioClip, error)
	CancelCapture(handle domain.CaptureHandle) error
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
	}
}
