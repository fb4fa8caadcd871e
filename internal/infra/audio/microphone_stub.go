//go:build !portaudio
// +build !portaudio

package audio

import (
	"fmt"
	"log/slog"
)

// MicrophoneDevice stub when portaudio is not available
type MicrophoneDevice struct {
	logger *slog.Logger
}

func NewMicrophoneDevice(logger *slog.Logger) *MicrophoneDevice {
	return &MicrophoneDevice{logger: logger}
}

func (m *MicrophoneDevice) Name() string {
	return "microphone"
}

func (m *MicrophoneDevice) Start(_ int, _ SampleSink) error {
	return fmt.Errorf("microphone device not available: rebuild with -tags portaudio")
}

func (m *MicrophoneDevice) Stop() error {
	return nil
}
