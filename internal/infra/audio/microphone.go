//go:build portaudio
// +build portaudio

package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// MicrophoneDevice captures from the default input through PortAudio.
type MicrophoneDevice struct {
	logger *slog.Logger

	mu     sync.Mutex
	stream *portaudio.Stream
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewMicrophoneDevice(logger *slog.Logger) *MicrophoneDevice {
	return &MicrophoneDevice{logger: logger}
}

func (m *MicrophoneDevice) Name() string {
	return "microphone"
}

func (m *MicrophoneDevice) Start(sampleRate int, sink SampleSink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return fmt.Errorf("microphone already open")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	buffer := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerBuffer, buffer)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}

	m.stream = stream
	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.readLoop(stream, buffer, sink, m.done)

	m.logger.Info("microphone started", "sampleRate", sampleRate)
	return nil
}

func (m *MicrophoneDevice) readLoop(stream *portaudio.Stream, buffer []int16, sink SampleSink, done <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-done:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			m.logger.Warn("reading microphone", "error", err)
			return
		}

		chunk := make([]int16, len(buffer))
		copy(chunk, buffer)
		sink(chunk)
	}
}

func (m *MicrophoneDevice) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}

	close(m.done)
	m.wg.Wait()

	var firstErr error
	if err := m.stream.Stop(); err != nil {
		firstErr = fmt.Errorf("stopping stream: %w", err)
	}
	if err := m.stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("terminating portaudio: %w", err)
	}
	m.stream = nil
	return firstErr
}
