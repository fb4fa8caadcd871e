package audio

import "doorlock-remote/internal/domain"

// SampleSink receives captured mono 16-bit PCM. The slice is owned by the
// callee once delivered.
type SampleSink func(samples []int16)

// Device is a PCM capture backend. Start begins delivering samples to sink
// until Stop returns.
type Device interface {
	Name() string
	Start(sampleRate int, sink SampleSink) error
	Stop() error
}

// ClipDevice is implemented by devices that produce an already encoded clip
// instead of PCM, such as a pre-recorded file.
type ClipDevice interface {
	Device
	Clip() (*domain.AudioClip, error)
}
