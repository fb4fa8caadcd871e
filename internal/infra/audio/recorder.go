package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"doorlock-remote/internal/domain"
)

const (
	DefaultSampleRate  = 44100
	DefaultMaxDuration = 30 * time.Second
)

var (
	ErrAlreadyRecording = errors.New("audio: capture already in progress")
	ErrNoActiveCapture  = errors.New("audio: no active capture")
)

// Recorder owns exclusive access to one capture device. At most one capture
// is active at a time; the device is released on stop, cancel, start error or
// cancellation of the context passed to StartCapture.
type Recorder struct {
	device      Device
	sampleRate  int
	maxDuration time.Duration
	tempDir     string
	logger      *slog.Logger

	mu     sync.Mutex
	active *capture
}

type capture struct {
	handle    domain.CaptureHandle
	limit     int
	stopAfter func() bool
	started   time.Time

	mu        sync.Mutex
	samples   []int16
	truncated bool
}

func (c *capture) append(samples []int16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.limit - len(c.samples)
	if room <= 0 {
		c.truncated = true
		return
	}
	if len(samples) > room {
		samples = samples[:room]
		c.truncated = true
	}
	c.samples = append(c.samples, samples...)
}

func NewRecorder(device Device, sampleRate int, maxDuration time.Duration, tempDir string, logger *slog.Logger) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Recorder{
		device:      device,
		sampleRate:  sampleRate,
		maxDuration: maxDuration,
		tempDir:     tempDir,
		logger:      logger,
	}
}

func (r *Recorder) StartCapture(ctx context.Context) (domain.CaptureHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return "", ErrAlreadyRecording
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := &capture{
		handle:  domain.CaptureHandle(uuid.NewString()),
		limit:   int(r.maxDuration.Seconds() * float64(r.sampleRate)),
		started: time.Now(),
	}

	if err := r.device.Start(r.sampleRate, c.append); err != nil {
		return "", fmt.Errorf("starting %s capture: %w", r.device.Name(), err)
	}

	r.active = c
	c.stopAfter = context.AfterFunc(ctx, func() {
		if err := r.CancelCapture(c.handle); err == nil {
			r.logger.Info("capture cancelled", "handle", c.handle)
		}
	})

	r.logger.Info("capture started", "device", r.device.Name(), "handle", c.handle)
	return c.handle, nil
}

// StopCapture ends the capture and returns the recorded clip, backed by a
// temporary file that the clip's Discard removes.
func (r *Recorder) StopCapture(handle domain.CaptureHandle) (*domain.AudioClip, error) {
	c, err := r.release(handle)
	if err != nil {
		return nil, err
	}

	if cd, ok := r.device.(ClipDevice); ok {
		return cd.Clip()
	}

	c.mu.Lock()
	samples := c.samples
	truncated := c.truncated
	c.mu.Unlock()

	if truncated {
		r.logger.Warn("capture exceeded max duration, tail dropped", "max", r.maxDuration)
	}
	if len(samples) == 0 {
		return nil, domain.Validation("no audio recorded")
	}

	data, err := EncodeWAV(samples, r.sampleRate)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(r.tempDir, "capture-"+string(handle)+".wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing capture file: %w", err)
	}

	r.logger.Info("capture stopped",
		"handle", handle,
		"duration", time.Since(c.started).Round(time.Millisecond),
		"bytes", len(data),
	)

	return &domain.AudioClip{
		Data:       data,
		MIMEType:   domain.MIMETypeWAV,
		SampleRate: r.sampleRate,
		Channels:   1,
		Path:       path,
	}, nil
}

// CancelCapture ends the capture and drops whatever was recorded.
func (r *Recorder) CancelCapture(handle domain.CaptureHandle) error {
	_, err := r.release(handle)
	return err
}

// RecordFor captures for d, or until ctx is done, whichever comes first.
// A ctx cancellation returns ctx.Err() and no clip.
func (r *Recorder) RecordFor(ctx context.Context, d time.Duration) (*domain.AudioClip, error) {
	handle, err := r.StartCapture(ctx)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		_ = r.CancelCapture(handle)
		return nil, ctx.Err()
	case <-timer.C:
		return r.StopCapture(handle)
	}
}

// Active reports whether a capture is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

func (r *Recorder) release(handle domain.CaptureHandle) (*capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.active
	if c == nil || c.handle != handle {
		return nil, ErrNoActiveCapture
	}
	r.active = nil
	if c.stopAfter != nil {
		c.stopAfter()
	}

	if err := r.device.Stop(); err != nil {
		return c, fmt.Errorf("stopping %s capture: %w", r.device.Name(), err)
	}
	return c, nil
}
