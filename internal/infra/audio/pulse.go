package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// PulseDevice records from a PulseAudio source over the native protocol.
// An empty source id selects the server default.
type PulseDevice struct {
	sourceID string
	logger   *slog.Logger

	mu      sync.Mutex
	client  *pulse.Client
	stream  *pulse.RecordStream
	sink    SampleSink
	stopped bool
	odd     []byte
}

func NewPulseDevice(sourceID string, logger *slog.Logger) *PulseDevice {
	return &PulseDevice{sourceID: sourceID, logger: logger}
}

func (p *PulseDevice) Name() string {
	return "pulse"
}

func (p *PulseDevice) Start(sampleRate int, sink SampleSink) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("doorctl"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}

	var source *pulse.Source
	if p.sourceID == "" || p.sourceID == "default" {
		source, err = client.DefaultSource()
	} else {
		source, err = client.SourceByID(p.sourceID)
	}
	if err != nil {
		client.Close()
		return fmt.Errorf("resolve pulse source %q: %w", p.sourceID, err)
	}

	p.mu.Lock()
	p.client = client
	p.sink = sink
	p.stopped = false
	p.odd = nil
	p.mu.Unlock()

	writer := pulse.NewWriter(writerFunc(p.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(sampleRate),
		pulse.RecordMediaName("door lock voice command"),
	)
	if err != nil {
		client.Close()
		return fmt.Errorf("create pulse record stream: %w", err)
	}

	p.mu.Lock()
	p.stream = stream
	p.mu.Unlock()
	stream.Start()

	p.logger.Info("pulse capture started", "source", source.ID(), "sampleRate", sampleRate)
	return nil
}

func (p *PulseDevice) Stop() error {
	p.mu.Lock()
	if p.stopped || p.client == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	stream, client := p.stream, p.client
	p.stream, p.client = nil, nil
	p.mu.Unlock()

	if stream != nil {
		stream.Stop()
		stream.Close()
	}
	client.Close()
	return nil
}

// onPCM converts little-endian s16 frames to samples, carrying an odd
// trailing byte to the next call.
func (p *PulseDevice) onPCM(buffer []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return 0, io.EOF
	}

	data := buffer
	if len(p.odd) > 0 {
		data = append(p.odd, buffer...)
		p.odd = nil
	}
	if len(data)%2 == 1 {
		p.odd = []byte{data[len(data)-1]}
		data = data[:len(data)-1]
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	if len(samples) > 0 && p.sink != nil {
		p.sink(samples)
	}
	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
