package main

import (
	"fmt"
	"os"

	"doorlock-remote/internal/application"
	"doorlock-remote/internal/infra/audio"
	"doorlock-remote/internal/infra/gemini"
)

func (a *app) credentials() application.Credentials {
	return application.Credentials{
		APIKey:  a.store.Get().APIKey,
		Address: a.address(),
	}
}

func (a *app) generator() gemini.Generator {
	c := a.cfg.Cloud
	if c.Backend == "sdk" {
		return gemini.NewSDKClient(c.Model, c.BaseURL, c.Timeout)
	}
	return gemini.NewClientWithURL(c.Model, c.BaseURL, c.Timeout)
}

func (a *app) classifier() *gemini.Classifier {
	return gemini.NewClassifier(a.generator(), *a.cfg.Cloud.Temperature, a.cfg.Cloud.MaxOutputTokens)
}

func (a *app) pipeline(callbacks *application.CallbackQueue) *application.Pipeline {
	gen := a.generator()
	c := a.cfg.Cloud
	return application.NewPipeline(
		gemini.NewTranscriber(gen),
		gemini.NewClassifier(gen, *c.Temperature, c.MaxOutputTokens),
		application.NewDispatcher(a.device, a.logger),
		callbacks,
		a.logger,
	)
}

// recorder builds the capture device named by audio.backend. A non-empty
// file overrides the backend.
func (a *app) recorder(file string) (*audio.Recorder, error) {
	c := a.cfg.Audio
	if file == "" && c.Backend == "file" {
		file = c.File
	}

	var device audio.Device
	switch {
	case file != "":
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("audio file: %w", err)
		}
		device = audio.NewFileDevice(file)
	case c.Backend == "pulse":
		device = audio.NewPulseDevice(c.PulseSource, a.logger)
	case c.Backend == "file":
		return nil, fmt.Errorf("audio.backend is file but no audio.file is set")
	default:
		device = audio.NewMicrophoneDevice(a.logger)
	}

	return audio.NewRecorder(device, c.SampleRate, c.MaxDuration, c.TempDir, a.logger), nil
}
