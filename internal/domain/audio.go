package domain

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	MIMETypeWAV = "audio/wav"
	MIMETypeM4A = "audio/m4a"
)

// AudioClip is one recorded utterance. It is owned by whoever holds it until
// handed to transcription, after which it is discarded.
type AudioClip struct {
	Data       []byte
	MIMEType   string
	SampleRate int
	Channels   int
	// Path is the temporary file backing the clip, if any.
	Path string
}

// Discard drops the payload and removes the backing temporary file.
func (c *AudioClip) Discard() error {
	if c == nil {
		return nil
	}
	c.Data = nil
	if c.Path == "" {
		return nil
	}
	path := c.Path
	c.Path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MIMETypeForFile guesses the clip mime type from a file extension.
func MIMETypeForFile(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".m4a":
		return MIMETypeM4A, true
	case ".wav":
		return MIMETypeWAV, true
	case ".mp3":
		return "audio/mp3", true
	case ".webm":
		return "audio/webm", true
	case ".ogg":
		return "audio/ogg", true
	default:
		return "", false
	}
}

// Utterance is one item taken from an intake source: either a clip to be
// transcribed or text that skips transcription.
type Utterance struct {
	Clip *AudioClip
	Text string
}

// CaptureHandle identifies one in-progress recording.
type CaptureHandle string
