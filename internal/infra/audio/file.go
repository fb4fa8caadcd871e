package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"doorlock-remote/internal/domain"
)

// FileDevice replays a pre-recorded clip from disk as if it had been
// captured. The file is left in place when the clip is discarded.
type FileDevice struct {
	path string

	mu   sync.Mutex
	data []byte
}

func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

func (f *FileDevice) Name() string {
	return "file"
}

func (f *FileDevice) Start(_ int, _ SampleSink) error {
	if _, ok := domain.MIMETypeForFile(f.path); !ok {
		return fmt.Errorf("unsupported audio file %s", f.path)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("reading audio file: %w", err)
	}

	f.mu.Lock()
	f.data = data
	f.mu.Unlock()
	return nil
}

func (f *FileDevice) Stop() error {
	return nil
}

func (f *FileDevice) Clip() (*domain.AudioClip, error) {
	f.mu.Lock()
	data := f.data
	f.data = nil
	f.mu.Unlock()

	if len(data) == 0 {
		return nil, domain.Validation("no audio recorded")
	}

	mimeType, _ := domain.MIMETypeForFile(f.path)
	clip := &domain.AudioClip{Data: data, MIMEType: mimeType, Channels: 1}
	if mimeType == domain.MIMETypeWAV {
		if _, rate, err := DecodeWAV(data); err == nil {
			clip.SampleRate = rate
		}
	}
	return clip, nil
}

// FileSource watches a directory for dropped clips and text files. Each file
// is picked up once and renamed with a .processed suffix.
type FileSource struct {
	dir       string
	interval  time.Duration
	processed map[string]bool
	mu        sync.Mutex
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir:       dir,
		interval:  500 * time.Millisecond,
		processed: make(map[string]bool),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}
	return nil
}

func (f *FileSource) Stop() error {
	return nil
}

func (f *FileSource) NextUtterance(ctx context.Context) (domain.Utterance, error) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.Utterance{}, ctx.Err()
		case <-ticker.C:
			u, found, err := f.checkForNewFile()
			if err != nil {
				return domain.Utterance{}, err
			}
			if found {
				return u, nil
			}
		}
	}
}

func (f *FileSource) checkForNewFile() (domain.Utterance, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return domain.Utterance{}, false, fmt.Errorf("reading dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(f.dir, name)
		if f.processed[path] {
			continue
		}

		isText := strings.EqualFold(filepath.Ext(name), ".txt")
		mimeType, isAudio := domain.MIMETypeForFile(name)
		if !isText && !isAudio {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return domain.Utterance{}, false, fmt.Errorf("reading file %s: %w", path, err)
		}

		f.processed[path] = true
		_ = os.Rename(path, path+".processed")

		if isText {
			return domain.Utterance{Text: strings.TrimSpace(string(data))}, true, nil
		}
		return domain.Utterance{Clip: &domain.AudioClip{Data: data, MIMEType: mimeType, Channels: 1}}, true, nil
	}

	return domain.Utterance{}, false, nil
}
