package gemini

import (
	"context"
	"strings"

	"doorlock-remote/internal/domain"
)

const transcribePrompt = "Transcribe this audio to text. Return only the transcribed text, nothing else."

type Transcriber struct {
	gen Generator
}

func NewTranscriber(gen Generator) *Transcriber {
	return &Transcriber{gen: gen}
}

func (t *Transcriber) Transcribe(ctx context.Context, clip *domain.AudioClip, apiKey string) (string, error) {
	if apiKey == "" {
		return "", domain.MissingCredential()
	}
	if clip == nil || len(clip.Data) == 0 {
		return "", domain.Validation("no audio recorded")
	}

	mimeType := clip.MIMEType
	if mimeType == "" {
		mimeType = domain.MIMETypeWAV
	}

	text, err := t.gen.Generate(ctx, apiKey, GenerateRequest{
		Parts: []Part{
			{Text: transcribePrompt},
			{MIMEType: mimeType, Data: clip.Data},
		},
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.EmptyTranscript()
	}
	return text, nil
}
