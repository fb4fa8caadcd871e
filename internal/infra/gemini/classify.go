package gemini

import (
	"context"
	"fmt"
	"strings"

	"doorlock-remote/internal/domain"
)

const (
	DefaultTemperature     float32 = 0.3
	DefaultMaxOutputTokens         = 50
)

const classifyPrompt = `Analyze the following speech-to-text content and determine the user's intent. Return only one of the following four commands:
- lock: if the user wants to lock
- unlock: if the user wants to unlock
- change_password: if the user wants to change password (must also extract the new password, format: change_password|new_password, e.g., change_password|1234)
- take_photo: if the user wants to take a photo

If unable to recognize as one of the above four commands, return "unknown".

Speech content: %s

Return only the command, no other text. If it's change_password, the format must be: change_password|password_numbers`

type Classifier struct {
	gen             Generator
	temperature     float32
	maxOutputTokens int
}

func NewClassifier(gen Generator, temperature float32, maxOutputTokens int) *Classifier {
	if temperature < 0 {
		temperature = DefaultTemperature
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	return &Classifier{gen: gen, temperature: temperature, maxOutputTokens: maxOutputTokens}
}

func (c *Classifier) Classify(ctx context.Context, transcript, apiKey string) (domain.Intent, error) {
	if apiKey == "" {
		return domain.Intent{}, domain.MissingCredential()
	}
	if strings.TrimSpace(transcript) == "" {
		return domain.Intent{}, domain.EmptyTranscript()
	}

	temperature := c.temperature
	reply, err := c.gen.Generate(ctx, apiKey, GenerateRequest{
		Parts:           []Part{{Text: fmt.Sprintf(classifyPrompt, transcript)}},
		Temperature:     &temperature,
		MaxOutputTokens: c.maxOutputTokens,
	})
	if err != nil {
		return domain.Intent{}, err
	}

	return domain.ParseIntentReply(reply), nil
}
