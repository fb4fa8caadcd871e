package application

import (
	"context"

	"doorlock-remote/internal/domain"
)

// IntentClassifier maps a transcript onto the voice grammar. Returned errors
// are transport level only; grammar problems come back as Intent values.
type IntentClassifier interface {
	Classify(ctx context.Context, transcript, apiKey string) (domain.Intent, error)
}
