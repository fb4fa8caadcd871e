package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"doorlock-remote/internal/domain"
)

func TestErrorKindsMatchSentinels(t *testing.T) {
	err := fmt.Errorf("transcribing: %w", domain.NetworkFailure(context.DeadlineExceeded))

	require.True(t, errors.Is(err, domain.ErrNetworkFailure))
	require.False(t, errors.Is(err, domain.ErrRemoteError))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, domain.KindNetworkFailure, domain.KindOf(err))
	require.Equal(t, domain.ErrorKind(""), domain.KindOf(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "", domain.UserMessage(nil))
	require.Contains(t, domain.UserMessage(domain.MissingCredential()), "API key not configured")
	require.Equal(t, "Recognition fail: Gemini API Error - quota exceeded", domain.UserMessage(domain.RemoteError("quota exceeded")))
	require.Equal(t, "Recognition fail: Empty transcription result", domain.UserMessage(domain.EmptyTranscript()))
	require.Equal(t, "Recognition fail: invalid password format", domain.UserMessage(domain.ClassificationError(domain.ReasonInvalidPassword)))
	require.Equal(t, "password must be numbers only", domain.UserMessage(domain.Validation("password must be numbers only")))
	require.Equal(t, "Request failed: boom", domain.UserMessage(errors.New("boom")))
}
