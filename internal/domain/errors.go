package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindMissingCredential ErrorKind = "missing_credential"
	KindNetworkFailure    ErrorKind = "network_failure"
	KindRemoteError       ErrorKind = "remote_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindEmptyTranscript   ErrorKind = "empty_transcript"
	KindClassification    ErrorKind = "classification_error"
	KindValidation        ErrorKind = "validation_error"
)

// Error is the typed failure returned by every pipeline stage.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrNetworkFailure    = &Error{Kind: KindNetworkFailure}
	ErrRemoteError       = &Error{Kind: KindRemoteError}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrEmptyTranscript   = &Error{Kind: KindEmptyTranscript}
	ErrClassification    = &Error{Kind: KindClassification}
	ErrValidation        = &Error{Kind: KindValidation}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func MissingCredential() error {
	return &Error{Kind: KindMissingCredential, Message: "Gemini API key not configured"}
}

func NetworkFailure(err error) error {
	return &Error{Kind: KindNetworkFailure, Err: err}
}

func RemoteError(message string) error {
	return &Error{Kind: KindRemoteError, Message: message}
}

func MalformedResponse(detail string) error {
	return &Error{Kind: KindMalformedResponse, Message: detail}
}

func EmptyTranscript() error {
	return &Error{Kind: KindEmptyTranscript, Message: "empty transcription result"}
}

func ClassificationError(reason string) error {
	return &Error{Kind: KindClassification, Message: reason}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the pipeline error kind of err, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage renders err as text suitable for showing to the person who
// issued the command.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("Request failed: %v", err)
	}

	switch e.Kind {
	case KindMissingCredential:
		return "Gemini API key not configured. Please set your API key in settings."
	case KindNetworkFailure:
		return fmt.Sprintf("Recognition fail: Network error - %v", e.Err)
	case KindRemoteError:
		return "Recognition fail: Gemini API Error - " + e.Message
	case KindMalformedResponse:
		return "Recognition fail: Unable to parse response"
	case KindEmptyTranscript:
		return "Recognition fail: Empty transcription result"
	case KindClassification:
		return "Recognition fail: " + e.Message
	case KindValidation:
		return e.Message
	default:
		return e.Error()
	}
}
