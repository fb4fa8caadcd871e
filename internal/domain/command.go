package domain

import (
	"regexp"
	"strings"
)

type Command string

const (
	CommandLock           Command = "lock"
	CommandUnlock         Command = "unlock"
	CommandChangePassword Command = "change_password"
	CommandTakePhoto      Command = "take_photo"
	CommandDisplayText    Command = "display_text"
	CommandStream         Command = "stream"
)

var passwordPattern = regexp.MustCompile(`^[0-9]+$`)

// Voice reports whether the command is reachable through the voice grammar.
// display_text and stream are only issued by direct action.
func (c Command) Voice() bool {
	switch c {
	case CommandLock, CommandUnlock, CommandChangePassword, CommandTakePhoto:
		return true
	default:
		return false
	}
}

func (c Command) Valid() bool {
	return c.Voice() || c == CommandDisplayText || c == CommandStream
}

// IsNumericPassword reports whether s is a non-empty run of ASCII digits.
func IsNumericPassword(s string) bool {
	return passwordPattern.MatchString(s)
}

type IntentStatus int

const (
	IntentRecognized IntentStatus = iota + 1
	IntentUnrecognized
	IntentFailed
)

func (s IntentStatus) String() string {
	switch s {
	case IntentRecognized:
		return "recognized"
	case IntentUnrecognized:
		return "unrecognized"
	case IntentFailed:
		return "classification_error"
	default:
		return "invalid"
	}
}

// Intent is the structured result of classifying a transcript.
// Command and Parameter are set only when Status is IntentRecognized,
// Reason only when Status is IntentFailed.
type Intent struct {
	Status    IntentStatus
	Command   Command
	Parameter string
	Reason    string
	Raw       string
}

func Recognized(cmd Command, parameter string) Intent {
	return Intent{Status: IntentRecognized, Command: cmd, Parameter: parameter}
}

func Unrecognized(raw string) Intent {
	return Intent{Status: IntentUnrecognized, Raw: raw}
}

func ClassificationFailed(reason string) Intent {
	return Intent{Status: IntentFailed, Reason: reason}
}

const (
	ReasonMissingPassword = "missing password"
	ReasonInvalidPassword = "invalid password format"
)

// ParseIntentReply maps the model's raw reply onto the closed voice grammar.
//
// Matching is substring based. The order of checks is significant: the
// change_password branch runs first, then exact tokens, and "unlock" is
// tested before "lock" because every "unlock" reply also contains "lock".
func ParseIntentReply(raw string) Intent {
	reply := strings.ToLower(strings.TrimSpace(raw))

	var intent Intent
	switch {
	case strings.Contains(reply, string(CommandChangePassword)):
		intent = parsePasswordReply(reply)
	case reply == string(CommandUnlock):
		intent = Recognized(CommandUnlock, "")
	case reply == string(CommandLock):
		intent = Recognized(CommandLock, "")
	case reply == string(CommandTakePhoto):
		intent = Recognized(CommandTakePhoto, "")
	case strings.Contains(reply, "unlock"):
		intent = Recognized(CommandUnlock, "")
	case strings.Contains(reply, "lock"):
		intent = Recognized(CommandLock, "")
	case strings.Contains(reply, "photo"):
		intent = Recognized(CommandTakePhoto, "")
	default:
		intent = Unrecognized(raw)
	}

	intent.Raw = raw
	return intent
}

func parsePasswordReply(reply string) Intent {
	segments := strings.Split(reply, "|")
	if len(segments) != 2 {
		return ClassificationFailed(ReasonMissingPassword)
	}

	password := strings.TrimSpace(segments[1])
	if password == "" {
		return ClassificationFailed(ReasonMissingPassword)
	}
	if !IsNumericPassword(password) {
		return ClassificationFailed(ReasonInvalidPassword)
	}

	return Recognized(CommandChangePassword, password)
}
