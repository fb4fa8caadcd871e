package domain

type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeFailure     OutcomeKind = "failure"
	OutcomeUserMessage OutcomeKind = "user_message"
)

// Outcome is the final result handed back to the caller of a device
// operation or a voice pipeline run.
type Outcome struct {
	Kind     OutcomeKind
	Command  Command
	Message  string
	Image    []byte
	VideoURL string
}

func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

func Succeeded(cmd Command, message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Command: cmd, Message: message}
}

func Failed(cmd Command, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Command: cmd, Message: message}
}

func UserMessageOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeUserMessage, Message: message}
}
