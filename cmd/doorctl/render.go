package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"doorlock-remote/internal/domain"
)

var styles = struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Notice  lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
}{
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
	Failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	Notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Label:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func renderOutcome(w io.Writer, o domain.Outcome) {
	switch o.Kind {
	case domain.OutcomeSuccess:
		fmt.Fprintln(w, styles.Success.Render("✓ ")+o.Message)
	case domain.OutcomeFailure:
		fmt.Fprintln(w, styles.Failure.Render("✗ ")+o.Message)
	default:
		fmt.Fprintln(w, styles.Notice.Render("! ")+o.Message)
	}
	if o.VideoURL != "" {
		fmt.Fprintln(w, styles.Label.Render("stream: ")+o.VideoURL)
	}
}

func renderField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", styles.Label.Render(label+":"), value)
}
