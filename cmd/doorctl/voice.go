package main

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"doorlock-remote/internal/application"
	"doorlock-remote/internal/domain"
)

var (
	flagVoiceFile     string
	flagVoiceDuration time.Duration
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Record a spoken command and run it",
	Long: `Record a spoken command, transcribe it and send the matching command
to the lock. Without --duration recording stops when Enter is pressed.

Recognized commands: lock, unlock, change password <digits>, take photo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		rec, err := a.recorder(flagVoiceFile)
		if err != nil {
			return err
		}

		clip, err := capture(cmd, rec)
		if err != nil {
			return a.finish(domain.UserMessageOutcome(domain.UserMessage(err)))
		}

		callbacks := application.NewCallbackQueue(1)
		defer callbacks.Close()
		pipeline := a.pipeline(callbacks)

		fmt.Fprintln(a.out, styles.Dim.Render("Recognizing..."))

		result := make(chan domain.Outcome, 1)
		pipeline.ProcessAsync(cmd.Context(), clip, a.credentials(), func(o domain.Outcome) {
			result <- o
		})

		select {
		case o := <-result:
			return a.finish(o)
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	},
}

func init() {
	voiceCmd.Flags().StringVarP(&flagVoiceFile, "file", "f", "", "use an audio file instead of the microphone")
	voiceCmd.Flags().DurationVarP(&flagVoiceDuration, "duration", "d", 0, "record for a fixed time instead of waiting for Enter")

	rootCmd.AddCommand(voiceCmd)
}

type clipRecorder interface {
	application.Recorder
	RecordFor(ctx context.Context, d time.Duration) (*domain.AudioClip, error)
}

func capture(cmd *cobra.Command, rec clipRecorder) (*domain.AudioClip, error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if flagVoiceFile != "" || flagVoiceDuration > 0 {
		d := flagVoiceDuration
		if d <= 0 {
			d = time.Millisecond
		}
		if flagVoiceFile == "" {
			fmt.Fprintln(out, styles.Label.Render("Recording")+styles.Dim.Render(fmt.Sprintf(" for %s...", d)))
		}
		return rec.RecordFor(ctx, d)
	}

	handle, err := rec.StartCapture(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, styles.Label.Render("Recording")+styles.Dim.Render(", press Enter to stop"))

	pressed := make(chan struct{})
	go func() {
		bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		close(pressed)
	}()

	select {
	case <-pressed:
		return rec.StopCapture(handle)
	case <-ctx.Done():
		_ = rec.CancelCapture(handle)
		return nil, ctx.Err()
	}
}
