package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"doorlock-remote/config"
	"doorlock-remote/internal/application"
	"doorlock-remote/internal/infra/audio"
	"doorlock-remote/internal/infra/pushover"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the voice assistant until interrupted",
	Long: `Take utterances from the intake source (HTTP endpoint or a watched
directory), run each through recognition and send the command to the
lock. Results are pushed through Pushover when it is enabled.

HTTP intake:
  POST /audio  audio/* body, one spoken command
  POST /text   text/plain or {"text": "..."}
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		source := createAudioSource(a.cfg.Intake, a.logger)

		var notifier application.Notifier
		if a.cfg.Pushover.Enabled {
			notifier = pushover.NewClient(a.cfg.Pushover.Token, a.cfg.Pushover.UserKey, a.logger)
		} else {
			notifier = &application.NoopNotifier{}
		}

		assistant := application.NewAssistant(
			source,
			a.pipeline(nil),
			a.credentials,
			notifier,
			a.logger,
		)

		a.logger.Info("starting door lock assistant",
			"intake", a.cfg.Intake.Source,
			"controller", a.address().String(),
			"cloud_backend", a.cfg.Cloud.Backend,
		)

		if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		a.logger.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func createAudioSource(cfg config.IntakeConfig, logger *slog.Logger) application.AudioSource {
	switch cfg.Source {
	case "file":
		return audio.NewFileSource(cfg.Dir)
	default:
		return audio.NewHTTPSource(cfg.HTTPAddr, cfg.AuthToken, logger)
	}
}
