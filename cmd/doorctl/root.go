package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"doorlock-remote/config"
	"doorlock-remote/internal/domain"
	"doorlock-remote/internal/infra/doorlock"
)

// errCommandFailed is returned after a failure outcome has been rendered.
var errCommandFailed = errors.New("command failed")

var (
	flagConfig   string
	flagEnvFile  string
	flagSettings string
	flagHost     string
	flagPort     int
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "doorctl",
	Short: "Remote control for the smart door lock",
	Long: `doorctl drives a door lock controller on the local network.

Commands can be issued directly (lock, unlock, password, photo, text,
stream) or spoken: "voice" records a clip, transcribes it with Gemini,
maps it onto lock / unlock / change password / take photo and sends
the result to the controller.

The Gemini API key and the controller address are saved in
$XDG_CONFIG_HOME/doorlock/settings.yaml; see "doorctl settings".

Examples:
  doorctl settings set --api-key $GEMINI_API_KEY --host 192.168.1.40
  doorctl lock
  doorctl password 4821
  doorctl voice --duration 4s
  doorctl serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", os.Getenv("DOORLOCK_CONFIG"), "path to config file")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the config")
	pf.StringVar(&flagSettings, "settings", "", "path to the saved settings file")
	pf.StringVar(&flagHost, "host", "", "controller address (saved for next time)")
	pf.IntVar(&flagPort, "port", 0, "controller port")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// app holds what every command needs, built once per invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *config.CredentialStore
	device *doorlock.Client
	out    io.Writer
}

func loadApp(cmd *cobra.Command) (*app, error) {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", flagEnvFile, err)
		}
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}

	logger := setupLogger(cfg.Log, cmd.ErrOrStderr())

	path := flagSettings
	if path == "" {
		path = cfg.Settings.Path
	}
	if path == "" {
		if path, err = config.DefaultCredentialPath(); err != nil {
			return nil, err
		}
	}

	defaultHost := cfg.Device.Host
	if defaultHost == "" {
		defaultHost = config.DefaultDeviceHost
	}
	store, err := config.OpenCredentialStore(path, config.CredentialConfig{
		APIKey:     cfg.Cloud.APIKey,
		DeviceHost: defaultHost,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		device: doorlock.NewClient(cfg.Device.SimpleTimeout, cfg.Device.JSONTimeout, logger),
		out:    cmd.OutOrStdout(),
	}, nil
}

// address resolves the controller address. A --host flag is saved, like
// typing a new address in the app.
func (a *app) address() domain.DeviceAddress {
	host := a.store.Get().DeviceHost
	if h := strings.TrimSpace(flagHost); h != "" && h != host {
		if _, err := a.store.Update(config.CredentialUpdate{DeviceHost: &h}); err != nil {
			a.logger.Warn("saving controller address", "error", err)
		}
		host = h
	}

	port := a.cfg.Device.Port
	if flagPort != 0 {
		port = flagPort
	}
	return domain.DeviceAddress{Host: host, Port: port}
}

// finish renders outcome and turns a non-success into errCommandFailed.
func (a *app) finish(outcome domain.Outcome) error {
	renderOutcome(a.out, outcome)
	if !outcome.Success() {
		return errCommandFailed
	}
	return nil
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
