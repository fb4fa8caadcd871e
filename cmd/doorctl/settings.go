package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"doorlock-remote/config"
	"doorlock-remote/internal/domain"
)

var flagSetAPIKey string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved API key and controller address",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		cur := a.store.Get()
		key := styles.Failure.Render("not set")
		if cur.APIKey != "" {
			key = cur.Redacted()
		}
		renderField(a.out, "file", a.store.Path())
		renderField(a.out, "api key", key)
		renderField(a.out, "controller", a.address().String())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save a new API key and/or controller address",
	Long: `Save a new Gemini API key (--api-key) and/or controller address
(the global --host flag). Empty values are rejected and nothing is saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var u config.CredentialUpdate
		if cmd.Flags().Changed("api-key") {
			u.APIKey = &flagSetAPIKey
		}
		if cmd.Flags().Changed("host") {
			u.DeviceHost = &flagHost
		}
		if u.APIKey == nil && u.DeviceHost == nil {
			return fmt.Errorf("nothing to change: pass --api-key and/or --host")
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		saved, err := a.store.Update(u)
		if err != nil {
			return a.finish(domain.UserMessageOutcome(domain.UserMessage(err)))
		}
		fmt.Fprintln(a.out, styles.Success.Render("✓ ")+"Settings saved")
		renderField(a.out, "api key", saved.Redacted())
		renderField(a.out, "controller", saved.DeviceHost)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagSetAPIKey, "api-key", "", "Gemini API key")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
