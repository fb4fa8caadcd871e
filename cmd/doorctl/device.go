package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"doorlock-remote/internal/domain"
)

var flagPhotoOut string

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the door",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDeviceCommand(cmd, domain.CommandLock, "")
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the door",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDeviceCommand(cmd, domain.CommandUnlock, "")
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password <digits>",
	Short: "Change the lock password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceCommand(cmd, domain.CommandChangePassword, strings.TrimSpace(args[0]))
	},
}

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Take a photo with the door camera",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		outcome := a.device.TakePhoto(cmd.Context(), a.address())
		if outcome.Success() {
			path := flagPhotoOut
			if path == "" {
				path = "snapshot.jpg"
			}
			if err := os.WriteFile(path, outcome.Image, 0o644); err != nil {
				return fmt.Errorf("saving photo: %w", err)
			}
			outcome.Message = fmt.Sprintf("Photo saved to %s (%d bytes)", path, len(outcome.Image))
		}
		return a.finish(outcome)
	},
}

var textCmd = &cobra.Command{
	Use:   "text <message>",
	Short: "Show a message on the lock display",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return a.finish(a.device.DisplayText(cmd.Context(), a.address(), strings.Join(args, " ")))
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Start the camera stream and print its URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return a.finish(a.device.Stream(cmd.Context(), a.address()))
	},
}

func init() {
	photoCmd.Flags().StringVarP(&flagPhotoOut, "out", "o", "", "where to save the photo (default snapshot.jpg)")

	rootCmd.AddCommand(lockCmd, unlockCmd, passwordCmd, photoCmd, textCmd, streamCmd)
}

// runDeviceCommand validates a direct command the same way a spoken one is
// validated, then sends it.
func runDeviceCommand(cmd *cobra.Command, command domain.Command, parameter string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	req, err := domain.NewDeviceCommandRequest(command, parameter, a.address())
	if err != nil {
		return a.finish(domain.Failed(command, domain.UserMessage(err)))
	}
	return a.finish(a.device.Execute(cmd.Context(), req))
}
