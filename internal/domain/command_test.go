package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"doorlock-remote/internal/domain"
)

func TestParseIntentReply(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		status    domain.IntentStatus
		command   domain.Command
		parameter string
		reason    string
	}{
		{name: "exact lock", reply: "lock", status: domain.IntentRecognized, command: domain.CommandLock},
		{name: "exact unlock", reply: "unlock", status: domain.IntentRecognized, command: domain.CommandUnlock},
		{name: "exact take_photo", reply: "take_photo", status: domain.IntentRecognized, command: domain.CommandTakePhoto},
		{name: "lock phrase", reply: "lock it", status: domain.IntentRecognized, command: domain.CommandLock},
		{name: "unlock phrase before lock", reply: "please unlock the door", status: domain.IntentRecognized, command: domain.CommandUnlock},
		{name: "unlocked matches unlock", reply: "Unlocked", status: domain.IntentRecognized, command: domain.CommandUnlock},
		{name: "photo phrase", reply: "take a photo please", status: domain.IntentRecognized, command: domain.CommandTakePhoto},
		{name: "padded and upper case", reply: "  LOCK\n", status: domain.IntentRecognized, command: domain.CommandLock},
		{name: "weather", reply: "what's the weather", status: domain.IntentUnrecognized},
		{name: "unknown token", reply: "unknown", status: domain.IntentUnrecognized},
		{name: "empty reply", reply: "", status: domain.IntentUnrecognized},
		{name: "password", reply: "change_password|1234", status: domain.IntentRecognized, command: domain.CommandChangePassword, parameter: "1234"},
		{name: "password with spaces", reply: " change_password | 0042 ", status: domain.IntentRecognized, command: domain.CommandChangePassword, parameter: "0042"},
		{name: "password non numeric", reply: "change_password|12a4", status: domain.IntentFailed, reason: domain.ReasonInvalidPassword},
		{name: "password words", reply: "change_password|one two", status: domain.IntentFailed, reason: domain.ReasonInvalidPassword},
		{name: "password missing segment", reply: "change_password", status: domain.IntentFailed, reason: domain.ReasonMissingPassword},
		{name: "password empty segment", reply: "change_password|", status: domain.IntentFailed, reason: domain.ReasonMissingPassword},
		{name: "password too many segments", reply: "change_password|12|34", status: domain.IntentFailed, reason: domain.ReasonMissingPassword},
		{name: "password wins over lock", reply: "change_password|99 lock", status: domain.IntentFailed, reason: domain.ReasonInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := domain.ParseIntentReply(tt.reply)
			require.Equal(t, tt.status, intent.Status)
			require.Equal(t, tt.command, intent.Command)
			require.Equal(t, tt.parameter, intent.Parameter)
			require.Equal(t, tt.reason, intent.Reason)
			require.Equal(t, tt.reply, intent.Raw)
		})
	}
}

func TestParseIntentReplyNonNumericSuffixNeverRecognized(t *testing.T) {
	suffixes := []string{"abc", "12a4", "1 2", "-5", "3.14", "١٢٣", "0x10", "four"}
	for _, suffix := range suffixes {
		intent := domain.ParseIntentReply("change_password|" + suffix)
		require.Equal(t, domain.IntentFailed, intent.Status, "suffix %q", suffix)
	}
}

func TestNewDeviceCommandRequest(t *testing.T) {
	addr := domain.DeviceAddress{Host: "192.168.1.20", Port: 8080}

	req, err := domain.NewDeviceCommandRequest(domain.CommandChangePassword, "4321", addr)
	require.NoError(t, err)
	require.Equal(t, "4321", req.Parameter)

	_, err = domain.NewDeviceCommandRequest(domain.CommandLock, "", addr)
	require.NoError(t, err)

	cases := []struct {
		name  string
		cmd   domain.Command
		param string
		addr  domain.DeviceAddress
	}{
		{"password not numeric", domain.CommandChangePassword, "12a4", addr},
		{"password missing", domain.CommandChangePassword, "", addr},
		{"lock with parameter", domain.CommandLock, "1234", addr},
		{"not a voice command", domain.CommandStream, "", addr},
		{"missing host", domain.CommandUnlock, "", domain.DeviceAddress{Port: 8080}},
		{"bad port", domain.CommandUnlock, "", domain.DeviceAddress{Host: "door.local", Port: 70000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewDeviceCommandRequest(tc.cmd, tc.param, tc.addr)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestDeviceAddressBaseURL(t *testing.T) {
	require.Equal(t, "http://10.0.0.5:8080", domain.DeviceAddress{Host: "10.0.0.5", Port: 8080}.BaseURL())
	require.Equal(t, "http://[fe80::1]:8080", domain.DeviceAddress{Host: "fe80::1", Port: 8080}.BaseURL())
}
