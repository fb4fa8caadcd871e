package application

import (
	"context"
	"log/slog"

	"doorlock-remote/internal/domain"
)

const UnrecognizedMessage = "could not recognize command; say one of: lock, unlock, change password, take photo"

// Dispatcher turns intents into device requests. It is the only place where
// pipeline failures become user-facing messages.
type Dispatcher struct {
	device DeviceController
	logger *slog.Logger
}

func NewDispatcher(device DeviceController, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{device: device, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, intent domain.Intent, addr domain.DeviceAddress) domain.Outcome {
	switch intent.Status {
	case domain.IntentRecognized:
	case domain.IntentUnrecognized:
		d.logger.Warn("unrecognized command", "reply", intent.Raw)
		return domain.UserMessageOutcome(UnrecognizedMessage)
	case domain.IntentFailed:
		d.logger.Warn("classification failed", "reason", intent.Reason, "reply", intent.Raw)
		return d.Fail(domain.ClassificationError(intent.Reason))
	default:
		return d.Fail(domain.ClassificationError("invalid intent"))
	}

	req, err := domain.NewDeviceCommandRequest(intent.Command, intent.Parameter, addr)
	if err != nil {
		d.logger.Warn("rejected device command", "command", intent.Command, "error", err)
		return d.Fail(err)
	}

	d.logger.Info("dispatching", "command", req.Command, "device", req.Address.String())
	outcome := d.device.Execute(ctx, req)
	if !outcome.Success() {
		d.logger.Warn("device command failed", "command", req.Command, "message", outcome.Message)
	}
	return outcome
}

func (d *Dispatcher) Fail(err error) domain.Outcome {
	return domain.UserMessageOutcome(domain.UserMessage(err))
}
