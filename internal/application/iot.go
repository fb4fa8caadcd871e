package application

import (
	"context"

	"doorlock-remote/internal/domain"
)

type DeviceController interface {
	Execute(ctx context.Context, req domain.DeviceCommandRequest) domain.Outcome
}
