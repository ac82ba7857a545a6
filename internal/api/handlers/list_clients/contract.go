package list_clients

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/service/profiles/models"
)

type ProfileService interface {
	ListClients(ctx context.Context) (*models.ProfileListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
