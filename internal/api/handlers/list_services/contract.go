package list_services

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/service/catalog/models"
)

type CatalogService interface {
	List(ctx context.Context, filter domain.ServiceFilter) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
