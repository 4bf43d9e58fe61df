package list_audit

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/service/audit"
)

type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) (*audit.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
