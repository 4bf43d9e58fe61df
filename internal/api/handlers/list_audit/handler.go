package list_audit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/service/audit"
)

const (
	msgInvalidActorID = "некорректный actorId"
	msgInvalidPaging  = "некорректные limit или offset"
)

type Handler struct {
	service AuditService
	logger  Logger
}

func NewHandler(service AuditService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/audit
// Query params: entity, actorId, limit, offset (все опциональные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, err := handlers.QueryID(r, "actorId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidActorID)
		return
	}
	limit, err := handlers.QueryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	offset, err := handlers.QueryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	filter := domain.AuditFilter{
		Entity:  handlers.QueryString(r, "entity"),
		ActorID: actorID,
		Limit:   uint64(limit),
		Offset:  uint64(offset),
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, audit.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidPaging)
			return
		}
		h.logger.Error("GET /admin/audit - Failed to list audit log: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
