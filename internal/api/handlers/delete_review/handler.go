package delete_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/reviews"
)

const (
	msgInvalidReviewID = "некорректный ID отзыва"
	msgNotFound        = "отзыв не найден"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/reviews/{reviewId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reviewID, err := handlers.PathID(r, "reviewId")
	if err != nil {
		h.logger.Warn("DELETE /admin/reviews/{id} - Invalid review ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReviewID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), reviewID, actorID); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/reviews/{id} - Failed: review_id=%d, error=%v", reviewID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/reviews/{id} - Review deleted: review_id=%d", reviewID)
	handlers.RespondNoContent(w)
}
