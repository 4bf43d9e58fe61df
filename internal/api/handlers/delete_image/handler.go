package delete_image

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
)

const (
	msgInvalidImageID = "некорректный ID изображения"
	msgNotFound       = "изображение не найдено"
)

type Handler struct {
	service GalleryService
	logger  Logger
}

func NewHandler(service GalleryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/gallery/{imageId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	imageID, err := handlers.PathID(r, "imageId")
	if err != nil {
		h.logger.Warn("DELETE /admin/gallery/{id} - Invalid image ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidImageID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), imageID, actorID); err != nil {
		if errors.Is(err, gallery.ErrImageNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/gallery/{id} - Failed to delete image: image_id=%d, error=%v", imageID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/gallery/{id} - Image deleted successfully: image_id=%d", imageID)
	handlers.RespondNoContent(w)
}
