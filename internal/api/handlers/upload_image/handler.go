package upload_image

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
)

const (
	// formField имя поля multipart формы с файлом
	formField = "image"
	// formOverhead запас на заголовки и текстовые поля формы
	formOverhead = 1 << 20
	// memoryLimit часть формы, которая держится в памяти
	memoryLimit = 4 << 20
)

const (
	msgInvalidForm      = "ожидается multipart/form-data с файлом в поле image"
	msgInvalidServiceID = "некорректный serviceId"
	msgInvalidData      = "некорректные данные изображения"
	msgUnsupportedType  = "поддерживаются только JPEG, PNG и WebP"
	msgTooLarge         = "файл слишком большой"
)

type Handler struct {
	service  GalleryService
	logger   Logger
	maxBytes int64
}

func NewHandler(service GalleryService, logger Logger, maxBytes int64) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// Handle POST /api/v1/admin/gallery
// Form fields: image (файл), caption, serviceId (опциональные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		h.logger.Warn("POST /admin/gallery - Invalid multipart form: %v", err)
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile(formField)
	if err != nil {
		h.logger.Warn("POST /admin/gallery - Missing image field: %v", err)
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}
	defer file.Close()

	req := gallery.UploadRequest{Content: file}
	req.ActorID, _ = middleware.GetUserID(r.Context())
	if caption := strings.TrimSpace(r.FormValue("caption")); caption != "" {
		req.Caption = &caption
	}
	if raw := r.FormValue("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.Upload(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrUnsupportedType):
			h.logger.Warn("POST /admin/gallery - Unsupported type: %v", err)
			handlers.RespondError(w, http.StatusUnsupportedMediaType, msgUnsupportedType)

		case errors.Is(err, gallery.ErrTooLarge):
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgTooLarge)

		case errors.Is(err, gallery.ErrInvalidInput):
			h.logger.Warn("POST /admin/gallery - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /admin/gallery - Failed to upload image: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/gallery - Image uploaded successfully: image_id=%d, size=%d", result.ID, result.SizeBytes)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
