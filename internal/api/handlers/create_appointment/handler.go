package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-NailSalon/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingClient        = "укажите клиента для записи"
	msgSlotNotAvailable     = "выбранное время уже занято"
	msgSlotBlocked          = "выбранное время недоступно для записи"
	msgServiceNotFound      = "услуга не найдена"
	msgClientNotFound       = "клиент не найден"
	msgProfessionalNotFound = "мастер не найден"
	msgSalonClosed          = "салон не работает в выбранную дату"
	msgPastDate             = "нельзя записаться на прошедшую дату"
	msgDateTooFar           = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot      = "время не соответствует расписанию салона"
	msgTooLateToBook        = "слишком поздно для записи на это время"
	msgInvalidCoupon        = "промокод не может быть применен"
	msgInvalidWaitlist      = "заявка листа ожидания недействительна"
	msgInvalidData          = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, types.ErrInvalidTimeString):
			handlers.RespondBadRequest(w, msgInvalidTime)
		case errors.Is(err, errMissingClient):
			handlers.RespondBadRequest(w, msgMissingClient)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: client_id=%d, date=%s, time=%s",
				useCaseReq.ClientID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrSlotBlocked):
			h.logger.Warn("POST /appointments - Slot blocked: client_id=%d, date=%s, time=%s",
				useCaseReq.ClientID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: client_id=%d", useCaseReq.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointments - Professional not found: professional_id=%v", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createAppointment.ErrSalonClosed):
			h.logger.Warn("POST /appointments - Salon closed: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgSalonClosed)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Past date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidCoupon):
			h.logger.Warn("POST /appointments - Coupon rejected: client_id=%d, error=%v", useCaseReq.ClientID, err)
			handlers.RespondBadRequest(w, msgInvalidCoupon)

		case errors.Is(err, createAppointment.ErrInvalidWaitlistEntry):
			h.logger.Warn("POST /appointments - Waitlist entry rejected: client_id=%d, waitlist_id=%v",
				useCaseReq.ClientID, req.WaitlistID)
			handlers.RespondBadRequest(w, msgInvalidWaitlist)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, service_id=%d, error=%v",
				useCaseReq.ClientID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d, service_id=%d",
		result.ID, result.ClientID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result))
}
