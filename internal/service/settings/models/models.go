package models

import (
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// Request модели

// UpsertConfigRequest запрос на сохранение конфигурации
// ServiceID = nil - глобальная конфигурация салона
// Незаданные поля берутся из текущей действующей конфигурации
type UpsertConfigRequest struct {
	ActorID                   int64  `json:"-"`
	ServiceID                 *int64 `json:"serviceId,omitempty"`
	SlotDurationMinutes       *int   `json:"slotDurationMinutes,omitempty"`
	MaxConcurrentBookings     *int   `json:"maxConcurrentBookings,omitempty"`
	AdvanceBookingDays        *int   `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	MinBookingNoticeMinutes   *int   `json:"minBookingNoticeMinutes,omitempty"`
	CancellationNoticeMinutes *int   `json:"cancellationNoticeMinutes,omitempty"`
	WaitlistHoldMinutes       *int   `json:"waitlistHoldMinutes,omitempty"`
}

// BusinessHoursRequest часы работы на один день недели
type BusinessHoursRequest struct {
	Weekday   time.Weekday     `json:"weekday"` // 0 = воскресенье
	IsOpen    bool             `json:"isOpen"`
	OpenTime  types.TimeString `json:"openTime,omitempty"`
	CloseTime types.TimeString `json:"closeTime,omitempty"`
}

// UpdateBusinessHoursRequest запрос на обновление расписания недели
type UpdateBusinessHoursRequest struct {
	ActorID int64                  `json:"-"`
	Days    []BusinessHoursRequest `json:"days"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации расписания
type ConfigResponse struct {
	ID                        int64     `json:"id,omitempty"`
	ServiceID                 *int64    `json:"serviceId,omitempty"`
	SlotDurationMinutes       int       `json:"slotDurationMinutes"`
	MaxConcurrentBookings     int       `json:"maxConcurrentBookings"`
	AdvanceBookingDays        int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes   int       `json:"minBookingNoticeMinutes"`
	CancellationNoticeMinutes int       `json:"cancellationNoticeMinutes"`
	WaitlistHoldMinutes       int       `json:"waitlistHoldMinutes"`
	IsDefault                 bool      `json:"isDefault"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// BusinessHoursResponse часы работы на день недели
type BusinessHoursResponse struct {
	Weekday   time.Weekday `json:"weekday"`
	DayName   string       `json:"dayName"`
	IsOpen    bool         `json:"isOpen"`
	OpenTime  string       `json:"openTime,omitempty"`
	CloseTime string       `json:"closeTime,omitempty"`
}

// WeekResponse расписание недели
type WeekResponse struct {
	Days []BusinessHoursResponse `json:"days"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SchedulingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                        c.ID,
		ServiceID:                 c.ServiceID,
		SlotDurationMinutes:       c.SlotDurationMinutes,
		MaxConcurrentBookings:     c.MaxConcurrentBookings,
		AdvanceBookingDays:        c.AdvanceBookingDays,
		MinBookingNoticeMinutes:   c.MinBookingNoticeMinutes,
		CancellationNoticeMinutes: c.CancellationNoticeMinutes,
		WaitlistHoldMinutes:       c.WaitlistHoldMinutes,
		IsDefault:                 c.ID == 0,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.SchedulingConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs = append(resp.Configs, *configResp)
		}
	}

	return resp
}

// ApplyToConfig применяет обновления к конфигурации
// Обновляются только непустые (not nil) поля из request
func (r *UpsertConfigRequest) ApplyToConfig(config *domain.SchedulingConfig) {
	config.ServiceID = r.ServiceID
	if r.SlotDurationMinutes != nil {
		config.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.MaxConcurrentBookings != nil {
		config.MaxConcurrentBookings = *r.MaxConcurrentBookings
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.CancellationNoticeMinutes != nil {
		config.CancellationNoticeMinutes = *r.CancellationNoticeMinutes
	}
	if r.WaitlistHoldMinutes != nil {
		config.WaitlistHoldMinutes = *r.WaitlistHoldMinutes
	}
}

// ToDomain конвертирует день недели в domain модель
func (r BusinessHoursRequest) ToDomain() *domain.BusinessHours {
	bh := &domain.BusinessHours{Weekday: r.Weekday, IsOpen: r.IsOpen}
	if r.IsOpen {
		bh.OpenTime = r.OpenTime
		bh.CloseTime = r.CloseTime
	}
	return bh
}

// FromDomainWeek конвертирует расписание недели в DTO, дни отсортированы с понедельника
func FromDomainWeek(week []*domain.BusinessHours) *WeekResponse {
	byDay := make(map[time.Weekday]*domain.BusinessHours, len(week))
	for _, bh := range week {
		byDay[bh.Weekday] = bh
	}

	resp := &WeekResponse{Days: make([]BusinessHoursResponse, 0, 7)}
	for i := 1; i <= 7; i++ {
		day := time.Weekday(i % 7)
		item := BusinessHoursResponse{Weekday: day, DayName: day.String()}
		if bh, ok := byDay[day]; ok && bh.IsOpen {
			item.IsOpen = true
			item.OpenTime = bh.OpenTime.String()
			item.CloseTime = bh.CloseTime.String()
		}
		resp.Days = append(resp.Days, item)
	}
	return resp
}
