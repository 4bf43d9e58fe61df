package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-NailSalon/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-NailSalon/pkg/logger"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+query, nil))
	return rec
}

func TestHandle_ReturnsSlots(t *testing.T) {
	uc := &mockUseCase{}
	date, _ := types.ParseDate("2026-11-02")
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.ServiceID == 1 && req.ProfessionalID != nil && *req.ProfessionalID == 4 && req.Date.Equal(date)
	})).Return(&getAvailableSlots.Response{
		Date: date, ServiceID: 1,
		Slots: []domain.AvailableSlot{{StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60, AvailableSpots: 1, TotalSpots: 1}},
	}, nil)

	rec := get(NewHandler(uc, logger.NewNop()), "serviceId=1&date=2026-11-02&professionalId=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-11-02", body.Date)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "10:00", body.Slots[0].EndTime)
}

func TestHandle_BadQuery(t *testing.T) {
	h := NewHandler(&mockUseCase{}, logger.NewNop())

	assert.Contains(t, get(h, "date=2026-11-02").Body.String(), msgMissingServiceID)
	assert.Contains(t, get(h, "serviceId=x&date=2026-11-02").Body.String(), msgInvalidServiceID)
	assert.Contains(t, get(h, "serviceId=1").Body.String(), msgMissingDate)
	assert.Contains(t, get(h, "serviceId=1&date=tomorrow").Body.String(), msgInvalidDate)
	assert.Contains(t, get(h, "serviceId=1&date=2026-11-02&professionalId=-2").Body.String(), msgInvalidProfessionalID)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tc.err)
			assert.Equal(t, tc.status, get(NewHandler(uc, logger.NewNop()), "serviceId=1&date=2026-11-02").Code)
		})
	}
}
