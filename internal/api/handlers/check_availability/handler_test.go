package check_availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/internal/integrations/availabilityservice"
	checkAvailability "github.com/m04kA/decor-rental-service/internal/usecase/check_availability"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkAvailability.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	friday = time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/items/{itemId}/availability", h.Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_TakenIsNotAnError(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Execute", mock.Anything, &checkAvailability.Request{
		ItemID: 7, StartDate: friday, EndDate: sunday, Quantity: 2,
	}).Return(&checkAvailability.Response{
		ItemID: 7, StartDate: friday, EndDate: sunday, Quantity: 2,
		Available: false, FreeUnits: 1, TotalUnits: 3,
	}, nil)

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/items/7/availability?startDate=2026-10-23&endDate=2026-10-25&quantity=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body availabilityservice.AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Available)
	assert.Equal(t, 1, body.FreeUnits)
	assert.Equal(t, "2026-10-25", body.EndDate)
}

func TestHandler_DefaultQuantity(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *checkAvailability.Request) bool {
		return req.Quantity == 1
	})).Return(&checkAvailability.Response{Available: true, FreeUnits: 1, TotalUnits: 1}, nil)

	rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/items/7/availability?startDate=2026-10-23&endDate=2026-10-25")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Errors(t *testing.T) {
	rules := rentalcalc.DefaultRules()
	_, pickupErr := rules.ValidateWindow(friday.AddDate(0, 0, -1), sunday, friday.AddDate(0, 0, -4))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{"Pickup weekday", pickupErr, http.StatusUnprocessableEntity, rentalcalc.FieldStartDate},
		{"Unknown", fmt.Errorf("%w: catalog down", rentalcalc.ErrAvailabilityUnknown), http.StatusServiceUnavailable, ""},
		{"Item not found", checkAvailability.ErrItemNotFound, http.StatusNotFound, ""},
		{"Too far", checkAvailability.ErrDateTooFarInFuture, http.StatusUnprocessableEntity, "startDate"},
		{"Invalid input", checkAvailability.ErrInvalidInput, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(NewHandler(uc, nopLogger{}), "/api/v1/items/7/availability?startDate=2026-10-23&endDate=2026-10-25")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantField, body.Field)
		})
	}
}

func TestHandler_BadQuery(t *testing.T) {
	uc := new(MockUseCase)
	h := NewHandler(uc, nopLogger{})

	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/items/7/availability?endDate=2026-10-25").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/items/7/availability?startDate=2026-10-23&endDate=x").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/items/7/availability?startDate=2026-10-23&endDate=2026-10-25&quantity=two").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/items/0/availability?startDate=2026-10-23&endDate=2026-10-25").Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
