package get_item_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/decor-rental-service/internal/api/middleware"
	"github.com/m04kA/decor-rental-service/internal/service/bookings"
	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetItemBookings(ctx context.Context, req *models.GetItemBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/items/{itemId}/bookings", h.Handle)

	r := httptest.NewRequest(http.MethodGet, path, nil)
	r = r.WithContext(middleware.WithUser(r.Context(), 1, middleware.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandler_ParsesFilter(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("GetItemBookings", mock.Anything, mock.MatchedBy(func(req *models.GetItemBookingsRequest) bool {
		return req.ItemID == 7 &&
			req.Actor.IsAdmin &&
			req.From != nil && req.From.Equal(time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)) &&
			req.To != nil && req.To.Equal(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)) &&
			req.Status != nil && *req.Status == "confirmed" &&
			req.IncludeInactive
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 3}}}, nil)

	rec := serve(NewHandler(svc, nopLogger{}),
		"/api/v1/items/7/bookings?from=2026-10-23&to=2026-10-25&status=confirmed&includeInactive=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"Bad date", "/api/v1/items/7/bookings?from=23-10-2026", nil, http.StatusBadRequest},
		{"Bad flag", "/api/v1/items/7/bookings?includeInactive=maybe", nil, http.StatusBadRequest},
		{"Forbidden", "/api/v1/items/7/bookings", bookings.ErrAccessDenied, http.StatusForbidden},
		{"Invalid filter", "/api/v1/items/7/bookings", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"Internal", "/api/v1/items/7/bookings", bookings.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			if tt.err != nil {
				svc.On("GetItemBookings", mock.Anything, mock.Anything).Return(nil, tt.err)
			}
			rec := serve(NewHandler(svc, nopLogger{}), tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
