package update_rules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/decor-rental-service/internal/service/rules"
	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
)

type MockRulesService struct {
	mock.Mock
}

func (m *MockRulesService) Update(ctx context.Context, id int64, req *models.UpdateRulesRequest) (*models.RulesResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RulesResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func put(h *Handler, path, payload string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/rules/{ruleId}", h.Handle).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(payload)))
	return rec
}

func TestHandler_PartialUpdate(t *testing.T) {
	svc := new(MockRulesService)
	svc.On("Update", mock.Anything, int64(2), mock.MatchedBy(func(req *models.UpdateRulesRequest) bool {
		return req.DepositRatePercent != nil && req.DepositRatePercent.String() == "25" &&
			req.PickupWeekday == nil && req.TaxRatePercent == nil
	})).Return(&models.RulesResponse{ID: 2, DepositRatePercent: "25"}, nil)

	rec := put(NewHandler(svc, nopLogger{}), "/api/v1/rules/2", `{"depositRatePercent":"25"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Not found", rules.ErrRulesNotFound, http.StatusNotFound},
		{"Invalid", rules.ErrInvalidInput, http.StatusBadRequest},
		{"Internal", rules.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRulesService)
			svc.On("Update", mock.Anything, int64(2), mock.Anything).Return(nil, tt.err)
			rec := put(NewHandler(svc, nopLogger{}), "/api/v1/rules/2", `{"defaultRentalDays":3}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
