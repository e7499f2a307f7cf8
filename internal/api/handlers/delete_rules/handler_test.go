package delete_rules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/decor-rental-service/internal/service/rules"
)

type MockRulesService struct {
	mock.Mock
}

func (m *MockRulesService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler_Handle(t *testing.T) {
	svc := new(MockRulesService)
	svc.On("Delete", mock.Anything, int64(2)).Return(nil)
	svc.On("Delete", mock.Anything, int64(3)).Return(rules.ErrRulesNotFound)
	svc.On("Delete", mock.Anything, int64(4)).Return(rules.ErrInternal)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/rules/{ruleId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/rules/2", http.StatusNoContent},
		{"/api/v1/rules/3", http.StatusNotFound},
		{"/api/v1/rules/4", http.StatusInternalServerError},
		{"/api/v1/rules/zero", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))
		assert.Equal(t, tt.wantStatus, rec.Code, tt.path)
	}
}
