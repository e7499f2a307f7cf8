package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/decor-rental-service/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var (
		gotUser  int64
		gotAdmin bool
	)
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserID(r.Context())
		gotAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantUser   int64
		wantAdmin  bool
	}{
		{"Customer", "42", "", http.StatusNoContent, 42, false},
		{"Admin", "1", "Admin", http.StatusNoContent, 1, true},
		{"Missing header", "", "", http.StatusUnauthorized, 0, false},
		{"Not a number", "abc", "", http.StatusUnauthorized, 0, false},
		{"Negative", "-5", "", http.StatusUnauthorized, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotAdmin = 0, false
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, r)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			assert.Equal(t, tt.wantAdmin, gotAdmin)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := Auth(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	r := httptest.NewRequest(http.MethodPost, "/rules", nil)
	r.Header.Set(HeaderUserID, "42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r.Header.Set(HeaderUserRole, RoleAdmin)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/items/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/8", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/{itemId}", "418")))
}

type captureLogger struct{ lines []string }

func (l *captureLogger) Error(format string, v ...interface{}) { l.lines = append(l.lines, format) }

func TestRecovery(t *testing.T) {
	log := &captureLogger{}
	handler := Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, log.lines, 1)
	assert.True(t, strings.HasPrefix(log.lines[0], "PANIC RECOVERED"))
}
