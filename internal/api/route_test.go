package api

import (
	"Gazette/internal/api/handler"
	"Gazette/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestSetupRouter(t *testing.T) {
	group := &HandlersGroup{
		PostHandler:     handler.NewPostHandler(nil),
		CategoryHandler: handler.NewCategoryHandler(nil),
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "gazette_test_total", Help: "test"}))
	r := SetupRouter(group, security.NewTokenManager("s", "Gazette", time.Hour), nil, reg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gazette_test_total")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader("{}")))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "writes require a token")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/categories/c-1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
