package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewares(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(TracerMiddleware("blautech-admin"), MeterMiddleware("blautech-admin"))
	router.GET("/api/events/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{name: "matched route", target: "/api/events/1", expectedStatus: http.StatusNoContent},
		{name: "unmatched route", target: "/nowhere", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCollectionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		route    string
		expected string
	}{
		{route: "/api/events/:id", expected: "events"},
		{route: "/api/student-clubs", expected: "student-clubs"},
		{route: "/api/dashboard", expected: "dashboard"},
		{route: "/api/", expected: "none"},
		{route: "/healthz", expected: "none"},
		{route: "unmatched", expected: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, collectionOf(tt.route))
		})
	}
}

func TestIsWrite(t *testing.T) {
	t.Parallel()

	assert.True(t, isWrite(http.MethodPost))
	assert.True(t, isWrite(http.MethodDelete))
	assert.False(t, isWrite(http.MethodGet))
	assert.False(t, isWrite(http.MethodHead))
}
