package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	aws_pkg "storefront-service/pkg/aws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusRange(t *testing.T) {
	assert.Equal(t, "2xx", statusRange(http.StatusOK))
	assert.Equal(t, "4xx", statusRange(http.StatusNotFound))
	assert.Equal(t, "5xx", statusRange(http.StatusBadGateway))
	assert.Equal(t, "unknown", statusRange(0))
}

func TestMetricsMiddleware_DisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, metrics := range []*aws_pkg.MetricsClient{nil, {}} {
		r := gin.New()
		r.Use(MetricsMiddleware(metrics, "storefront-service"))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
