package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFetchAndRefresh(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFetch("products", nil, 20*time.Millisecond)
	m.RecordFetch("products", errors.New("down"), time.Millisecond)
	m.RecordRefresh(true, 12)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFetchesTotal.WithLabelValues("products", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFetchesTotal.WithLabelValues("products", "error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.SnapshotEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotRefreshesTotal.WithLabelValues("success")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/logs", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/logs", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
