package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/poseidon/internal/registry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ registry.Observer = (*Metrics)(nil)

func TestMetricsAreIsolated(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()

	a.ObserveRegistryOp("add", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RegistryOps.WithLabelValues("add", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RegistryOps.WithLabelValues("add", "ok")))
}

func TestRegistryObserver(t *testing.T) {
	m := NewMetrics()
	r := registry.New(registry.WithObserver(m))

	require.NoError(t, r.Add("a", 1))
	require.NoError(t, r.Add("b", 2))
	_ = r.Add("a", 3)
	_ = r.Remove("missing")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistryOps.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryOps.WithLabelValues("add", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryOps.WithLabelValues("remove", "rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistryEntries))
	assert.Equal(t, int64(2), m.Snapshot().RegistryEntries)
}

func TestRecordSeed(t *testing.T) {
	m := NewMetrics()
	m.RecordSeed(4, 1, 2)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.SeededEntries.WithLabelValues("loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeededEntries.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SeededEntries.WithLabelValues("failed_files")))
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "xml").Stop("ok")
	NewTimer(m, "xml").Stop("error")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("xml", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("xml", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExportDuration))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/registry/entries/:key", func(c *gin.Context) {
		c.String(http.StatusNotFound, "missing")
	})

	for _, path := range []string{"/registry/entries/a", "/registry/entries/b", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/registry/entries/:key", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedPath, "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(3), snap.TotalErrors)
	assert.GreaterOrEqual(t, snap.AvgLatencyMS, 0.0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SetRegistryEntries(7)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "poseidon_registry_entries 7")
	assert.Contains(t, string(body), "poseidon_uptime_seconds")
}
