package actuator

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/extresolve/config"
	"github.com/skekre98/extresolve/core"
	"github.com/skekre98/extresolve/web"
)

func configure(t *testing.T, metrics bool) (*gin.Engine, prometheus.Counter) {
	t.Helper()

	var root config.Root
	require.NoError(t, config.NewBinder().Bind(config.Defaults(), &root))
	root.Observability.Metrics.Enabled = metrics

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "extresolve_test_total", Help: "test"})
	reg.MustRegister(counter)

	c := core.NewContainer()
	core.Put(c, root)
	core.Put(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	core.Put[prometheus.Gatherer](c, reg)
	core.Put(c, Info(func() map[string]any {
		return map[string]any{"resolver": map[string]any{"indexMode": root.Resolver.IndexMode}}
	}))

	w := web.Module()
	require.NoError(t, w.Configure(c))
	a := Module()
	require.NoError(t, a.Configure(c))
	require.NoError(t, a.Start(context.Background(), c))

	return web.Engine(c), counter
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestActuator_HealthAndInfo(t *testing.T) {
	engine, _ := configure(t, false)

	rec := get(engine, "/actuator/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"UP"`)

	rec = get(engine, "/actuator/info")
	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "extresolve", info["app"].(map[string]any)["name"])
	assert.Equal(t, "concat", info["resolver"].(map[string]any)["indexMode"])

	assert.Equal(t, http.StatusNotFound, get(engine, "/actuator/metrics").Code, "metrics disabled")
}

func TestActuator_MetricsServeRegistry(t *testing.T) {
	engine, counter := configure(t, true)
	counter.Add(3)

	rec := get(engine, "/actuator/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "extresolve_test_total 3")
}
