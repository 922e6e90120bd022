package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/extresolve/config"
	"github.com/skekre98/extresolve/core"
	"github.com/skekre98/extresolve/web"
)

const Name = "actuator"

// Gatherer is the registry the metrics endpoint serves. When the container
// has none, the prometheus default gatherer is used.
type Gatherer = prometheus.Gatherer

// Info returns extra sections for the /info document.
type Info func() map[string]any

type module struct {
	started time.Time
}

func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[config.Root](c)

	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{},
		})
	})

	extra, _ := core.Lookup[Info](c)
	group.GET("/info", func(ctx *gin.Context) {
		body := gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"uptime":       time.Since(m.started).Round(time.Second).String(),
				"pid":          os.Getpid(),
			},
		}
		if extra != nil {
			for k, v := range extra() {
				body[k] = v
			}
		}
		ctx.JSON(http.StatusOK, body)
	})

	if cfg.Observability.Metrics.Enabled {
		gatherer, ok := core.Lookup[Gatherer](c)
		if !ok {
			gatherer = prometheus.DefaultGatherer
		}
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = cfg.Actuator.BasePath + "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return nil
}

func (m *module) Start(_ context.Context, _ core.Container) error {
	m.started = time.Now()
	return nil
}

func (m *module) Stop(_ context.Context, _ core.Container) error { return nil }
