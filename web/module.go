package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/extresolve/config"
	"github.com/skekre98/extresolve/core"
)

const Name = "web"

func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

func Module(opts ...Option) core.Module {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webModule{opts: options}
}

type webModule struct {
	opts   Options
	server *http.Server
	tls    config.TLSConfig
	done   chan struct{}
}

func (m *webModule) Name() string        { return Name }
func (m *webModule) DependsOn() []string { return nil }

func (m *webModule) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	l := core.Get[*slog.Logger](c)

	r := NewEngine(l, m.opts)

	m.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	m.tls = cfg.Server.TLS

	core.Put[*gin.Engine](c, r)
	core.Put[*http.Server](c, m.server)
	return nil
}

// NewEngine builds the gin engine with the standard middleware chain and
// the routes in opts.
func NewEngine(l *slog.Logger, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(RequestID())
	r.Use(AccessLog(l))
	r.Use(RecoveryProblem(l))
	r.Use(opts.Middlewares...)

	r.NoRoute(func(c *gin.Context) {
		Problem(c, http.StatusNotFound, "no route for "+c.Request.URL.Path)
	})

	for _, reg := range opts.Routes {
		reg(r)
	}
	return r
}

// Start binds the listener before returning so that address errors fail
// the app start instead of surfacing later in a log line.
func (m *webModule) Start(ctx context.Context, c core.Container) error {
	l := core.Get[*slog.Logger](c)

	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}

	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		l.Info("http server starting", "addr", ln.Addr().String(), "tls", m.tls.Enabled)
		var err error
		if m.tls.Enabled {
			err = m.server.ServeTLS(ln, m.tls.CertFile, m.tls.KeyFile)
		} else {
			err = m.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context, c core.Container) error {
	if err := m.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if m.done != nil {
		<-m.done
	}
	return nil
}
