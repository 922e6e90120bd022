package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/skekre98/extresolve/actuator"
	"github.com/skekre98/extresolve/config"
	"github.com/skekre98/extresolve/config/source"
	"github.com/skekre98/extresolve/core"
	"github.com/skekre98/extresolve/logging"
	"github.com/skekre98/extresolve/resolve"
	"github.com/skekre98/extresolve/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "resolverd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1) bootstrap flags; everything else goes to the config CLI layer
	flags := pflag.NewFlagSet("resolverd", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	dir := flags.String("config-dir", "configs", "directory holding extresolve.yaml")
	profile := flags.String("profile", os.Getenv("EXTRESOLVE_PROFILE"), "config profile overlay")
	reload := flags.Duration("reload-interval", 0, "poll config files at this interval (0 disables)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			flags.SetOutput(os.Stderr)
			flags.PrintDefaults()
			return nil
		}
		return err
	}

	// 2) config
	ctx := context.Background()
	_, mgr, err := source.Load(ctx, source.StackOptions{
		Dir:     *dir,
		Profile: *profile,
		Args:    args,
		Reload:  *reload,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	defer mgr.Close()

	var root config.Root
	if err := mgr.Snapshot(&root); err != nil {
		return err
	}

	// 3) logging
	logger := logging.New(root.Logging).With(
		slog.String("app", root.App.Name),
		slog.String("version", root.App.Version),
	)

	// 4) metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := resolve.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// 5) resolver, swapped on config reload
	var (
		current atomic.Pointer[resolve.Resolver]
		active  atomic.Pointer[config.ResolverConfig]
	)
	initial := root.Resolver
	current.Store(initial.NewResolver(logger, metrics))
	active.Store(&initial)
	host := resolve.NewOSFileResolver(initial.Root)

	events := make(chan config.Event, 1)
	mgr.Subscribe(events)
	go func() {
		for evt := range events {
			if !evt.Changed("resolver") {
				continue
			}
			next, ok := evt.NewConfig.(*config.Root)
			if !ok {
				continue
			}
			rc := next.Resolver
			if rc.Root != initial.Root {
				logger.Warn("resolver root change needs a restart", "root", rc.Root)
			}
			current.Store(rc.NewResolver(logger, metrics))
			active.Store(&rc)
			logger.Info("resolver reconfigured",
				"indexMode", rc.IndexMode,
				"fallback", rc.Fallback,
			)
		}
	}()

	// 6) compose the app
	app := core.NewApp(
		logger,
		web.Module(
			web.WithRoutes(web.ResolveRoutes(current.Load, host, logger)),
		),
		actuator.Module(),
	)
	app.ShutdownTimeout = root.Server.ShutdownTimeout

	// 7) seed shared objects into the container
	core.Put(app.Container, root)
	core.Put(app.Container, logger)
	core.Put[prometheus.Gatherer](app.Container, reg)
	core.Put(app.Container, actuator.Info(func() map[string]any {
		return map[string]any{"resolver": active.Load().Describe()}
	}))

	// 8) run
	if err := app.Run(ctx); err != nil {
		logger.Error("app error", "error", err)
		return err
	}
	return nil
}
