package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

var (
	ErrDuplicateModule   = errors.New("duplicate module name")
	ErrCycle             = errors.New("module dependency cycle")
	ErrMissingDependency = errors.New("missing module dependency")
)

const defaultShutdownTimeout = 15 * time.Second

type App struct {
	Modules   []Module
	Container Container
	Logger    *slog.Logger

	// ShutdownTimeout bounds the Stop phase. Zero means 15s.
	ShutdownTimeout time.Duration
}

func NewApp(logger *slog.Logger, mods ...Module) *App {
	return &App{
		Modules:   mods,
		Container: NewContainer(),
		Logger:    logger,
	}
}

// Run configures and starts every module in dependency order, blocks until
// ctx is done or the process is signalled, then stops them in reverse.
func (a *App) Run(ctx context.Context) error {
	order, err := topoSort(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return fmt.Errorf("configure %s: %w", m.Name(), err)
		}
	}

	started := 0
	var runErr error
	for _, m := range order {
		a.Logger.Info("starting module", "module", m.Name())
		if err := m.Start(ctx, a.Container); err != nil {
			runErr = fmt.Errorf("start %s: %w", m.Name(), err)
			break
		}
		started++
	}

	if runErr == nil {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)
		select {
		case <-ctx.Done():
		case sig := <-stop:
			a.Logger.Info("shutdown requested", "signal", sig.String())
		}
	}

	timeout := a.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i := started - 1; i >= 0; i-- {
		m := order[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(shutdownCtx, a.Container); err != nil && runErr == nil {
			runErr = fmt.Errorf("stop %s: %w", m.Name(), err)
		}
	}
	return runErr
}

func topoSort(mods []Module) ([]Module, error) {
	nameToMod := map[string]Module{}
	for _, m := range mods {
		if _, dup := nameToMod[m.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name())
		}
		nameToMod[m.Name()] = m
	}
	visited := map[string]bool{}
	temp := map[string]bool{}
	var out []Module
	var visit func(string) error

	visit = func(n string) error {
		if temp[n] {
			return fmt.Errorf("%w at %s", ErrCycle, n)
		}
		if visited[n] {
			return nil
		}
		temp[n] = true
		for _, d := range nameToMod[n].DependsOn() {
			if _, ok := nameToMod[d]; !ok {
				return fmt.Errorf("%w: %s depends on %s", ErrMissingDependency, n, d)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		visited[n] = true
		temp[n] = false
		out = append(out, nameToMod[n])
		return nil
	}

	// stable order
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
