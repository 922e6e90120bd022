package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager loads configuration from an ordered list of sources, binds it into
// a caller-owned struct and tells subscribers when a reload changes it.
//
// Later sources override earlier ones. A reload that fails to load, decode
// or validate leaves the current configuration untouched. All methods are
// safe for concurrent use.
type Manager struct {
	sources []Source
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source and reloads whenever one of
	// them reports a change.
	AutoReload bool

	// Logger receives reload failures from watchers. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// NewManager binds the sources into cfg, a pointer to a struct, and returns
// a Manager that keeps it current. The initial load must succeed.
//
//	var root config.Root
//	mgr, err := config.NewManager(ctx, &root, config.Options{},
//	    config.NewStaticSource("defaults", config.Defaults()),
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	)
func NewManager(ctx context.Context, cfg any, opts Options, sources ...Source) (*Manager, error) {
	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("config: target must be a pointer to a struct, got %T", cfg)
	}

	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  opts.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	if err := m.Reload(ctx); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		m.startWatchers()
	}
	return m, nil
}

// Reload merges every source, binds the result into a fresh value and, if
// that succeeds, copies it over the managed struct. Subscribers are notified
// only when something changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	typ := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(typ).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(typ).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Snapshot copies the managed configuration into dst, which must be a
// pointer of the same type passed to NewManager. Use it instead of reading
// the managed struct directly while auto reload is on.
func (m *Manager) Snapshot(dst any) error {
	dv := reflect.ValueOf(dst)
	if dv.Type() != reflect.TypeOf(m.config) {
		return fmt.Errorf("config: snapshot target %T does not match %T", dst, m.config)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dv.Elem().Set(reflect.ValueOf(m.config).Elem())
	return nil
}

// Subscribe registers ch for change events. Delivery never blocks: when ch
// is full the event is dropped, so give it a buffer. The Manager never
// closes ch.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close stops the watchers started by AutoReload and waits for them.
func (m *Manager) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	return nil
}

func (m *Manager) startWatchers() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	for _, src := range m.sources {
		ch := make(chan Event, 1)
		if err := src.Watch(ctx, ch); err != nil {
			m.logger.Warn("config watch unavailable", "source", src.Name(), "error", err)
			continue
		}

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					if err := m.Reload(ctx); err != nil && ctx.Err() == nil {
						m.logger.Error("config reload failed", "source", src.Name(), "error", err)
					}
				}
			}
		}()
	}
}
