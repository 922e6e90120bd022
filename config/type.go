package config

import "context"

// Source supplies one layer of configuration as a string-keyed map.
//
// Load must be safe for concurrent use and must return data the caller may
// modify. Watch is optional: sources that cannot detect changes return nil
// immediately. A source that can watch starts its own goroutine, returns
// nil, and sends on ch whenever its data may have changed until ctx is done.
// Watch never closes ch.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
	Watch(ctx context.Context, ch chan<- Event) error
	// Name identifies the source in errors and logs ("file", "env", "cli").
	Name() string
}

// Event is sent to subscribers after a reload changed the configuration.
type Event struct {
	// ChangedKeys lists the top-level sections that differ, by their
	// `config` tag name. A change to resolver.indexMode yields ["resolver"].
	ChangedKeys []string

	OldConfig any
	NewConfig any
}

// Changed reports whether section is among the changed keys.
func (e Event) Changed(section string) bool {
	for _, k := range e.ChangedKeys {
		if k == section {
			return true
		}
	}
	return false
}
