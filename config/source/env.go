package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/extresolve/config"
)

// EnvPrefix is the default prefix for environment variables.
const EnvPrefix = "EXTRESOLVE_"

// EnvSource loads configuration from prefixed environment variables.
//
// The prefix is removed, the rest is lower-cased and split on underscores to
// build nested keys:
//
//	EXTRESOLVE_SERVER_ADDR=:9090           -> {server: {addr: ":9090"}}
//	EXTRESOLVE_RESOLVER_INDEXMODE=join     -> {resolver: {indexmode: "join"}}
//
// Values stay strings; the binder converts them. When a leaf already sits on
// a path (EXTRESOLVE_DB=x), longer variables under it (EXTRESOLVE_DB_HOST)
// are skipped.
type EnvSource struct {
	// Prefix overrides EnvPrefix.
	Prefix string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}
	return loadEnvVars(prefix, os.Environ()), nil
}

// Watch is a no-op; the environment is fixed for the process lifetime.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)

	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}

		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if key == "" {
			continue
		}
		setNestedValue(result, strings.Split(key, "_"), value)
	}

	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			// a leaf already owns this path
			return
		}
		current = nested
	}
}
