package config

import (
	"log/slog"

	"github.com/skekre98/extresolve/resolve"
)

// NewResolver builds a resolver from the resolver section. logger and
// metrics may be nil.
func (rc ResolverConfig) NewResolver(logger *slog.Logger, metrics *resolve.Metrics) *resolve.Resolver {
	opts := []resolve.Option{
		resolve.WithExtension(rc.Extension),
		resolve.WithIndexFile(rc.IndexFile),
		resolve.WithDefaultFormat(resolve.Format(rc.DefaultFormat)),
		resolve.WithIndexMode(resolve.IndexMode(rc.IndexMode)),
		resolve.WithFallback(resolve.FallbackPolicy(rc.Fallback)),
		resolve.WithMetrics(metrics),
	}
	if logger != nil {
		opts = append(opts, resolve.WithLogger(logger))
	}
	return resolve.New(opts...)
}

// Describe renders the section for status endpoints.
func (rc ResolverConfig) Describe() map[string]any {
	return map[string]any{
		"root":          rc.Root,
		"extension":     rc.Extension,
		"indexFile":     rc.IndexFile,
		"defaultFormat": rc.DefaultFormat,
		"indexMode":     rc.IndexMode,
		"fallback":      rc.Fallback,
	}
}
