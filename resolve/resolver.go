package resolve

import (
	"context"
	"log/slog"
	"strings"
)

// IndexMode controls how the index file candidate is built from the base
// path.
type IndexMode string

const (
	// IndexConcat appends the index file name directly to the base, so
	// "/a/dir" probes "/a/dirindex.js". This matches the long-standing
	// behaviour hosts depend on.
	IndexConcat IndexMode = "concat"
	// IndexJoin inserts a separator, so "/a/dir" probes "/a/dir/index.js".
	IndexJoin IndexMode = "join"
)

// FallbackPolicy decides which default resolver errors advance to the next
// candidate.
type FallbackPolicy string

const (
	// FallbackNotFound only falls back on errors matching IsNotFound; any
	// other error is returned immediately.
	FallbackNotFound FallbackPolicy = "notfound"
	// FallbackAny falls back on every error from the first two candidates.
	FallbackAny FallbackPolicy = "any"
)

const (
	stageExact     = "exact"
	stageExtension = "extension"
	stageIndex     = "index"
)

// Options configures a Resolver.
type Options struct {
	Extension     string
	IndexFile     string
	DefaultFormat Format
	IndexMode     IndexMode
	Fallback      FallbackPolicy
	Logger        *slog.Logger
	Metrics       *Metrics
}

type Option func(*Options)

func WithExtension(ext string) Option {
	return func(o *Options) { o.Extension = ext }
}

func WithIndexFile(name string) Option {
	return func(o *Options) { o.IndexFile = name }
}

func WithDefaultFormat(f Format) Option {
	return func(o *Options) { o.DefaultFormat = f }
}

func WithIndexMode(m IndexMode) Option {
	return func(o *Options) { o.IndexMode = m }
}

func WithFallback(p FallbackPolicy) Option {
	return func(o *Options) { o.Fallback = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// Resolver rewrites extensionless and cache-busted specifiers into
// candidates for a DefaultResolver. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	opts Options
}

// New returns a Resolver with ".js"/"index.js" candidates, a commonjs
// default format, concatenated index paths and not-found-only fallback,
// adjusted by opts.
func New(opts ...Option) *Resolver {
	o := Options{
		Extension:     ".js",
		IndexFile:     "index.js",
		DefaultFormat: FormatCommonJS,
		IndexMode:     IndexConcat,
		Fallback:      FallbackNotFound,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(discardHandler{})
	}
	return &Resolver{opts: o}
}

// Options returns the settings the resolver was built with.
func (r *Resolver) Options() Options { return r.opts }

var std = New()

// Resolve resolves specifier with the default settings. See Resolver.Resolve.
func Resolve(ctx context.Context, specifier string, rc Context, def DefaultResolver) (Result, error) {
	return std.Resolve(ctx, specifier, rc, def)
}

// Resolve determines what specifier, imported from rc.ParentURL, refers to.
//
// Bare specifiers go straight to def and its answer is returned as is.
// Everything else is made absolute and probed as the exact path, then with
// the extension appended, then with the index file appended, keeping any
// "?query" on each candidate. The error from the index candidate is returned
// unchanged when all three miss. A successful result without a format gets
// the default format.
func (r *Resolver) Resolve(ctx context.Context, specifier string, rc Context, def DefaultResolver) (Result, error) {
	kind := Classify(specifier)
	if kind == KindBare {
		res, err := def.Resolve(ctx, specifier)
		r.opts.Metrics.observeResolution(kind, err)
		return res, err
	}

	p := absPath(specifier, rc.ParentURL)

	res, err := r.probe(ctx, def, stageExact, specifier, p)
	if err != nil && r.fallsBack(err) {
		base, query, hasQuery := splitQuery(p)
		res, err = r.probe(ctx, def, stageExtension, specifier, withQuery(base+r.opts.Extension, query, hasQuery))
		if err != nil && r.fallsBack(err) {
			res, err = r.probe(ctx, def, stageIndex, specifier, withQuery(r.indexPath(base), query, hasQuery))
		}
	}
	r.opts.Metrics.observeResolution(kind, err)
	if err != nil {
		r.opts.Logger.DebugContext(ctx, "resolve failed", "specifier", specifier, "parent", rc.ParentURL, "error", err)
		return Result{}, err
	}

	if res.Format == "" {
		res.Format = r.opts.DefaultFormat
	}
	return res, nil
}

func (r *Resolver) probe(ctx context.Context, def DefaultResolver, stage, specifier, candidate string) (Result, error) {
	res, err := def.Resolve(ctx, candidate)
	r.opts.Metrics.observeProbe(stage, err)
	r.opts.Logger.DebugContext(ctx, "resolve probe",
		"specifier", specifier,
		"stage", stage,
		"candidate", candidate,
		"ok", err == nil,
	)
	return res, err
}

func (r *Resolver) fallsBack(err error) bool {
	if r.opts.Fallback == FallbackAny {
		return true
	}
	return IsNotFound(err)
}

func (r *Resolver) indexPath(base string) string {
	if r.opts.IndexMode == IndexJoin && !strings.HasSuffix(base, "/") {
		return base + "/" + r.opts.IndexFile
	}
	return base + r.opts.IndexFile
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
