package resolve

import "context"

// Format tags how the host should load a resolved module.
type Format string

const (
	FormatCommonJS Format = "commonjs"
	FormatModule   Format = "module"
	FormatJSON     Format = "json"
	FormatWASM     Format = "wasm"
	FormatBuiltin  Format = "builtin"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatCommonJS, FormatModule, FormatJSON, FormatWASM, FormatBuiltin:
		return true
	}
	return false
}

// Context describes the module performing the import.
type Context struct {
	// ParentURL is the importer's absolute location, either a file:// URL or
	// a plain path.
	ParentURL string `json:"parentURL"`
}

// Result is what a DefaultResolver produced for a specifier. Format may be
// empty when the default resolver could not tell.
type Result struct {
	URL    string `json:"url"`
	Format Format `json:"format,omitempty"`
}

// DefaultResolver is the host's own resolution step. Implementations must
// accept paths carrying an optional "?query" suffix and must report a
// missing candidate with an error matching ErrNotFound.
type DefaultResolver interface {
	Resolve(ctx context.Context, specifier string) (Result, error)
}

// DefaultResolverFunc adapts a plain function to DefaultResolver.
type DefaultResolverFunc func(ctx context.Context, specifier string) (Result, error)

func (f DefaultResolverFunc) Resolve(ctx context.Context, specifier string) (Result, error) {
	return f(ctx, specifier)
}
