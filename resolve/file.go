package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	json "github.com/goccy/go-json"
)

const builtinScheme = "node:"

// FileResolver is a DefaultResolver backed by a filesystem. Absolute paths
// and file:// URLs are looked up relative to the root of fsys, so "/a/b.js"
// names "a/b.js" inside it.
type FileResolver struct {
	fsys fs.FS
}

// NewFileResolver returns a resolver that probes fsys.
func NewFileResolver(fsys fs.FS) *FileResolver {
	return &FileResolver{fsys: fsys}
}

// NewOSFileResolver returns a resolver over the directory tree at root.
func NewOSFileResolver(root string) *FileResolver {
	if root == "" {
		root = "/"
	}
	return NewFileResolver(os.DirFS(root))
}

// Resolve locates specifier on the filesystem. Any "?query" is ignored for
// the lookup and kept on the returned URL.
func (r *FileResolver) Resolve(ctx context.Context, specifier string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if strings.HasPrefix(specifier, builtinScheme) {
		return Result{URL: specifier, Format: FormatBuiltin}, nil
	}

	p := stripFileScheme(specifier)
	if !strings.HasPrefix(p, "/") {
		return Result{}, &NotFoundError{Specifier: specifier}
	}

	p, query, hasQuery := splitQuery(p)
	trailingSlash := strings.HasSuffix(p, "/") && p != "/"
	clean := path.Clean(p)
	name := fsName(clean)

	info, err := fs.Stat(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, &NotFoundError{Specifier: specifier, Path: clean}
		}
		return Result{}, fmt.Errorf("stat %s: %w", clean, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%s: %w", clean, ErrDirectoryImport)
	}
	if trailingSlash {
		return Result{}, &NotFoundError{Specifier: specifier, Path: p}
	}

	format, err := r.formatOf(name)
	if err != nil {
		return Result{}, err
	}

	return Result{
		URL:    withQuery(fileURL(clean), query, hasQuery),
		Format: format,
	}, nil
}

func (r *FileResolver) formatOf(name string) (Format, error) {
	switch path.Ext(name) {
	case ".mjs":
		return FormatModule, nil
	case ".cjs":
		return FormatCommonJS, nil
	case ".json":
		return FormatJSON, nil
	case ".wasm":
		return FormatWASM, nil
	case ".js":
		return r.packageType(path.Dir(name))
	}
	return "", nil
}

type packageManifest struct {
	Type string `json:"type"`
}

// packageType reads the "type" field of the nearest package.json at or above
// dir. An empty format means no manifest declared one.
func (r *FileResolver) packageType(dir string) (Format, error) {
	for {
		manifest := path.Join(dir, "package.json")
		b, err := fs.ReadFile(r.fsys, manifest)
		switch {
		case err == nil:
			var pkg packageManifest
			if err := json.Unmarshal(b, &pkg); err != nil {
				return "", fmt.Errorf("parse /%s: %w", manifest, err)
			}
			switch pkg.Type {
			case "module":
				return FormatModule, nil
			case "commonjs":
				return FormatCommonJS, nil
			}
			return "", nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("read /%s: %w", manifest, err)
		}
		if dir == "." {
			return "", nil
		}
		dir = path.Dir(dir)
	}
}

// fsName converts a cleaned absolute path to an fs.FS name.
func fsName(clean string) string {
	name := strings.TrimPrefix(clean, "/")
	if name == "" {
		return "."
	}
	return name
}
