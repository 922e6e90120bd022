package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skekre98/extresolve/config"
)

// DefaultFileName is the base name FileSource looks for.
const DefaultFileName = "extresolve"

// FileSource loads configuration from YAML files.
//
// It reads <BasePath>/<FileName>.yaml (or .yml) and, when Profile is set,
// deep-merges <FileName>.<Profile>.yaml over it:
//
//	configs/
//	  extresolve.yaml
//	  extresolve.prod.yaml
//
// A missing profile file is ignored. A missing base file is an error unless
// Optional is set.
type FileSource struct {
	BasePath string
	Profile  string
	// FileName defaults to DefaultFileName.
	FileName string
	Optional bool

	// PollInterval enables Watch: files are re-checked at this interval and
	// a change in their modification time or size triggers an event.
	PollInterval time.Duration
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	name := f.fileName()

	baseFile := findYAMLFile(f.BasePath, name)
	if baseFile == "" {
		if f.Optional {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("%s.yaml in %q: %w", name, f.BasePath, os.ErrNotExist)
	}

	data, err := readYAML(baseFile)
	if err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, name+"."+f.Profile); profileFile != "" {
			overlay, err := readYAML(profileFile)
			if err != nil {
				return nil, err
			}
			mergeInto(data, overlay)
		}
	}

	return data, nil
}

// Watch polls the base and profile files every PollInterval. Without a
// PollInterval it does nothing.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	if f.PollInterval <= 0 {
		return nil
	}

	last := f.fingerprint()
	go func() {
		ticker := time.NewTicker(f.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur := f.fingerprint()
				if cur == last {
					continue
				}
				last = cur
				select {
				case ch <- config.Event{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return nil
}

func (f *FileSource) fileName() string {
	if f.FileName == "" {
		return DefaultFileName
	}
	return f.FileName
}

func (f *FileSource) fingerprint() string {
	name := f.fileName()
	var fp string
	for _, n := range []string{name, name + "." + f.Profile} {
		if n == name+"." {
			continue
		}
		p := findYAMLFile(f.BasePath, n)
		if p == "" {
			fp += "|-"
			continue
		}
		if info, err := os.Stat(p); err == nil {
			fp += fmt.Sprintf("|%s:%d:%d", p, info.ModTime().UnixNano(), info.Size())
		}
	}
	return fp
}

// findYAMLFile returns dir/basename with a .yaml or .yml extension, or "".
func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeInto(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}
