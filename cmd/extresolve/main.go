// Command extresolve resolves module specifiers against a directory tree
// and prints the resulting URL and format for each.
//
//	extresolve [--from URL] [--root DIR] [--index-mode concat|join]
//	           [--fallback notfound|any] [--json] SPECIFIER...
//
// Resolver settings not given as flags come from EXTRESOLVE_RESOLVER_*
// environment variables, then the built-in defaults. Without --from,
// specifiers are relative to the working directory, or to the top of the
// tree when a root other than "/" is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/skekre98/extresolve/config"
	"github.com/skekre98/extresolve/config/source"
	"github.com/skekre98/extresolve/logging"
	"github.com/skekre98/extresolve/resolve"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type line struct {
	Specifier string `json:"specifier"`
	URL       string `json:"url"`
	Format    string `json:"format"`
}

// resolverFlags maps flag names to keys of the resolver config section.
var resolverFlags = map[string]string{
	"root":           "root",
	"extension":      "extension",
	"index-file":     "indexFile",
	"default-format": "defaultFormat",
	"index-mode":     "indexMode",
	"fallback":       "fallback",
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("extresolve", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: extresolve [flags] SPECIFIER...")
		flags.PrintDefaults()
	}

	from := flags.String("from", "", `parent URL specifiers are relative to (default: the working directory, or "file:///" when --root is not "/")`)
	asJSON := flags.Bool("json", false, "print one JSON object per specifier")
	verbose := flags.BoolP("verbose", "v", false, "log each probe to stderr")
	flags.String("root", "/", "directory treated as the filesystem root")
	flags.String("extension", ".js", "extension tried for extensionless specifiers")
	flags.String("index-file", "index.js", "file tried for directory specifiers")
	flags.String("default-format", "commonjs", "format when the host reports none")
	flags.String("index-mode", "concat", "index candidate construction: concat or join")
	flags.String("fallback", "notfound", "errors that continue probing: notfound or any")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	rc, err := resolverConfig(ctx, flags)
	if err != nil {
		fmt.Fprintln(stderr, "extresolve:", err)
		return 2
	}

	parent := *from
	switch {
	case parent != "":
	case rc.Root != "/":
		parent = "file:///"
	default:
		parent, err = workingDirURL()
		if err != nil {
			fmt.Fprintln(stderr, "extresolve:", err)
			return 2
		}
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.NewWriter(stderr, config.LoggingConfig{Level: level, Format: "text"})

	r := rc.NewResolver(logger, nil)
	host := resolve.NewOSFileResolver(rc.Root)
	enc := json.NewEncoder(stdout)

	for _, spec := range flags.Args() {
		res, err := r.Resolve(ctx, spec, resolve.Context{ParentURL: parent}, host)
		if err != nil {
			fmt.Fprintf(stderr, "extresolve: %s: %v\n", spec, err)
			return 1
		}
		if *asJSON {
			if err := enc.Encode(line{Specifier: spec, URL: res.URL, Format: string(res.Format)}); err != nil {
				fmt.Fprintln(stderr, "extresolve:", err)
				return 1
			}
			continue
		}
		fmt.Fprintf(stdout, "%s %s\n", res.URL, res.Format)
	}
	return 0
}

// resolverConfig layers defaults, environment and explicitly set flags, and
// validates the result with the same binder the daemon uses.
func resolverConfig(ctx context.Context, flags *pflag.FlagSet) (config.ResolverConfig, error) {
	overrides := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := resolverFlags[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	var root config.Root
	mgr, err := config.NewManager(ctx, &root, config.Options{},
		config.NewStaticSource("defaults", config.Defaults()),
		&source.EnvSource{},
		config.NewStaticSource("flags", map[string]any{"resolver": overrides}),
	)
	if err != nil {
		return config.ResolverConfig{}, err
	}
	defer mgr.Close()
	return root.Resolver, nil
}

func workingDirURL() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(wd) + "/"}
	return u.String(), nil
}
