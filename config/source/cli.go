package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/skekre98/extresolve/config"
)

// CLISource loads configuration from dot-notated command-line flags.
//
//	--server.addr=:9090 --resolver.indexMode join
//	  -> {server: {addr: ":9090"}, resolver: {indexMode: "join"}}
//
// Both --flag=value and --flag value work, as does a single dash for long
// names (-server.addr=:9090). Empty values and positional arguments are
// ignored. Values stay strings.
//
// Put CLISource last so flags override every other source.
type CLISource struct {
	// Args defaults to os.Args[1:].
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseCliFlags(args)
}

// Watch is a no-op; arguments are fixed for the process lifetime.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func parseCliFlags(raw []string) (map[string]any, error) {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	registered := make(map[string]bool)
	args := normalizeArgs(raw)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name := extractFlagName(arg)
		if name == "" {
			continue
		}

		if !registered[name] {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
			registered[name] = true
		}

		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		value := flag.Value.String()
		if value == "" {
			return
		}
		setNestedValue(result, strings.Split(flag.Name, "."), value)
	})

	return result, nil
}

// normalizeArgs rewrites single-dash long flags to double-dash for pflag.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		normalized[i] = arg
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := strings.TrimPrefix(arg, "-")
			if len(rest) > 1 && rest[0] != '=' {
				normalized[i] = "-" + arg
			}
		}
	}
	return normalized
}

// extractFlagName strips dashes and any "=value" from arg.
func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	name, _, _ := strings.Cut(arg, "=")
	return name
}
