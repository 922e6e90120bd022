package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/skekre98/extresolve/config"
)

// StackOptions selects where the standard source stack reads from.
type StackOptions struct {
	// Dir holds extresolve.yaml. Empty means the working directory.
	Dir     string
	Profile string
	// Args are the command-line arguments for the CLI layer; nil means
	// os.Args[1:].
	Args []string
	// Reload re-reads the YAML files at this interval; zero disables it.
	Reload time.Duration
	Logger *slog.Logger
}

// Stack returns defaults, file, env and CLI sources in precedence order.
func Stack(opts StackOptions) []config.Source {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return []config.Source{
		config.NewStaticSource("defaults", config.Defaults()),
		&FileSource{BasePath: dir, Profile: opts.Profile, Optional: true, PollInterval: opts.Reload},
		&EnvSource{},
		&CLISource{Args: opts.Args},
	}
}

// Load binds the standard stack into a config.Root and returns the Manager
// that keeps it current.
func Load(ctx context.Context, opts StackOptions) (*config.Root, *config.Manager, error) {
	var root config.Root
	mgr, err := config.NewManager(ctx, &root, config.Options{
		AutoReload: opts.Reload > 0,
		Logger:     opts.Logger,
	}, Stack(opts)...)
	if err != nil {
		return nil, nil, err
	}
	return &root, mgr, nil
}
