package core

import "context"

// Module is a unit of the service that takes part in the app lifecycle.
type Module interface {
	Name() string
	// DependsOn names modules that must be configured and started first.
	DependsOn() []string
	// Configure builds the module's objects and registers them in c.
	Configure(c Container) error
	// Start begins long-running work. It must not block.
	Start(ctx context.Context, c Container) error
	// Stop shuts the module down within ctx's deadline.
	Stop(ctx context.Context, c Container) error
}
