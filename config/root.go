package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type TLSConfig struct {
	Enabled  bool   `config:"enabled"`
	CertFile string `config:"certFile" validate:"required_if=Enabled true"`
	KeyFile  string `config:"keyFile" validate:"required_if=Enabled true"`
}

type ServerConfig struct {
	Addr            string        `config:"addr" validate:"required"`
	ReadTimeout     time.Duration `config:"readTimeout"`
	WriteTimeout    time.Duration `config:"writeTimeout"`
	IdleTimeout     time.Duration `config:"idleTimeout"`
	ShutdownTimeout time.Duration `config:"shutdownTimeout" validate:"gte=0"`
	TLS             TLSConfig     `config:"tls"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"oneof=debug info warn error"`
	Format string `config:"format" validate:"oneof=text json"`
}

// ResolverConfig mirrors the resolve.Options a service builds its resolver
// from.
type ResolverConfig struct {
	// Root is the directory the host file resolver treats as "/".
	Root          string `config:"root" validate:"required"`
	Extension     string `config:"extension" validate:"required,startswith=."`
	IndexFile     string `config:"indexFile" validate:"required"`
	DefaultFormat string `config:"defaultFormat" validate:"oneof=commonjs module json wasm builtin"`
	IndexMode     string `config:"indexMode" validate:"oneof=concat join"`
	Fallback      string `config:"fallback" validate:"oneof=notfound any"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Logging       LoggingConfig       `config:"logging"`
	Resolver      ResolverConfig      `config:"resolver"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}
