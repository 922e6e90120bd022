package config

import "context"

// Defaults returns the base layer every service starts from.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":    "extresolve",
			"version": "dev",
		},
		"server": map[string]any{
			"addr":            ":8080",
			"readTimeout":     "5s",
			"writeTimeout":    "10s",
			"idleTimeout":     "60s",
			"shutdownTimeout": "15s",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"resolver": map[string]any{
			"root":          "/",
			"extension":     ".js",
			"indexFile":     "index.js",
			"defaultFormat": "commonjs",
			"indexMode":     "concat",
			"fallback":      "notfound",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/actuator/metrics",
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
	}
}

// StaticSource serves a fixed map, typically Defaults().
type StaticSource struct {
	name string
	data map[string]any
}

func NewStaticSource(name string, data map[string]any) *StaticSource {
	return &StaticSource{name: name, data: data}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Load(context.Context) (map[string]any, error) {
	out := make(map[string]any, len(s.data))
	mergeMaps(out, s.data)
	return out, nil
}

func (s *StaticSource) Watch(context.Context, chan<- Event) error { return nil }
