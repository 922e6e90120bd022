package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/extresolve/config"
)

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extresolve.yaml", "resolver:\n  root: /from-file\n  indexMode: join\nserver:\n  addr: \":7000\"\n")
	t.Setenv("EXTRESOLVE_RESOLVER_ROOT", "/from-env")
	t.Setenv("EXTRESOLVE_SERVER_ADDR", ":7100")

	root, mgr, err := Load(context.Background(), StackOptions{
		Dir:  dir,
		Args: []string{"--server.addr=:7200"},
	})
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, "join", root.Resolver.IndexMode, "file over defaults")
	assert.Equal(t, "/from-env", root.Resolver.Root, "env over file")
	assert.Equal(t, ":7200", root.Server.Addr, "cli over env")
	assert.Equal(t, "index.js", root.Resolver.IndexFile, "defaults fill the rest")
}

func TestLoad_EnvOverridesCamelCaseDefaults(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, root *config.Root)
	}{
		{
			name: "index mode",
			env:  map[string]string{"EXTRESOLVE_RESOLVER_INDEXMODE": "join"},
			check: func(t *testing.T, root *config.Root) {
				assert.Equal(t, "join", root.Resolver.IndexMode)
			},
		},
		{
			name: "default format and index file",
			env: map[string]string{
				"EXTRESOLVE_RESOLVER_DEFAULTFORMAT": "module",
				"EXTRESOLVE_RESOLVER_INDEXFILE":     "main.mjs",
			},
			check: func(t *testing.T, root *config.Root) {
				assert.Equal(t, "module", root.Resolver.DefaultFormat)
				assert.Equal(t, "main.mjs", root.Resolver.IndexFile)
			},
		},
		{
			name: "durations",
			env: map[string]string{
				"EXTRESOLVE_SERVER_SHUTDOWNTIMEOUT": "3s",
				"EXTRESOLVE_SERVER_READTIMEOUT":     "250ms",
			},
			check: func(t *testing.T, root *config.Root) {
				assert.Equal(t, 3*time.Second, root.Server.ShutdownTimeout)
				assert.Equal(t, 250*time.Millisecond, root.Server.ReadTimeout)
				assert.Equal(t, 10*time.Second, root.Server.WriteTimeout, "untouched default")
			},
		},
		{
			name: "invalid value is rejected",
			env:  map[string]string{"EXTRESOLVE_RESOLVER_INDEXMODE": "sideways"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			root, mgr, err := Load(context.Background(), StackOptions{Dir: t.TempDir(), Args: []string{}})
			if tt.check == nil {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer mgr.Close()
			tt.check(t, root)
		})
	}
}

func TestLoad_FileOverridesWithAnyCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extresolve.yaml", "resolver:\n  indexmode: join\n  Fallback: any\n")

	root, mgr, err := Load(context.Background(), StackOptions{Dir: dir, Args: []string{"--resolver.defaultformat=module"}})
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, "join", root.Resolver.IndexMode)
	assert.Equal(t, "any", root.Resolver.Fallback)
	assert.Equal(t, "module", root.Resolver.DefaultFormat)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	root, mgr, err := Load(context.Background(), StackOptions{Dir: t.TempDir(), Args: []string{}})
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, "concat", root.Resolver.IndexMode)
	assert.Equal(t, "notfound", root.Resolver.Fallback)
	assert.Equal(t, ":8080", root.Server.Addr)
}

func TestLoad_InvalidOverride(t *testing.T) {
	_, _, err := Load(context.Background(), StackOptions{
		Dir:  t.TempDir(),
		Args: []string{"--resolver.defaultFormat=amd"},
	})
	assert.Error(t, err)
}
