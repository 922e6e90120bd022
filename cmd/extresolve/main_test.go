package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestRun(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/main.js":          "",
		"app/util.js":          "",
		"app/lib/index.js":     "",
		"app/esm/index.js":     "",
		"app/esm/package.json": `{"type":"module"}`,
	})

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "text output",
			args:     []string{"./util", "./esm/", "node:fs"},
			wantCode: 0,
			wantOut: "file:///app/util.js commonjs\n" +
				"file:///app/esm/index.js module\n" +
				"node:fs builtin\n",
		},
		{
			name:     "concat index needs trailing slash",
			args:     []string{"./lib"},
			wantCode: 1,
			wantErr:  "./lib",
		},
		{
			name:     "join index",
			args:     []string{"--index-mode", "join", "./lib"},
			wantCode: 0,
			wantOut:  "file:///app/lib/index.js commonjs\n",
		},
		{
			name:     "stops at first failure",
			args:     []string{"./util", "./missing", "./esm/"},
			wantCode: 1,
			wantOut:  "file:///app/util.js commonjs\n",
			wantErr:  "./missing",
		},
		{
			name:     "invalid index mode",
			args:     []string{"--index-mode", "sideways", "./util"},
			wantCode: 2,
			wantErr:  "IndexMode",
		},
		{
			name:     "no specifiers",
			args:     nil,
			wantCode: 2,
			wantErr:  "usage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"--root", dir, "--from", "file:///app/main.js"}, tt.args...)
			if tt.args == nil {
				args = []string{"--root", dir}
			}

			code := run(context.Background(), args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			assert.Equal(t, tt.wantOut, stdout.String())
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/main.js": "",
		"app/data.js": "",
	})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--root", dir, "--from", "file:///app/main.js", "--json", "./data?v=2", "node:path",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	var first, second line
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, line{Specifier: "./data?v=2", URL: "file:///app/data.js?v=2", Format: "commonjs"}, first)
	assert.Equal(t, line{Specifier: "node:path", URL: "node:path", Format: "builtin"}, second)
}

func TestRun_EnvSelectsIndexMode(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/main.js":      "",
		"app/lib/index.js": "",
	})
	t.Setenv("EXTRESOLVE_RESOLVER_INDEXMODE", "join")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--root", dir, "--from", "file:///app/main.js", "./lib"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "file:///app/lib/index.js commonjs\n", stdout.String())

	stdout.Reset()
	code = run(context.Background(), []string{"--root", dir, "--from", "file:///app/main.js", "--index-mode", "concat", "./lib"}, &stdout, &stderr)
	assert.Equal(t, 1, code, "flag wins over env")
}

func TestRun_RootWithoutFromResolvesFromTreeTop(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/util.js":       "",
		"app/with space.js": "",
	})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--root", dir, "./app/util", "/app/with space"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "file:///app/util.js commonjs\nfile:///app/with%20space.js commonjs\n", stdout.String())
}
