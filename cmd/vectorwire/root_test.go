package main

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	stdout := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func metaServer(t *testing.T, version string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/meta" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hostname":"http://[::]:8080","version":"` + version + `"}`))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	t.Setenv("WEAVIATE_HOST", host)
	t.Setenv("WEAVIATE_HTTP_PORT", port)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"features", "server-version", "config"})
}

func TestFeatures_OfflineVersion(t *testing.T) {
	out, err := run(t, "features", "--server-version", "1.26.3")
	require.NoError(t, err)

	assert.Contains(t, out, "server version 1.26.3")
	lines := strings.Split(out, "\n")
	find := func(prefix string) string {
		for _, l := range lines {
			if strings.HasPrefix(l, prefix) {
				return l
			}
		}
		return ""
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(find("Multi-target vector search")), "yes"))
	assert.Contains(t, find("Multi-target vector search"), "1.26.0")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(find("Multiple vectors per target")), "no"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(find("The bm25 search operator")), "no"))
}

func TestFeatures_InvalidVersion(t *testing.T) {
	_, err := run(t, "features", "--server-version", "one.two")
	require.Error(t, err)
}

func TestFeatures_AsksServer(t *testing.T) {
	metaServer(t, "1.31.2")

	out, err := run(t, "features")
	require.NoError(t, err)
	assert.Contains(t, out, "server version 1.31.2")
	assert.NotContains(t, out, " no\n")
}

func TestServerVersion(t *testing.T) {
	metaServer(t, "1.25.4")

	out, err := run(t, "server-version")
	require.NoError(t, err)
	assert.Equal(t, "1.25.4\n", out)
}

func TestServerVersion_Unreachable(t *testing.T) {
	t.Setenv("WEAVIATE_HOST", "127.0.0.1")
	t.Setenv("WEAVIATE_HTTP_PORT", "1")
	t.Setenv("WEAVIATE_CONNECT_TIMEOUT", "1s")

	_, err := run(t, "server-version")
	require.Error(t, err)
}

func TestConfig_MasksSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weaviate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: db.internal\napi_key: s3cret\n"), 0o600))

	out, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "db.internal")
	assert.Contains(t, out, "***")
	assert.NotContains(t, out, "s3cret")
}

func TestConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEAVIATE_GRPC_PORT=6123\n"), 0o600))
	t.Setenv("WEAVIATE_GRPC_PORT", "")
	require.NoError(t, os.Unsetenv("WEAVIATE_GRPC_PORT"))

	out, err := run(t, "config", "--env-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6123")
}
