package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockconf/pkg/config"
	"github.com/getmockd/mockconf/pkg/logging"
)

const sampleConfig = `
baseUrl: /api
server:
  host: 127.0.0.1
  port: 4999
rest:
  configs:
    - method: get
      path: /users
      routes:
        - data: [{id: 1}]
    - method: post
      path: /users
      routes:
        - data: {id: 2}
          settings: {status: 201}
graphql:
  baseUrl: /graphql
  configs:
    - operationType: query
      operationName: GetUsers
      routes:
        - data: {users: []}
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd, serveCmd, validateCmd, versionCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion_JSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	for _, key := range []string{"version", "commit", "date", "go", "os", "arch"} {
		assert.Contains(t, v, key)
	}
}

func TestVersion_Text(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mockconf ")
}

func TestValidate_Summary(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mockconf.yaml", sampleConfig)

	out, err := execute(t, "validate", path, "--json")
	require.NoError(t, err)

	var got ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Valid)
	assert.Equal(t, path, got.Path)
	require.NotNil(t, got.Rest)
	assert.Equal(t, 2, got.Rest.Configs)
	assert.Equal(t, 2, got.Rest.Routes)
	require.NotNil(t, got.GraphQL)
	assert.Equal(t, 1, got.GraphQL.Routes)
	assert.Equal(t, ServerSummary{Host: "127.0.0.1", Port: 4999}, got.Server)
	require.Len(t, got.Configs, 3)
	assert.Equal(t, "GET /users", got.Configs[0].Identity)
	assert.Equal(t, "query GetUsers", got.Configs[2].Identity)
}

func TestValidate_Table(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "api.yaml", sampleConfig)

	out, err := execute(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "POST /users")
}

func TestValidate_ReportsErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", `
rest:
  configs:
    - method: get
      path: /users
      routes:
        - settings: {status: 99}
`)

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rest.configs[0].routes[0].settings.status")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestLoadConfig_Layering(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mockconf.yaml", sampleConfig)
	t.Setenv(config.EnvHost, "0.0.0.0")
	t.Setenv(config.EnvPort, "5000")
	t.Setenv(config.EnvLogLevel, "")

	resetFlags(serveCmd)
	flags := &serveFlags{configPath: path, port: 6000, logFormat: "json"}
	require.NoError(t, serveCmd.Flags().Set("port", "6000"))
	require.NoError(t, serveCmd.Flags().Set("log-format", "json"))
	defer resetFlags(serveCmd)

	cfg, err := loadConfig(serveCmd, flags)
	require.NoError(t, err)

	// env wins over the file, flags win over env, unset flags leave it alone
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Server.Log.Format)
	assert.Equal(t, dir, cfg.Server.BaseDir)
}

func TestLoadConfig_RejectsBadPort(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mockconf.yaml", sampleConfig)
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvHost, "")

	resetFlags(serveCmd)
	require.NoError(t, serveCmd.Flags().Set("port", "70000"))
	defer resetFlags(serveCmd)

	_, err := loadConfig(serveCmd, &serveFlags{configPath: path, port: 70000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestBuildServer_Serves(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mockconf.yaml", sampleConfig)
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	cfg.Server.Port = 0

	srv := buildServer(cfg, logging.Nop(), true)
	require.NoError(t, srv.Start())
	defer func() { _ = srv.Stop() }()

	resp, err := http.Get("http://" + srv.Addr() + "/api/users")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get("http://" + srv.Addr() + "/__mockconf/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mockconf.yaml", sampleConfig)
	t.Setenv(config.EnvPort, "0")
	t.Setenv(config.EnvHost, "")
	t.Setenv(config.EnvLogLevel, "")

	resetFlags(serveCmd)
	serveCmd.SetErr(&bytes.Buffer{})
	defer serveCmd.SetErr(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runServe(ctx, serveCmd, &serveFlags{configPath: path})
	assert.NoError(t, err)
}
