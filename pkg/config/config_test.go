package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Name: "traffic-extrema", Mode: "production", LogLevel: "info"},
		Monitor: MonitorConfig{Scheme: "https", Server: "prtg.example.com", Timeout: time.Minute},
		Query:   QueryConfig{Avg: "3600", StartDate: "2024-01-01-00-00-00", EndDate: "2024-01-31-00-00-00", Max: "1", Thr: "1"},
		Objects: []string{"2001", "2002"},
		Runner:  RunnerConfig{Concurrency: 1},
		Output:  OutputConfig{Dir: "output"},
		API:     APIConfig{Port: 8080},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "traffic-extrema", cfg.App.Name)
	assert.Equal(t, "https", cfg.Monitor.Scheme)
	assert.Equal(t, 60*time.Second, cfg.Monitor.Timeout)
	assert.Equal(t, 1, cfg.Runner.Concurrency)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.True(t, cfg.Query.ComputeMax())
	assert.False(t, cfg.Query.CheckThresholds())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
app:
  log_level: debug
monitor:
  server: prtg.example.com
  username: ops
  timeout: 30s
objects:
  - "2001"
  - "2002"
runner:
  concurrency: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "traffic-extrema", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "https", cfg.Monitor.Scheme)
	assert.Equal(t, "prtg.example.com", cfg.Monitor.Server)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Timeout)
	assert.Equal(t, []string{"2001", "2002"}, cfg.Objects)
	assert.Equal(t, 4, cfg.Runner.Concurrency)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.True(t, cfg.Output.Echo)
	assert.Equal(t, "1", cfg.Query.Max)
	assert.Equal(t, "https://prtg.example.com", cfg.Monitor.BaseURL())
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "monitor:\n  server: from-file\n")
	t.Setenv("EXTREMA_MONITOR_SERVER", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Monitor.Server)
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	server := writeFile(t, dir, "server_address.txt", "server=prtg.example.com\nusername=ops\npasshash=1815236212\n")
	flags := writeFile(t, dir, "min_max_flags.txt", `avg=3600
sdate=2024-01-01-00-00-00
edate=2024-01-31-00-00-00
id3=3003
max=1
id1=1001
thr=1
id2=2002
`)

	cfg := validConfig()
	require.NoError(t, LoadInputs(cfg, server, flags))

	assert.Equal(t, "prtg.example.com", cfg.Monitor.Server)
	assert.Equal(t, "ops", cfg.Monitor.Username)
	assert.Equal(t, "1815236212", cfg.Monitor.Passhash)
	assert.Equal(t, "3600", cfg.Query.Avg)
	assert.Equal(t, "2024-01-01-00-00-00", cfg.Query.StartDate)
	assert.Equal(t, "2024-01-31-00-00-00", cfg.Query.EndDate)
	assert.True(t, cfg.Query.ComputeMax())
	assert.True(t, cfg.Query.CheckThresholds())
	// File order, not key order
	assert.Equal(t, []string{"3003", "1001", "2002"}, cfg.Objects)
}

func TestLoadInputs_RepeatedIDKeysKeepEveryObject(t *testing.T) {
	dir := t.TempDir()
	flags := writeFile(t, dir, "flags.txt", "id=1001\nid=1002\nid=1003\n")

	cfg := validConfig()
	require.NoError(t, LoadInputs(cfg, "", flags))
	assert.Equal(t, []string{"1001", "1002", "1003"}, cfg.Objects)
}

func TestLoadInputs_ValuesAreVerbatim(t *testing.T) {
	dir := t.TempDir()
	server := writeFile(t, dir, "server.txt", `server=prtg.example.com:8443
username=DOMAIN\ops
passhash=ab=cd
`)

	cfg := validConfig()
	require.NoError(t, LoadInputs(cfg, server, ""))
	assert.Equal(t, "prtg.example.com:8443", cfg.Monitor.Server)
	assert.Equal(t, `DOMAIN\ops`, cfg.Monitor.Username)
	assert.Equal(t, "ab=cd", cfg.Monitor.Passhash)
}

func TestParseInputFile(t *testing.T) {
	in, err := parseInputFile(strings.NewReader("\ufeffmax=0\n\n  thr=1  \nno separator\nmax=1\nuser: ops\n"))
	require.NoError(t, err)

	assert.Equal(t, inputFile{
		{key: "max", value: "0"},
		{key: "thr", value: "1"},
		{key: "max", value: "1"},
	}, in)

	v, ok := in.lookup("max")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = in.lookup("user")
	assert.False(t, ok)
}

func TestLoadInputs_MissingFilesKeepConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig()

	require.NoError(t, LoadInputs(cfg, filepath.Join(dir, "nope.txt"), filepath.Join(dir, "nope2.txt")))
	assert.Equal(t, "prtg.example.com", cfg.Monitor.Server)
	assert.Equal(t, []string{"2001", "2002"}, cfg.Objects)

	require.NoError(t, LoadInputs(cfg, "", ""))
}

func TestLoadInputs_NoIDsKeepsObjects(t *testing.T) {
	dir := t.TempDir()
	flags := writeFile(t, dir, "flags.txt", "max=0\n")

	cfg := validConfig()
	require.NoError(t, LoadInputs(cfg, "", flags))
	assert.False(t, cfg.Query.ComputeMax())
	assert.Equal(t, []string{"2001", "2002"}, cfg.Objects)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing server", func(c *Config) { c.Monitor.Server = "" }},
		{"bad scheme", func(c *Config) { c.Monitor.Scheme = "ftp" }},
		{"zero timeout", func(c *Config) { c.Monitor.Timeout = 0 }},
		{"bad mode", func(c *Config) { c.App.Mode = "staging" }},
		{"bad log level", func(c *Config) { c.App.LogLevel = "trace" }},
		{"bad avg", func(c *Config) { c.Query.Avg = "1h" }},
		{"bad date", func(c *Config) { c.Query.StartDate = "01/01/2024" }},
		{"reversed dates", func(c *Config) { c.Query.StartDate, c.Query.EndDate = c.Query.EndDate, c.Query.StartDate }},
		{"bad flag", func(c *Config) { c.Query.Thr = "yes" }},
		{"no objects", func(c *Config) { c.Objects = nil }},
		{"bad object", func(c *Config) { c.Objects = []string{"1&x=2"} }},
		{"zero concurrency", func(c *Config) { c.Runner.Concurrency = 0 }},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }},
		{"bad port", func(c *Config) { c.API.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Monitor.Server = ""
	cfg.Objects = nil
	cfg.Runner.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(unwrapOnce(err)), 3)
	assert.Contains(t, err.Error(), "monitor.server is required")
	assert.Contains(t, err.Error(), "runner.concurrency")
}

func unwrapOnce(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return err
}
