package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/pkg/api"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(config.Sources{
		File:   filepath.Join(dir, "missing.yaml"),
		DotEnv: filepath.Join(dir, "missing.env"),
		Lookup: env(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, api.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, api.DevelopmentURL, cfg.BaseURL())
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := write(t, dir, "config.yaml", `
api_url: https://yaml.example/api
environment: production
origin: https://yaml.example
timeout: 3s
session_file: /tmp/yaml-session.json
`)
	dotenv := write(t, dir, ".env", "NOTEGUARD_API_URL=https://dotenv.example/api\nNOTEGUARD_TIMEOUT=5s\n")

	cfg, err := config.Load(config.Sources{
		File:   file,
		DotEnv: dotenv,
		Lookup: env(map[string]string{"NOTEGUARD_TIMEOUT": "7s"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://dotenv.example/api", cfg.APIURL, ".env overrides yaml")
	assert.Equal(t, 7*time.Second, cfg.Timeout, "environment overrides .env")
	assert.Equal(t, "https://yaml.example", cfg.Origin)
	assert.Equal(t, "/tmp/yaml-session.json", cfg.SessionFile)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ProductionDefaultsToRelativePath(t *testing.T) {
	cfg, err := config.Load(config.Sources{Lookup: env(map[string]string{"NOTEGUARD_ENV": "prod"})})
	require.NoError(t, err)
	assert.Equal(t, api.ProductionPath, cfg.BaseURL())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(config.Sources{Lookup: env(map[string]string{"NOTEGUARD_TIMEOUT": "soon"})})
	assert.Error(t, err)

	_, err = config.Load(config.Sources{Lookup: env(map[string]string{"NOTEGUARD_ENV": "staging"})})
	assert.Error(t, err)

	dir := t.TempDir()
	_, err = config.Load(config.Sources{File: write(t, dir, "bad.yaml", "timeout: [")})
	assert.Error(t, err)
}
