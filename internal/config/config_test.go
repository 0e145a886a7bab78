package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
app:
  name: mosgsm-duplicates-service
  version: test
  env: test
server:
  port: 8080
database:
  host: localhost
  port: 3306
  user: u
  password: p
  name: payouts
  charset: utf8mb4
  parse_time: true
  loc: UTC
redis:
  host: localhost
  port: 6379
  ingestion_queue: payout:ingestion
  dlq_suffix: ":dlq"
logging:
  level: info
  format: console
`

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadAppliesAnalysisDefaults(t *testing.T) {
	writeConfig(t, minimalConfig)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000.0, cfg.Analysis.InstallationThreshold)
	assert.Equal(t, PolicyAnyMissing, cfg.Analysis.ProblematicPolicy)
	require.NotNil(t, cfg.Analysis.NormalizeAddressKeys)
	assert.True(t, *cfg.Analysis.NormalizeAddressKeys)
	assert.Equal(t, 30, cfg.Analysis.SampleLimit)
	assert.Equal(t, 2, cfg.Workers.Ingestion.Count)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
}

func TestLoadRespectsExplicitAnalysis(t *testing.T) {
	writeConfig(t, minimalConfig+`
analysis:
  installation_threshold: 4500
  problematic_policy: all-missing
  normalize_address_keys: false
  sample_limit: 10
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4500.0, cfg.Analysis.InstallationThreshold)
	assert.Equal(t, PolicyAllMissing, cfg.Analysis.ProblematicPolicy)
	require.NotNil(t, cfg.Analysis.NormalizeAddressKeys)
	assert.False(t, *cfg.Analysis.NormalizeAddressKeys)
	assert.Equal(t, 10, cfg.Analysis.SampleLimit)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	writeConfig(t, minimalConfig)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "u:p@tcp(localhost:3306)/payouts?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseDSN())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestDefaultAnalysis(t *testing.T) {
	a := DefaultAnalysis()
	assert.Equal(t, 5000.0, a.InstallationThreshold)
	assert.Equal(t, PolicyAnyMissing, a.ProblematicPolicy)
	assert.Equal(t, 30, a.SampleLimit)
}
