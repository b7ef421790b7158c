package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.MQTT.Host)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.False(t, cfg.Legacy)
	assert.Equal(t, "dhcp", cfg.WiFi.Mode)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.MQTT.TLS.Enabled())
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tapper.yaml")
	contents := []byte("mqtt:\n  host: broker.example\n  port: 8883\nlegacy: true\ndevice:\n  id_override: bench-01\n")
	require.NoError(t, os.WriteFile(path, contents, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "broker.example", cfg.MQTT.Host)
	assert.Equal(t, 8883, cfg.MQTT.Port)
	assert.True(t, cfg.Legacy)
	assert.Equal(t, "bench-01", cfg.Device.IDOverride)
}

func TestLoad_EnvironmentOverridesFileDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	t.Setenv("TAPPER_MQTT_HOST", "env-broker")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-broker", cfg.MQTT.Host)
}

func TestTLS_Enabled(t *testing.T) {
	assert.False(t, TLS{}.Enabled())
	assert.True(t, TLS{CAFile: "ca.pem"}.Enabled())
}
