package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 60*time.Second, cfg.Updater.Throttle)
	require.Equal(t, 250*time.Millisecond, cfg.Updater.DetectTimeout)
	require.True(t, cfg.Updater.AutoUpdate)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Updater.Throttle, cfg.Updater.Throttle)
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Updater.Throttle = 5 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, loaded.Updater.Throttle)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FUBBER_UPDATE_THROTTLE", "120")
	t.Setenv("FUBBER_DETECT_TIMEOUT", "500")
	t.Setenv("FUBBER_AUTO_UPDATE", "false")
	t.Setenv("FUBBER_DEV", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, 120*time.Second, cfg.Updater.Throttle)
	require.Equal(t, 500*time.Millisecond, cfg.Updater.DetectTimeout)
	require.False(t, cfg.Updater.AutoUpdate)
	require.True(t, cfg.Dev)
	require.True(t, cfg.Logging.DebugMode)
}

func TestStorePathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := StorePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "fubbertool", "index.db"), path)

	_ = os.Getenv("HOME")
}
