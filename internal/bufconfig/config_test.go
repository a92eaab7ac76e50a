package bufconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bufctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "pool:\n  data_file: ./x.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 256, cfg.Pool.FrameCount)
	require.EqualValues(t, 512, cfg.Pool.PageCount)
	require.Equal(t, "./x.db", cfg.Pool.DataFile)
	require.True(t, cfg.Pool.HugePages)
	require.Equal(t, "info", cfg.LogLevel())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, ""+
		"pool:\n"+
		"  frame_count: 1024\n"+
		"  page_count: 4096\n"+
		"  data_file: /tmp/pages.db\n"+
		"  huge_pages: false\n"+
		"server:\n"+
		"  log_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 1024, cfg.Pool.FrameCount)
	require.EqualValues(t, 4096, cfg.Pool.PageCount)
	require.Equal(t, "/tmp/pages.db", cfg.Pool.DataFile)
	require.False(t, cfg.Pool.HugePages)
	require.Equal(t, "debug", cfg.LogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
