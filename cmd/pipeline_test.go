package cmd

import (
	"feedstitch/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runLoadConfig runs a throwaway command with the pipeline flags and returns
// what loadConfig made of them.
func runLoadConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	var loadErr error
	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{{
			Name:  "run",
			Flags: pipelineFlags(),
			Action: func(ctx *cli.Context) error {
				cfg, loadErr = loadConfig(ctx)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"test", "run"}, args...)))
	return cfg, loadErr
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedstitch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoints = ["https://file.test/a.json"]
timeout_seconds = 10
user_agent = "from-file"
`), 0o600))

	cfg, err := runLoadConfig(t,
		"--config", path,
		"--endpoint", "https://flag.test/a.json",
		"--endpoint", "https://flag.test/b.json",
		"--sequential",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://flag.test/a.json", "https://flag.test/b.json"}, cfg.Endpoints)
	assert.True(t, cfg.Sequential)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, "from-file", cfg.UserAgent)
}

func TestLoadConfigRejectsInvalidTimeout(t *testing.T) {
	_, err := runLoadConfig(t, "--timeout", "0")
	assert.Error(t, err)
}
