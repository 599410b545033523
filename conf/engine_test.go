package conf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devtutor/backend/conf"
)

func TestGetEngineFromEnvDefaults(t *testing.T) {
	t.Setenv("LAB_ROOT_DIR", "")
	t.Setenv("GRADER_WORKERS", "")
	t.Setenv("GRADER_PASS_THRESHOLD", "")

	e := conf.GetEngineFromEnv()
	assert.Equal(t, ".", e.RootDir)
	assert.Greater(t, e.Workers, 0)
	assert.Equal(t, 0.6, e.DefaultThreshold)
	assert.Equal(t, 10000, e.DefaultTimeLimMs)
	assert.Equal(t, 64, e.DefaultOutputKiB)
	assert.Equal(t, []string{"PATH", "HOME", "LANG", "LC_ALL"}, e.EnvAllowList)
	assert.Equal(t, ":8080", e.HttpListenAddress)
}

func TestGetEngineFromEnvOverrides(t *testing.T) {
	t.Setenv("LAB_ROOT_DIR", "/srv/labs")
	t.Setenv("GRADER_WORKERS", "4")
	t.Setenv("GRADER_PASS_THRESHOLD", "0.8")
	t.Setenv("GRADER_TIME_LIMIT_MS", "2000")
	t.Setenv("GRADER_OUTPUT_LIMIT_KIB", "16")
	t.Setenv("GRADER_ENV_ALLOWLIST", "PATH, LANG")
	t.Setenv("HTTP_LISTEN_ADDRESS", ":9090")

	e := conf.GetEngineFromEnv()
	assert.Equal(t, "/srv/labs", e.RootDir)
	assert.Equal(t, 4, e.Workers)
	assert.Equal(t, 0.8, e.DefaultThreshold)
	assert.Equal(t, 2000, e.DefaultTimeLimMs)
	assert.Equal(t, 16, e.DefaultOutputKiB)
	assert.Equal(t, []string{"PATH", "LANG"}, e.EnvAllowList)
	assert.Equal(t, ":9090", e.HttpListenAddress)
}

func TestGetEngineFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("GRADER_WORKERS", "-2")
	t.Setenv("GRADER_PASS_THRESHOLD", "1.5")
	t.Setenv("GRADER_TIME_LIMIT_MS", "abc")

	e := conf.GetEngineFromEnv()
	assert.Greater(t, e.Workers, 0)
	assert.Equal(t, 0.6, e.DefaultThreshold)
	assert.Equal(t, 10000, e.DefaultTimeLimMs)
}
