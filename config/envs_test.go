package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Run("Integer with default", func(t *testing.T) {
		t.Setenv("MAZE_TEST_INT", "12")
		assert.Equal(t, 12, getEnvAsIntWithDefault("MAZE_TEST_INT", 3))
		assert.Equal(t, 3, getEnvAsIntWithDefault("MAZE_TEST_UNSET", 3))

		t.Setenv("MAZE_TEST_EMPTY", "")
		assert.Equal(t, 7, getEnvAsIntWithDefault("MAZE_TEST_EMPTY", 7))
	})

	t.Run("String with default", func(t *testing.T) {
		t.Setenv("MAZE_TEST_STR", "debug")
		assert.Equal(t, "debug", getEnvWithDefault("MAZE_TEST_STR", "release"))
		assert.Equal(t, "release", getEnvWithDefault("MAZE_TEST_STR_UNSET", "release"))
	})

	t.Run("Reference defaults", func(t *testing.T) {
		for _, key := range []string{"MAZE_WIDTH", "MAZE_DEPTH", "MAZE_TRIES", "MAZE_TRIAL_MULTIPLIER", "CELL_SIZE", "CACHE_LOCK_SECONDS"} {
			t.Setenv(key, "")
		}
		c := initConfig()
		assert.Equal(t, 5, c.MazeWidth)
		assert.Equal(t, 5, c.MazeDepth)
		assert.Equal(t, 15, c.MazeTries)
		assert.Equal(t, 2, c.MazeTrialMultiplier)
		assert.Equal(t, 10, c.CellSize)
		assert.Equal(t, 120, c.CacheLockSeconds)
	})
}

func TestRequireServer(t *testing.T) {
	c := Config{DBHost: "localhost", DBName: "layouts"}
	err := c.RequireServer()
	if assert.Error(t, err) {
		assert.Equal(t, "environment variables not set: DB_PASS, DB_USER, REDIS_ADDR", err.Error())
	}

	c = Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", RedisAddr: "r:6379"}
	assert.NoError(t, c.RequireServer())
}
