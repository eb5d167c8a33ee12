package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	MazeWidth           int    // Cells along x of each layout
	MazeDepth           int    // Cells along z of each layout
	MazeTries           int    // Independent layouts per batch
	MazeTrialMultiplier int    // Wall-flip trials per cell
	MazeSeed            int64  // Base seed; 0 draws one from the clock
	CellSize            int    // Block size of one structure
	HostIP              string // Host IP for the server
	RESTPort            int    // Port for the REST API
	GinMode             string // Mode for the Gin framework (e.g., release, debug, test)
	DBHost              string // Hostname or IP address for the database
	DBPort              int    // Port number for the database
	DBUser              string // Username for the database
	DBPassword          string // Password for the database
	DBName              string // Name of the database
	RedisAddr           string // host:port of the Redis server
	RedisPassword       string // Password for the Redis server
	CacheTTLSeconds     int    // Lifetime of cached seed lookups
	CacheLockSeconds    int    // Expiry of the per-request generate lock
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		MazeWidth:           getEnvAsIntWithDefault("MAZE_WIDTH", 5),
		MazeDepth:           getEnvAsIntWithDefault("MAZE_DEPTH", 5),
		MazeTries:           getEnvAsIntWithDefault("MAZE_TRIES", 15),
		MazeTrialMultiplier: getEnvAsIntWithDefault("MAZE_TRIAL_MULTIPLIER", 2),
		MazeSeed:            int64(getEnvAsIntWithDefault("MAZE_SEED", 0)),
		CellSize:            getEnvAsIntWithDefault("CELL_SIZE", 10),
		HostIP:              getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:            getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:             getEnvWithDefault("GIN_MODE", "release"),
		DBHost:              getEnvWithDefault("DB_HOST", ""),
		DBPort:              getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:              getEnvWithDefault("DB_USER", ""),
		DBPassword:          getEnvWithDefault("DB_PASS", ""),
		DBName:              getEnvWithDefault("DB_NAME", ""),
		RedisAddr:           getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:       getEnvWithDefault("REDIS_PASSWORD", ""),
		CacheTTLSeconds:     getEnvAsIntWithDefault("CACHE_TTL_SECONDS", 3600),
		CacheLockSeconds:    getEnvAsIntWithDefault("CACHE_LOCK_SECONDS", 120),
	}
}

// RequireServer reports the settings that serving the API needs but were not set.
func (c Config) RequireServer() error {
	var missing []string
	for key, value := range map[string]string{
		"DB_HOST":    c.DBHost,
		"DB_USER":    c.DBUser,
		"DB_PASS":    c.DBPassword,
		"DB_NAME":    c.DBName,
		"REDIS_ADDR": c.RedisAddr,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an integer environment variable or returns a default value if not set.
// A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
