package utils

import (
	"os"
	"strconv"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

// GetEnv returns the value of key, or defaultVal when unset.
func GetEnv(key, defaultVal string, _ *logger.Logger) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// GetEnvAsInt returns key parsed as an int. Unset or unparseable values fall
// back to defaultVal; parse failures are logged since they usually mean a
// typo in the deployment config.
func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	i, err := strconv.Atoi(valStr)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable is not an int, using default", "env_var", key, "value", valStr, "default", defaultVal)
		}
		return defaultVal
	}
	return i
}

// GetEnvAsBool is GetEnvAsInt for booleans, accepting strconv.ParseBool forms.
func GetEnvAsBool(key string, defaultVal bool, log *logger.Logger) bool {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	b, err := strconv.ParseBool(valStr)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable is not a bool, using default", "env_var", key, "value", valStr, "default", defaultVal)
		}
		return defaultVal
	}
	return b
}
