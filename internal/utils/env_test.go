package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	assert.Equal(t, "fallback", GetEnv("UTILS_TEST_MISSING", "fallback", nil))

	t.Setenv("UTILS_TEST_SET", "value")
	assert.Equal(t, "value", GetEnv("UTILS_TEST_SET", "fallback", nil))

	t.Setenv("UTILS_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnv("UTILS_TEST_EMPTY", "fallback", nil))
}

func TestGetEnvAsInt(t *testing.T) {
	assert.Equal(t, 8080, GetEnvAsInt("UTILS_TEST_MISSING", 8080, nil))

	t.Setenv("UTILS_TEST_INT", "2121")
	assert.Equal(t, 2121, GetEnvAsInt("UTILS_TEST_INT", 8080, nil))

	t.Setenv("UTILS_TEST_BAD_INT", "twenty")
	assert.Equal(t, 8080, GetEnvAsInt("UTILS_TEST_BAD_INT", 8080, nil))
}

func TestGetEnvAsBool(t *testing.T) {
	assert.True(t, GetEnvAsBool("UTILS_TEST_MISSING", true, nil))

	t.Setenv("UTILS_TEST_BOOL", "false")
	assert.False(t, GetEnvAsBool("UTILS_TEST_BOOL", true, nil))

	t.Setenv("UTILS_TEST_BAD_BOOL", "sure")
	assert.True(t, GetEnvAsBool("UTILS_TEST_BAD_BOOL", true, nil))
}
