package publish

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

func TestNewUploaderRequiresHost(t *testing.T) {
	_, err := NewUploader(Config{}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")

	_, err = NewUploader(Config{Host: "   "}, logger.NewNop())
	require.Error(t, err)
}

func TestNewUploaderDefaults(t *testing.T) {
	up, err := NewUploader(Config{Host: "ftp.example.com", BasePath: "/site/"}, logger.NewNop())
	require.NoError(t, err)

	u := up.(*uploader)
	assert.Equal(t, 21, u.cfg.Port)
	assert.Equal(t, 30*time.Second, u.cfg.Timeout)
	assert.Equal(t, "/site", u.cfg.BasePath)
}

func TestNewUploaderKeepsExplicitSettings(t *testing.T) {
	up, err := NewUploader(Config{
		Host:    "ftp.example.com",
		Port:    2121,
		Timeout: 5 * time.Second,
	}, logger.NewNop())
	require.NoError(t, err)

	u := up.(*uploader)
	assert.Equal(t, 2121, u.cfg.Port)
	assert.Equal(t, 5*time.Second, u.cfg.Timeout)
	assert.Equal(t, "", u.cfg.BasePath)
}

func TestRemotePath(t *testing.T) {
	assert.Equal(t, "index.html", remotePath("", "index.html"))
	assert.Equal(t, "assets/logo.png", remotePath("", "assets/logo.png"))
	assert.Equal(t, "/site/index.html", remotePath("/site", "index.html"))
	assert.Equal(t, "/site/assets/logo.png", remotePath("/site", "assets/logo.png"))
}

func TestIsDirExistsError(t *testing.T) {
	assert.True(t, isDirExistsError(errors.New("550 File exists")))
	assert.True(t, isDirExistsError(errors.New("directory already exists")))
	assert.True(t, isDirExistsError(errors.New("Directory exists")))
	assert.False(t, isDirExistsError(errors.New("530 not logged in")))
	assert.False(t, isDirExistsError(errors.New("connection reset")))
}
