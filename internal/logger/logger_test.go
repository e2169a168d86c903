package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub/ads-backend/internal/config"
)

func TestConfigureJSON(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	configure(l, config.LogConfig{Level: "DEBUG", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("ad_id", "abc").Info("ad approved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ad approved", entry["msg"])
	assert.Equal(t, "abc", entry["ad_id"])
}

func TestConfigureFallsBackToInfo(t *testing.T) {
	l := logrus.New()
	configure(l, config.LogConfig{Level: "chatty", Format: "text"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	_, ok := l.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestInitializeWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ads.log")
	closer := Initialize(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	defer func() {
		require.NoError(t, closer.Close())
		logrus.SetOutput(logrus.New().Out)
	}()

	logrus.Info("scheduler started")
	assert.FileExists(t, path)
}
