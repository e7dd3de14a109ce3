package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf)

	Component(log, "database").WithField("db_host", "localhost").Info("db_migration_skip")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "db_migration_skip", entry["msg"])
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "localhost", entry["db_host"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := New("loud", nil)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestComponent_NilLogger(t *testing.T) {
	entry := Component(nil, "cache")
	assert.NotNil(t, entry)
	assert.Equal(t, "cache", entry.Data["component"])
}
