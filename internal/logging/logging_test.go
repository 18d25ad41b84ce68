package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithSink("info", types.LogFormatJSON, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Info("load failed", zap.String("store", "projects"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "load failed", entry["msg"])
	assert.Equal(t, "projects", entry["store"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithSink("", "", zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Info("quiet")
	assert.Empty(t, buf.String())
	l.Warn("loud")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_Errors(t *testing.T) {
	_, err := New("verbose", "")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.ErrorIs(t, err, types.ErrLogFormat)
}
