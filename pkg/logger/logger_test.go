package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("orderdesk", "info", &buf)

	l.Error("order_delete", "req-1", "delete failed", errors.New("boom"), slog.Int("order_id", 7))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "delete failed", line["msg"])
	assert.Equal(t, "orderdesk", line["service"])
	assert.Equal(t, "order_delete", line["action"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.EqualValues(t, 7, line["order_id"])
	assert.Equal(t, map[string]any{"msg": "boom"}, line["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("orderdesk", "warn", &buf)

	l.Info("startup", "", "hidden")
	l.Debug("startup", "", "hidden")
	assert.Zero(t, buf.Len())

	l.Warn("startup", "", "shown")
	assert.Contains(t, buf.String(), "shown")
}
