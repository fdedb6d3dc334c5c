package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProdLoggerWritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("prod", &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	l.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "debtme", rec["service"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "v", rec["k"])
}

func TestDevLoggerIsTextAndDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("dev", &buf)
	l.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
	assert.NotContains(t, buf.String(), "request_id")
}
