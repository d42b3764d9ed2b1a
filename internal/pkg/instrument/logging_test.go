package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestHandler_MasksAndAddsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "storefront", nil, []string{"Password", "otp"}))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello",
		"email", "a@x.com",
		"password", "Secret1!",
		"body", map[string]any{"otp": "123456", "identityId": "1"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "storefront", line["service"])
	assert.Equal(t, "a@x.com", line["email"])
	assert.Equal(t, masked, line["password"])
	assert.Equal(t, map[string]any{"otp": masked, "identityId": "1"}, line["body"])
}

func TestHandler_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", nil, []string{"token"})).With("token", "abc")

	logger.Info("x")

	line := decodeLine(t, &buf)
	assert.Equal(t, masked, line["token"])
	assert.NotContains(t, line, "service")
	assert.NotContains(t, line, "_cID")
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{ServiceName: "svc"})
	require.NoError(t, err)
	assert.NotNil(t, ins.Tracer("t"))
	assert.NotNil(t, ins.Meter("m"))
	assert.NoError(t, ins.Shutdown(context.Background()))
}
