package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

func TestJSONLoggerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "prod")
	log.Info("gateway settings", "token", domain.Secret("tok_live_123"))
	log.Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "[redacted]", line["token"])
	assert.Equal(t, "checkout-backend", line["service"])
	assert.NotContains(t, buf.String(), "tok_live_123")
	assert.NotContains(t, buf.String(), "hidden")
}
