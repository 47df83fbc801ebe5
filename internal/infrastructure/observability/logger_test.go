package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctxLogger := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := ctxLogger.WithContext(context.Background())

	LoggerFromContext(ctx).Info().Msg("scoped")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), "scoped")
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	LoggerFromContext(context.Background()).Info().Msg("global")

	assert.Contains(t, buf.String(), "global")
}
