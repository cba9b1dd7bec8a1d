package logger

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/personal-dashboard/internal/config"
)

func TestNewLoggerService(t *testing.T) {
	t.Run("no license key leaves the agent off", func(t *testing.T) {
		ls := NewLoggerService(config.DefaultObservabilityConfig())
		assert.Nil(t, ls.GetApplication())
	})

	t.Run("agent startup failure continues without APM", func(t *testing.T) {
		cfg := config.DefaultObservabilityConfig()
		cfg.NewRelic.LicenseKey = "too-short"

		ls := NewLoggerService(cfg)
		assert.NotNil(t, ls)
		assert.Nil(t, ls.GetApplication())
		ls.Shutdown()
	})

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	assert.Equal(t, zerolog.WarnLevel, NewLogger(cfg).GetLevel())
}

func TestFromContext(t *testing.T) {
	fallback := zerolog.Nop()
	assert.Same(t, &fallback, FromContext(context.Background(), &fallback))

	scoped := zerolog.New(io.Discard)
	ctx := scoped.WithContext(context.Background())
	assert.NotSame(t, &fallback, FromContext(ctx, &fallback))
	assert.NotEqual(t, zerolog.Disabled, FromContext(ctx, &fallback).GetLevel())
}
