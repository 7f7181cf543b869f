package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	for _, provider := range []*LoggerProvider{nil, lp} {
		core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "test", LoggerProvider: provider})
		assert.False(t, core.Enabled(zapcore.ErrorLevel))
	}
}

func TestLevelFilterCore(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
	assert.True(t, filtered.Enabled(zapcore.WarnLevel))

	log := zap.New(filtered)
	log.Info("lookup started")
	log.Warn("lookup slow")
	log.Error("lookup failed")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "lookup slow", logs.All()[0].Message)
}

func TestLevelFilterCore_With(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	child, ok := filtered.With([]zapcore.Field{zap.String("postal_code", "01001000")}).(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, child.minLevel)

	zap.New(child).Warn("unknown postal code")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "01001000", logs.All()[0].ContextMap()["postal_code"])
}
