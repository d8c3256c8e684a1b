package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestScopedLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &Logger{Logger: zap.New(core)}

	log.ForUser("5511999990000").ForOrder("ord-1").Info("order created")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "5511999990000", fields["user_id"])
	assert.Equal(t, "ord-1", fields["order_id"])
}

func TestNewConsoleFormat(t *testing.T) {
	log, err := New(Config{Level: "debug", Format: FormatConsole, Service: "salesctl"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestGlobalFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Global())

	l := NewNop()
	SetGlobal(l)
	assert.Same(t, l, Global())
}
