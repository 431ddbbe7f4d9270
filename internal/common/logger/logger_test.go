// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestOutputPaths(t *testing.T) {
	assert.Equal(t, []string{"stdout"}, outputPaths(""))
	assert.Equal(t, []string{"stdout"}, outputPaths(" , "))
	assert.Equal(t, []string{"stdout", "/tmp/chat.log"}, outputPaths("stdout, /tmp/chat.log"))
}

func TestZapWrapper_FieldsAndComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Component(NewZapAdapter(zap.New(core)), "fusion-analyzer")

	log.Info("analysis complete", map[string]interface{}{
		"intent": "weather",
		"cause":  errors.New("boom"),
	})
	log.WithError(errors.New("remote down")).Warn("degraded", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		first := entries[0].ContextMap()
		assert.Equal(t, "fusion-analyzer", first["component"])
		assert.Equal(t, "weather", first["intent"])
		assert.Equal(t, "boom", first["cause"])

		second := entries[1].ContextMap()
		assert.Equal(t, "remote down", second["error"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestNew_FallsBackToStdoutOnBadSink(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/sure/chat.log")
	assert.NotNil(t, l)
}
