package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: "warn", want: zapcore.WarnLevel},
		{level: "error", want: zapcore.ErrorLevel},
		{level: "", want: zapcore.InfoLevel},
		{level: "verbose", want: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestSetLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	Logger().Debug("loaded extension", zap.String("uri", "/functions_arithmetic.yaml"))
	entries := recorded.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "loaded extension", entries[0].Message)
		assert.Equal(t, "/functions_arithmetic.yaml", entries[0].ContextMap()["uri"])
	}
}
