package diagnostics

import (
	"testing"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZap_Emit(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewZap(zap.New(core))

	sink.Emit(engine.Event{
		Severity: engine.SeverityError,
		Message:  "failed to locate file",
		Context:  map[string]string{"file": "/a.txt", "error": "file does not exist"},
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "failed to locate file", entries[0].Message)
	assert.Equal(t, map[string]any{"file": "/a.txt", "error": "file does not exist"}, entries[0].ContextMap())
}

func TestZap_Levels(t *testing.T) {
	tests := []struct {
		severity engine.Severity
		want     zapcore.Level
	}{
		{engine.SeverityDebug, zapcore.DebugLevel},
		{engine.SeverityInfo, zapcore.InfoLevel},
		{engine.SeverityWarning, zapcore.WarnLevel},
		{engine.SeverityError, zapcore.ErrorLevel},
		{engine.Severity("unknown"), zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			NewZap(zap.New(core)).Emit(engine.Event{Severity: tt.severity, Message: "msg"})

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.want, logs.All()[0].Level)
		})
	}
}

func TestZap_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	NewZap(zap.New(core)).Emit(engine.Event{Severity: engine.SeverityInfo, Message: "quiet"})
	assert.Equal(t, 0, logs.Len())
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(engine.Event{Severity: engine.SeverityError, Message: "one"})
	rec.Emit(engine.Event{Severity: engine.SeverityError, Message: "two"})

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "one", events[0].Message)
	assert.Equal(t, "two", events[1].Message)

	events[0].Message = "changed"
	assert.Equal(t, "one", rec.Events()[0].Message, "Events returns a copy")
}
