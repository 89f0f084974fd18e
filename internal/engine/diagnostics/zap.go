// Package diagnostics provides engine.Diagnostics implementations.
package diagnostics

import (
	"slices"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap forwards diagnostic events to a zap logger.
type Zap struct {
	logger *zap.Logger
}

func NewZap(logger *zap.Logger) *Zap {
	return &Zap{logger: logger}
}

func (z *Zap) Emit(event engine.Event) {
	keys := lo.Keys(event.Context)
	slices.Sort(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.String(k, event.Context[k]))
	}

	if ce := z.logger.Check(levelFor(event.Severity), event.Message); ce != nil {
		ce.Write(fields...)
	}
}

func levelFor(severity engine.Severity) zapcore.Level {
	switch severity {
	case engine.SeverityDebug:
		return zapcore.DebugLevel
	case engine.SeverityInfo:
		return zapcore.InfoLevel
	case engine.SeverityWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
