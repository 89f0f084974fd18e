package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerCtxKeyType struct{}

var loggerCtxKey = loggerCtxKeyType{}

// createLogger builds the root logger. Interactive sessions get a console
// encoder with colored levels, everything else logs JSON.
func createLogger(debug bool, logLevel string, interactive bool) (logger *zap.Logger, level zap.AtomicLevel, err error) {
	level, err = zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return nil, zap.NewAtomicLevel(), fmt.Errorf("invalid log level %s: %w", logLevel, err)
	}

	var loggerCfg zap.Config
	switch {
	case debug:
		loggerCfg = zap.NewDevelopmentConfig()
	case interactive:
		loggerCfg = zap.NewProductionConfig()
		loggerCfg.Encoding = "console"
		loggerCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		loggerCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		loggerCfg.DisableStacktrace = true
	default:
		loggerCfg = zap.NewProductionConfig()
	}
	loggerCfg.Level = level

	logger, err = loggerCfg.Build()
	if err != nil {
		return nil, zap.NewAtomicLevel(), fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named("filecompressor"), level, nil
}

func withLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

func tryLogger(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(*zap.Logger)
	if !ok {
		return nil
	}
	return logger
}

func getLogger(ctx context.Context) *zap.Logger {
	logger := tryLogger(ctx)
	if logger == nil {
		panic("logger not found in context")
	}
	return logger
}
