package runner

import (
	"context"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/compressors"
	"github.com/infracollect/filecompressor/internal/engine/diagnostics"
	"github.com/infracollect/filecompressor/internal/engine/sinks"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// S3SinkFactory creates the sink used for S3 publishing.
type S3SinkFactory func(ctx context.Context, cfg sinks.S3Config) (engine.Sink, error)

// BuildContainer creates a new DI container with all dependencies registered.
// Dependencies are lazily initialized when first requested.
func BuildContainer(logger *zap.Logger, fs afero.Fs) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, fs)

	do.Provide(injector, func(i do.Injector) (*engine.Registry, error) {
		log := do.MustInvoke[*zap.Logger](i)
		return BuildRegistry(log.Named("compressor")), nil
	})

	do.Provide(injector, func(i do.Injector) (engine.Diagnostics, error) {
		log := do.MustInvoke[*zap.Logger](i)
		return diagnostics.NewZap(log.Named("diagnostics")), nil
	})

	do.ProvideValue(injector, S3SinkFactory(func(ctx context.Context, cfg sinks.S3Config) (engine.Sink, error) {
		sink, err := sinks.NewS3Sink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}))

	return injector
}

// BuildRegistry creates a new registry with all compressors registered.
func BuildRegistry(logger *zap.Logger) *engine.Registry {
	registry := engine.NewRegistry(logger)
	compressors.Register(registry)
	return registry
}
