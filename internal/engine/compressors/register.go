package compressors

import (
	"fmt"

	"github.com/infracollect/filecompressor/internal/engine"
	"go.uber.org/zap"
)

func Register(registry *engine.Registry) {
	registry.RegisterCompressor(ZipKind, func(logger *zap.Logger, opts engine.Options) (engine.Compressor, error) {
		if opts.Compression != "" {
			return nil, fmt.Errorf("zip does not support compression type: %s", opts.Compression)
		}
		return NewZip(logger, opts), nil
	})
	registry.RegisterCompressor(TarKind, func(logger *zap.Logger, opts engine.Options) (engine.Compressor, error) {
		tar, err := NewTar(logger, opts)
		if err != nil {
			return nil, err
		}
		return tar, nil
	})
}
