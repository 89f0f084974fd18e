package main

import (
	"context"
	"fmt"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/compressors"
	"github.com/infracollect/filecompressor/internal/runner"
	"github.com/urfave/cli/v3"
)

// compressionsByKind lists the compression values each kind accepts.
var compressionsByKind = map[string][]compressors.CompressionType{
	compressors.TarKind: {compressors.CompressionGzip, compressors.CompressionZstd, compressors.CompressionNone},
}

var formatsCommand = &cli.Command{
	Name:  "formats",
	Usage: "List supported archive formats",
	Action: func(ctx context.Context, command *cli.Command) error {
		registry := runner.BuildRegistry(getLogger(ctx).Named("compressor"))

		for _, kind := range registry.AvailableCompressors() {
			variants, ok := compressionsByKind[kind]
			if !ok {
				variants = []compressors.CompressionType{""}
			}

			for _, compression := range variants {
				compressor, err := registry.CreateCompressor(kind, engine.Options{Compression: string(compression)})
				if err != nil {
					return fmt.Errorf("failed to create %s compressor: %w", kind, err)
				}
				fmt.Printf("%-12s .%s\n", compressor.Name(), compressor.Extension())
			}
		}

		return nil
	},
}
