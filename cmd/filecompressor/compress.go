package main

import (
	"context"
	"fmt"
	"os"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/diagnostics"
	"github.com/infracollect/filecompressor/internal/engine/resolvers"
	"github.com/infracollect/filecompressor/internal/runner"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var compressCommand = &cli.Command{
	Name:      "compress",
	Usage:     "Bundle files into an archive",
	ArgsUsage: "<file>...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "base",
			Aliases:  []string{"o"},
			Usage:    "Archive path without extension",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "zip",
			Usage:   "Archive format (zip, tar)",
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "Stream compression for tar (gzip, zstd, none)",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Directory relative file paths are resolved against",
		},
		&cli.StringMapFlag{
			Name:  "scheme",
			Usage: "Map a URI scheme to a directory, e.g. public=/var/www/files (can be repeated)",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		resolve := engine.IdentityResolver
		if root := command.String("root"); root != "" {
			resolve = resolvers.BasePath(root)
		}
		if schemes := command.StringMap("scheme"); len(schemes) > 0 {
			resolve = resolvers.Schemes(schemes, resolve)
		}

		registry := runner.BuildRegistry(logger.Named("compressor"))
		compressor, err := registry.CreateCompressor(command.String("format"), engine.Options{
			Fs:          afero.NewOsFs(),
			Resolver:    resolve,
			Diagnostics: diagnostics.NewZap(logger.Named("diagnostics")),
			Compression: command.String("compression"),
		})
		if err != nil {
			return fmt.Errorf("failed to create compressor: %w", err)
		}

		sources := command.Args().Slice()
		target := compressor.TargetPath(command.String("base"))

		logger.Debug("compressing files",
			zap.String("compressor", compressor.Name()),
			zap.String("target", target),
			zap.Strings("sources", sources),
		)

		result := compressor.Build(target, sources)
		if isInteractive(ctx) {
			printResult(os.Stdout, target, len(sources), result)
		} else {
			fmt.Println(target)
		}

		if !result.Success {
			return fmt.Errorf("%w: %s", runner.ErrBuildFailed, target)
		}

		return nil
	},
}
