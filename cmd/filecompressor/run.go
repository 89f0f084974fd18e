package main

import (
	"context"
	"fmt"
	"os"

	"github.com/infracollect/filecompressor/internal/runner"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var allowedEnvFlag = &cli.StringSliceFlag{
	Name:  "allowed-env",
	Usage: "Environment variables allowed in job configuration (can be repeated)",
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Build the archive described by a job file",
	Flags: []cli.Flag{
		allowedEnvFlag,
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "The job file to run",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		jobFilename := command.StringArg("job")
		if jobFilename == "" {
			return fmt.Errorf("no job file provided")
		}

		job, err := runner.ReadCompressJob(jobFilename)
		if err != nil {
			return fmt.Errorf("failed to load job '%s': %w", jobFilename, err)
		}

		variables, err := runner.BuildVariables(job, command.StringSlice("allowed-env"))
		if err != nil {
			return fmt.Errorf("failed to build variables: %w", err)
		}

		if err := runner.ExpandTemplates(&job, variables); err != nil {
			return fmt.Errorf("failed to expand templates: %w", err)
		}

		logger.Debug("running job", zap.String("job_filename", jobFilename), zap.String("job_name", job.Metadata.Name))

		injector := runner.BuildContainer(logger.Named("runner"), afero.NewOsFs())
		r, err := runner.New(ctx, injector, job)
		if err != nil {
			return fmt.Errorf("failed to create runner: %w", err)
		}

		logger = logger.With(zap.String("run_id", r.RunID()))
		result, err := r.Run(ctx)
		logger.Debug("job finished", zap.Bool("success", result.Success), zap.Int("skipped", len(result.Skipped)))
		if isInteractive(ctx) {
			printResult(os.Stdout, r.Target(), len(job.Spec.Sources), result)
		}
		if err != nil {
			return fmt.Errorf("failed to run job: %w", err)
		}

		return nil
	},
}
