package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	v1 "github.com/infracollect/filecompressor/apis/v1"
	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/sinks"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrBuildFailed is returned by Run when the archive could not be created or saved.
var ErrBuildFailed = errors.New("archive build failed")

type Runner struct {
	logger     *zap.Logger
	fs         afero.Fs
	job        v1.CompressJob
	compressor engine.Compressor
	target     string
	sinks      []engine.Sink
	runID      string
}

func New(ctx context.Context, i do.Injector, job v1.CompressJob) (*Runner, error) {
	runID := uuid.NewString()
	logger := do.MustInvoke[*zap.Logger](i).With(zap.String("run_id", runID))
	logger.Info("creating runner", zap.String("job_name", job.Metadata.Name))

	fs, err := do.Invoke[afero.Fs](i)
	if err != nil {
		return nil, fmt.Errorf("failed to get filesystem: %w", err)
	}

	registry, err := do.Invoke[*engine.Registry](i)
	if err != nil {
		return nil, fmt.Errorf("failed to get compressor registry: %w", err)
	}

	diag, err := do.Invoke[engine.Diagnostics](i)
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostics: %w", err)
	}

	format := ResolveFormat(job.Spec.Format)
	compressor, err := registry.CreateCompressor(format.Kind, engine.Options{
		Fs:          fs,
		Resolver:    BuildResolver(job.Spec.Resolver),
		Diagnostics: diag,
		Compression: format.Compression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	publishers, err := buildSinks(ctx, i, fs, job.Spec.Publish)
	if err != nil {
		return nil, fmt.Errorf("failed to build publish sinks: %w", err)
	}

	return &Runner{
		logger:     logger,
		fs:         fs,
		job:        job,
		compressor: compressor,
		target:     TargetPath(compressor, job),
		sinks:      publishers,
		runID:      runID,
	}, nil
}

// TargetPath is where the job's archive is written.
func TargetPath(compressor engine.Compressor, job v1.CompressJob) string {
	base := lo.CoalesceOrEmpty(job.Spec.Target.Base, job.Metadata.Name)
	return compressor.TargetPath(filepath.Join(job.Spec.Target.Directory, base))
}

func (r *Runner) Target() string {
	return r.target
}

func (r *Runner) RunID() string {
	return r.runID
}

// Run builds the archive and publishes it. Skipped sources do not fail the
// run; a build that could not produce an archive returns ErrBuildFailed.
func (r *Runner) Run(ctx context.Context) (engine.Result, error) {
	r.logger.Info("building archive",
		zap.String("compressor", r.compressor.Name()),
		zap.String("target", r.target),
		zap.Int("sources", len(r.job.Spec.Sources)),
	)

	result := r.compressor.Build(r.target, r.job.Spec.Sources)
	if !result.Success {
		return result, fmt.Errorf("%w: %s", ErrBuildFailed, r.target)
	}

	r.logger.Info("archive built",
		zap.String("target", r.target),
		zap.Int("added", len(r.job.Spec.Sources)-len(result.Skipped)),
		zap.Strings("skipped", result.SkippedPaths()),
	)

	if err := r.publish(ctx); err != nil {
		return result, err
	}

	return result, nil
}

func (r *Runner) publish(ctx context.Context) error {
	name := filepath.Base(r.target)

	for _, sink := range r.sinks {
		if err := r.publishTo(ctx, sink, name); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", sink.Name(), err)
		}
		r.logger.Info("archive published", zap.String("sink", sink.Name()), zap.String("name", name))
	}

	return nil
}

func (r *Runner) publishTo(ctx context.Context, sink engine.Sink, name string) (err error) {
	f, err := r.fs.Open(r.target)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := sink.Write(ctx, name, f); err != nil {
		return err
	}

	return sink.Close(ctx)
}

func buildSinks(ctx context.Context, i do.Injector, fs afero.Fs, spec *v1.PublishSpec) ([]engine.Sink, error) {
	if spec == nil {
		return nil, nil
	}

	var out []engine.Sink

	if spec.Folder != nil {
		sink, err := sinks.NewFilesystemSinkFromPath(fs, spec.Folder.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, sink)
	}

	if spec.S3 != nil {
		factory, err := do.Invoke[S3SinkFactory](i)
		if err != nil {
			return nil, fmt.Errorf("failed to get s3 sink factory: %w", err)
		}

		sink, err := factory(ctx, buildS3Config(spec.S3))
		if err != nil {
			return nil, err
		}
		out = append(out, sink)
	}

	return out, nil
}

func buildS3Config(spec *v1.S3Publish) sinks.S3Config {
	cfg := sinks.S3Config{
		Bucket:         spec.Bucket,
		Region:         lo.FromPtr(spec.Region),
		Endpoint:       lo.FromPtr(spec.Endpoint),
		Prefix:         lo.FromPtr(spec.Prefix),
		ForcePathStyle: spec.ForcePathStyle,
	}

	if spec.Credentials != nil {
		cfg.AccessKeyID = spec.Credentials.AccessKeyID
		cfg.SecretAccessKey = spec.Credentials.SecretAccessKey
	}

	return cfg
}
