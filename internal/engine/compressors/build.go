// Package compressors implements engine.Compressor for the supported archive formats.
package compressors

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrDuplicateEntry = errors.New("an entry with the same name already exists in the archive")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrSelfReference  = errors.New("source is the archive being written")
)

// container is an archive being written to an open file.
type container interface {
	Add(name string, info fs.FileInfo, content []byte) error
	Close() error
}

// openFunc starts a new archive on w and stamps it with comment.
type openFunc func(w io.Writer, comment string) (container, error)

// builder runs the format-independent part of a build: opening the target,
// walking the sources in order, recording skips, and finalizing.
type builder struct {
	logger  *zap.Logger
	fs      afero.Fs
	resolve engine.Resolver
	diag    engine.Diagnostics
	open    openFunc
}

func newBuilder(logger *zap.Logger, opts engine.Options, open openFunc) builder {
	opts = opts.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return builder{
		logger:  logger,
		fs:      opts.Fs,
		resolve: opts.Resolver,
		diag:    opts.Diagnostics,
		open:    open,
	}
}

func (b builder) build(target string, sources []string) engine.Result {
	result := engine.Result{Skipped: []engine.Skip{}}

	f, createdDir, err := b.create(target)
	if err != nil {
		b.emit("failed to create archive", "file", target, "error", err.Error())
		return result
	}

	archive, err := b.open(f, engine.ArchiveComment)
	if err != nil {
		// Nothing usable was written, don't leave an unreadable file behind.
		_ = f.Close()
		_ = b.fs.Remove(target)
		b.removeCreated(createdDir)
		b.emit("failed to create archive", "file", target, "error", err.Error())
		return result
	}

	cleanTarget := filepath.Clean(target)

	added := make(map[string]string, len(sources))
	for _, source := range sources {
		path := b.resolve(source)

		// The target is truncated by now, reading it would add an empty entry.
		if filepath.Clean(path) == cleanTarget {
			result.Skipped = append(result.Skipped, engine.Skip{Path: source, Reason: engine.ReasonAddFailed})
			b.emit("failed to add file to archive", "file", source, "error", ErrSelfReference.Error())
			continue
		}

		info, content, err := b.read(path)
		if err != nil {
			result.Skipped = append(result.Skipped, engine.Skip{Path: source, Reason: engine.ReasonNotFound})
			b.emit("failed to locate file", "file", source, "error", err.Error())
			continue
		}

		name := filepath.Base(path)
		if err := b.add(archive, added, name, path, info, content); err != nil {
			result.Skipped = append(result.Skipped, engine.Skip{Path: source, Reason: engine.ReasonAddFailed})
			b.emit("failed to add file to archive", "file", source, "error", err.Error())
			continue
		}

		b.logger.Debug("added file to archive", zap.String("file", source), zap.String("entry", name))
	}

	if err := errors.Join(archive.Close(), f.Close()); err != nil {
		b.emit("failed to save archive", "file", target, "status", err.Error())
		return result
	}

	result.Success = true
	return result
}

// create opens target for writing and returns the topmost parent directory it
// had to create, if any.
func (b builder) create(target string) (afero.File, string, error) {
	var createdDir string
	dir := filepath.Dir(target)
	if dir != "" && dir != "." {
		createdDir = b.missingAncestor(dir)
		if err := b.fs.MkdirAll(dir, 0755); err != nil {
			b.removeCreated(createdDir)
			return nil, "", fmt.Errorf("failed to create parent directory: %w", err)
		}
	}

	f, err := b.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		b.removeCreated(createdDir)
		return nil, "", fmt.Errorf("failed to open archive file: %w", err)
	}
	return f, createdDir, nil
}

// missingAncestor returns the highest directory on the way to dir that does
// not exist yet, or "" when dir already exists.
func (b builder) missingAncestor(dir string) string {
	var missing string
	for {
		if _, err := b.fs.Stat(dir); !errors.Is(err, fs.ErrNotExist) {
			return missing
		}
		missing = dir

		parent := filepath.Dir(dir)
		if parent == dir || parent == "." {
			return missing
		}
		dir = parent
	}
}

func (b builder) removeCreated(dir string) {
	if dir == "" {
		return
	}
	if err := b.fs.RemoveAll(dir); err != nil {
		b.logger.Debug("failed to remove created directory", zap.String("dir", dir), zap.Error(err))
	}
}

// read returns the source's metadata and content. Directories are returned
// without content so that add can reject them.
func (b builder) read(path string) (fs.FileInfo, []byte, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return info, nil, nil
	}

	content, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, nil, err
	}
	return info, content, nil
}

func (b builder) add(archive container, added map[string]string, name, path string, info fs.FileInfo, content []byte) error {
	if !info.Mode().IsRegular() {
		return ErrNotRegularFile
	}
	if previous, ok := added[name]; ok {
		return fmt.Errorf("%w: %s (from %s)", ErrDuplicateEntry, name, previous)
	}

	if err := archive.Add(name, info, content); err != nil {
		return err
	}

	added[name] = path
	return nil
}

func (b builder) emit(message string, keyvals ...string) {
	ctx := make(map[string]string, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		ctx[keyvals[i]] = keyvals[i+1]
	}
	b.diag.Emit(engine.Event{
		Severity: engine.SeverityError,
		Message:  message,
		Context:  ctx,
	})
}

func targetPath(base, extension string) string {
	return base + "." + extension
}
