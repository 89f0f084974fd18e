package compressors

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

const TarKind = "tar"

// CompressionType defines supported compression algorithms.
type CompressionType string

const (
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
	CompressionNone CompressionType = "none"
)

// Tar writes tar archives with optional stream compression.
type Tar struct {
	builder
	compression CompressionType
}

// NewTar creates a tar compressor with the compression named in opts.
// Supported compression types: "gzip", "zstd", "none".
// If compression is empty, defaults to "gzip".
func NewTar(logger *zap.Logger, opts engine.Options) (*Tar, error) {
	ct := CompressionType(opts.Compression)
	if ct == "" {
		ct = CompressionGzip
	}

	switch ct {
	case CompressionGzip, CompressionZstd, CompressionNone:
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", opts.Compression)
	}

	return &Tar{
		builder:     newBuilder(logger, opts, openTar(ct)),
		compression: ct,
	}, nil
}

func (t *Tar) Name() string {
	return fmt.Sprintf("tar(%s)", t.compression)
}

func (t *Tar) Kind() string {
	return TarKind
}

// Extension returns the file extension for this archive type.
func (t *Tar) Extension() string {
	switch t.compression {
	case CompressionGzip:
		return "tar.gz"
	case CompressionZstd:
		return "tar.zst"
	default:
		return "tar"
	}
}

func (t *Tar) TargetPath(base string) string {
	return targetPath(base, t.Extension())
}

func (t *Tar) Build(target string, sources []string) engine.Result {
	return t.build(target, sources)
}

type tarContainer struct {
	compressor io.WriteCloser
	tarWriter  *tar.Writer
}

func openTar(ct CompressionType) openFunc {
	return func(w io.Writer, comment string) (container, error) {
		var compressor io.WriteCloser
		switch ct {
		case CompressionGzip:
			compressor = gzip.NewWriter(w)
		case CompressionZstd:
			zw, err := zstd.NewWriter(w)
			if err != nil {
				return nil, fmt.Errorf("failed to create zstd writer: %w", err)
			}
			compressor = zw
		default:
			compressor = &nopWriteCloser{w}
		}

		tarWriter := tar.NewWriter(compressor)

		// Tar has no archive comment, the PAX global header carries it instead.
		header := &tar.Header{
			Typeflag:   tar.TypeXGlobalHeader,
			Name:       "pax_global_header",
			Format:     tar.FormatPAX,
			PAXRecords: map[string]string{"comment": comment},
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to write tar comment: %w", err), compressor.Close())
		}

		return &tarContainer{compressor: compressor, tarWriter: tarWriter}, nil
	}
}

func (c *tarContainer) Add(name string, info fs.FileInfo, content []byte) error {
	header := &tar.Header{
		Name:    name,
		Mode:    int64(info.Mode().Perm()),
		Size:    int64(len(content)),
		ModTime: info.ModTime(),
	}

	if err := c.tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}

	if _, err := c.tarWriter.Write(content); err != nil {
		return fmt.Errorf("failed to write tar content: %w", err)
	}

	return nil
}

func (c *tarContainer) Close() error {
	// Close tar writer first
	if err := c.tarWriter.Close(); err != nil {
		return errors.Join(fmt.Errorf("failed to close tar writer: %w", err), c.compressor.Close())
	}

	if err := c.compressor.Close(); err != nil {
		return fmt.Errorf("failed to close compressor: %w", err)
	}

	return nil
}

// nopWriteCloser wraps a Writer to provide a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error {
	return nil
}
