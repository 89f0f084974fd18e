package compressors

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

const ZipKind = "zip"

// Zip writes deflate-compressed zip archives.
type Zip struct {
	builder
}

func NewZip(logger *zap.Logger, opts engine.Options) *Zip {
	return &Zip{builder: newBuilder(logger, opts, openZip)}
}

func (z *Zip) Name() string {
	return ZipKind
}

func (z *Zip) Kind() string {
	return ZipKind
}

func (z *Zip) Extension() string {
	return "zip"
}

func (z *Zip) TargetPath(base string) string {
	return targetPath(base, z.Extension())
}

func (z *Zip) Build(target string, sources []string) engine.Result {
	return z.build(target, sources)
}

type zipContainer struct {
	w *zip.Writer
}

func openZip(w io.Writer, comment string) (container, error) {
	zw := zip.NewWriter(w)
	if err := zw.SetComment(comment); err != nil {
		return nil, fmt.Errorf("failed to set zip comment: %w", err)
	}
	return &zipContainer{w: zw}, nil
}

func (c *zipContainer) Add(name string, info fs.FileInfo, content []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	header.SetMode(info.Mode().Perm())

	entry, err := c.w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", name, err)
	}

	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", name, err)
	}

	return nil
}

func (c *zipContainer) Close() error {
	if err := c.w.Close(); err != nil {
		return fmt.Errorf("failed to close zip writer: %w", err)
	}
	return nil
}
