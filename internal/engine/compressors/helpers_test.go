package compressors

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type archiveEntry struct {
	Name    string
	Content string
}

func newMemMapFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if dir != "" {
			require.NoError(t, fs.MkdirAll(dir, 0755))
		}

		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

// readZip returns the entries of the zip at path in archive order, plus its comment.
func readZip(t *testing.T, fs afero.Fs, path string) ([]archiveEntry, string) {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make([]archiveEntry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries = append(entries, archiveEntry{Name: f.Name, Content: string(content)})
	}
	return entries, zr.Comment
}

// readTar decompresses the tarball at path and returns its file entries in
// archive order, plus the comment from the PAX global header.
func readTar(t *testing.T, fs afero.Fs, path string, compression CompressionType) ([]archiveEntry, string) {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	var r io.Reader = bytes.NewReader(data)
	switch compression {
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		require.NoError(t, err)
		defer gr.Close()
		r = gr
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	}

	var comment string
	entries := []archiveEntry{}
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if h.Typeflag == tar.TypeXGlobalHeader {
			comment = h.PAXRecords["comment"]
			continue
		}
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries = append(entries, archiveEntry{Name: h.Name, Content: string(content)})
	}
	return entries, comment
}

// failingCloseFs makes every file opened for writing fail on Close, the way a
// full disk surfaces when buffered data is flushed.
type failingCloseFs struct {
	afero.Fs
}

func (f failingCloseFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return &failingCloseFile{File: file}, nil
	}
	return file, nil
}

type failingCloseFile struct {
	afero.File
}

func (f *failingCloseFile) Close() error {
	return errors.Join(f.File.Close(), errors.New("no space left on device"))
}

// lockedFs fails to open the listed paths for reading, the way a file with
// restrictive permissions does, while Stat keeps working.
type lockedFs struct {
	afero.Fs
	locked map[string]bool
}

func (f lockedFs) Open(name string) (afero.File, error) {
	if f.locked[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

// refusingWriteFs creates directories but refuses to open any file for writing.
type refusingWriteFs struct {
	afero.Fs
}

func (f refusingWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.OpenFile(name, flag, perm)
}
