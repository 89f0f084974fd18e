package compressors

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/diagnostics"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTar(t *testing.T) {
	tests := []struct {
		name        string
		compression string
		wantExt     string
		wantName    string
		wantErr     bool
	}{
		{
			name:        "gzip compression",
			compression: "gzip",
			wantExt:     "tar.gz",
			wantName:    "tar(gzip)",
		},
		{
			name:        "zstd compression",
			compression: "zstd",
			wantExt:     "tar.zst",
			wantName:    "tar(zstd)",
		},
		{
			name:        "no compression",
			compression: "none",
			wantExt:     "tar",
			wantName:    "tar(none)",
		},
		{
			name:        "empty defaults to gzip",
			compression: "",
			wantExt:     "tar.gz",
			wantName:    "tar(gzip)",
		},
		{
			name:        "unsupported compression",
			compression: "bzip2",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressor, err := NewTar(zap.NewNop(), engine.Options{Compression: tt.compression})
			if tt.wantErr {
				require.Error(t, err, "NewTar() expected error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tar", compressor.Kind())
			assert.Equal(t, tt.wantName, compressor.Name())
			assert.Equal(t, tt.wantExt, compressor.Extension())
			assert.Equal(t, "out/base."+tt.wantExt, compressor.TargetPath("out/base"))
		})
	}
}

func TestTar_Build(t *testing.T) {
	for _, compression := range []CompressionType{CompressionGzip, CompressionZstd, CompressionNone} {
		t.Run(string(compression), func(t *testing.T) {
			fs := newMemMapFs(t, map[string]string{
				"/files/a/one.txt": "one",
				"/files/b/two.txt": "two",
				"/files/c/one.txt": "duplicate",
			})
			rec := diagnostics.NewRecorder()
			compressor, err := NewTar(zap.NewNop(), engine.Options{
				Fs:          fs,
				Diagnostics: rec,
				Compression: string(compression),
			})
			require.NoError(t, err)

			target := compressor.TargetPath("/out/bundle")
			result := compressor.Build(target, []string{
				"/files/a/one.txt",
				"/files/missing.txt",
				"/files/b/two.txt",
				"/files/c/one.txt",
			})

			require.True(t, result.Success)
			assert.Equal(t, []engine.Skip{
				{Path: "/files/missing.txt", Reason: engine.ReasonNotFound},
				{Path: "/files/c/one.txt", Reason: engine.ReasonAddFailed},
			}, result.Skipped)
			assert.Len(t, rec.Events(), 2)

			entries, comment := readTar(t, fs, target, compression)
			assert.Equal(t, engine.ArchiveComment, comment)
			assert.Equal(t, []archiveEntry{
				{Name: "one.txt", Content: "one"},
				{Name: "two.txt", Content: "two"},
			}, entries)
		})
	}
}

func TestTar_Build_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	compressor, err := NewTar(zap.NewNop(), engine.Options{Fs: fs})
	require.NoError(t, err)

	result := compressor.Build("/empty.tar.gz", []string{})

	require.True(t, result.Success)
	assert.Empty(t, result.Skipped)
	entries, comment := readTar(t, fs, "/empty.tar.gz", CompressionGzip)
	assert.Empty(t, entries)
	assert.Equal(t, engine.ArchiveComment, comment)
}

func TestTar_Build_Overwrites(t *testing.T) {
	fs := newMemMapFs(t, map[string]string{"/a.txt": "a", "/b.txt": "b"})
	compressor, err := NewTar(zap.NewNop(), engine.Options{Fs: fs, Compression: "none"})
	require.NoError(t, err)

	require.True(t, compressor.Build("/out.tar", []string{"/a.txt", "/b.txt"}).Success)
	require.True(t, compressor.Build("/out.tar", []string{"/b.txt"}).Success)

	entries, _ := readTar(t, fs, "/out.tar", CompressionNone)
	assert.Equal(t, []archiveEntry{{Name: "b.txt", Content: "b"}}, entries)
}

func TestTar_Build_UnwritableTarget(t *testing.T) {
	base := newMemMapFs(t, map[string]string{"/a.txt": "a"})
	rec := diagnostics.NewRecorder()
	compressor, err := NewTar(zap.NewNop(), engine.Options{Fs: afero.NewReadOnlyFs(base), Diagnostics: rec})
	require.NoError(t, err)

	result := compressor.Build("/out/a.tar.gz", []string{"/a.txt"})

	assert.False(t, result.Success)
	assert.Empty(t, result.Skipped)
	assert.Len(t, rec.Events(), 1)
}

func TestTar_Build_FinalizeFailure(t *testing.T) {
	base := newMemMapFs(t, map[string]string{"/a.txt": "a"})
	rec := diagnostics.NewRecorder()
	compressor, err := NewTar(zap.NewNop(), engine.Options{Fs: failingCloseFs{Fs: base}, Diagnostics: rec})
	require.NoError(t, err)

	result := compressor.Build("/out.tar.gz", []string{"/a.txt"})

	assert.False(t, result.Success)
	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "failed to save archive", events[0].Message)
}

func TestTar_Build_KeepsPermissions(t *testing.T) {
	fs := newMemMapFs(t, map[string]string{"/src/run.sh": "#!/bin/sh", "/src/key.pem": "key"})
	require.NoError(t, fs.Chmod("/src/run.sh", 0755))
	require.NoError(t, fs.Chmod("/src/key.pem", 0600))

	compressor, err := NewTar(zap.NewNop(), engine.Options{Fs: fs, Compression: "none"})
	require.NoError(t, err)
	require.True(t, compressor.Build("/out.tar", []string{"/src/run.sh", "/src/key.pem"}).Success)

	data, err := afero.ReadFile(fs, "/out.tar")
	require.NoError(t, err)

	modes := map[string]int64{}
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if h.Typeflag == tar.TypeReg {
			modes[h.Name] = h.Mode
		}
	}
	assert.Equal(t, map[string]int64{"run.sh": 0755, "key.pem": 0600}, modes)
}

func TestTar_Build_UnreadableSource(t *testing.T) {
	base := newMemMapFs(t, map[string]string{"/src/locked.txt": "secret", "/src/ok.txt": "ok"})
	rec := diagnostics.NewRecorder()
	compressor, err := NewTar(zap.NewNop(), engine.Options{
		Fs:          lockedFs{Fs: base, locked: map[string]bool{"/src/locked.txt": true}},
		Diagnostics: rec,
	})
	require.NoError(t, err)

	result := compressor.Build("/out.tar.gz", []string{"/src/locked.txt", "/src/ok.txt"})

	require.True(t, result.Success)
	assert.Equal(t, []engine.Skip{{Path: "/src/locked.txt", Reason: engine.ReasonNotFound}}, result.Skipped)
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, "failed to locate file", rec.Events()[0].Message)

	entries, _ := readTar(t, base, "/out.tar.gz", CompressionGzip)
	assert.Equal(t, []archiveEntry{{Name: "ok.txt", Content: "ok"}}, entries)
}
