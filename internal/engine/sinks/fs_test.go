package sinks

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSink_Write(t *testing.T) {
	base := afero.NewMemMapFs()
	sink, err := NewFilesystemSinkFromPath(base, "/published")
	require.NoError(t, err)

	assert.Equal(t, "filesystem", sink.Kind())

	err = sink.Write(t.Context(), "2024/bundle.zip", bytes.NewReader([]byte("zip bytes")))
	require.NoError(t, err)
	require.NoError(t, sink.Close(t.Context()))

	data, err := afero.ReadFile(base, "/published/2024/bundle.zip")
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))
}

func TestFilesystemSink_Overwrites(t *testing.T) {
	base := afero.NewMemMapFs()
	sink, err := NewFilesystemSinkFromPath(base, "/out")
	require.NoError(t, err)

	require.NoError(t, sink.Write(t.Context(), "a.zip", bytes.NewReader([]byte("first version"))))
	require.NoError(t, sink.Write(t.Context(), "a.zip", bytes.NewReader([]byte("second"))))

	data, err := afero.ReadFile(base, "/out/a.zip")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestNewFilesystemSinkFromPath_ReadOnly(t *testing.T) {
	_, err := NewFilesystemSinkFromPath(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out")
	require.Error(t, err)
}
