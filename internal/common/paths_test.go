package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath_Cleans(t *testing.T) {
	assert.Equal(t, NormalizePath(filepath.Join("a", "b")), NormalizePath(filepath.Join("a", ".", "b")))
	assert.Equal(t, NormalizePath(filepath.Join("a", "b")), NormalizePath(filepath.Join("a", "c", "..", "b")))
}

func TestSamePath(t *testing.T) {
	assert.True(t, SamePath("/x/y/z.txt", "/x/./y/z.txt"))
	assert.False(t, SamePath("/x/y/z.txt", "/x/y/other.txt"))
}

func TestHasPathPrefix(t *testing.T) {
	assert.True(t, HasPathPrefix("/root/ws/file.txt", "/root/ws"))
	assert.True(t, HasPathPrefix("/root/ws", "/root/ws"))
	assert.True(t, HasPathPrefix("/root/ws/file.txt", "/"))

	// A string prefix is not a path prefix.
	assert.False(t, HasPathPrefix("/root/ws-other/file.txt", "/root/ws"))
	assert.False(t, HasPathPrefix("/elsewhere/file.txt", "/root/ws"))
}

func TestRelativeTo(t *testing.T) {
	rel, err := RelativeTo("/root/ws/sub/file.txt", "/root/ws")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("sub", "file.txt"), rel)

	_, err = RelativeTo("/elsewhere/file.txt", "/root/ws")
	assert.Error(t, err)
}
