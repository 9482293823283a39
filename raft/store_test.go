package raft

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactIndex_RecordAndGet(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewArtifactIndex(filepath.Join(dir, "artifacts"))
	require.NoError(t, err)

	meshPath := filepath.Join(dir, "flake.stl")
	require.NoError(t, os.WriteFile(meshPath, []byte("solid octaflake\nendsolid\n"), 0644))

	a, err := idx.Record("job-1", meshPath)
	require.NoError(t, err)
	assert.Equal(t, int64(25), a.SizeBytes)
	assert.Len(t, a.SHA256, 64)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := idx.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, a.SHA256, got.SHA256)
	assert.Equal(t, meshPath, got.Path)

	assert.ElementsMatch(t, []string{"job-1"}, idx.JobIDs())
}

func TestArtifactIndex_InMemoryMode(t *testing.T) {
	idx, err := NewArtifactIndex("")
	require.NoError(t, err)

	require.NoError(t, idx.Put(Artifact{JobID: "job-1", Path: "a.stl"}))
	a, err := idx.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, "a.stl", a.Path)

	require.NoError(t, idx.Delete("job-1"))
	_, err = idx.Get("job-1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArtifactIndex_RejectsEmptyJobID(t *testing.T) {
	idx, err := NewArtifactIndex("")
	require.NoError(t, err)
	assert.Error(t, idx.Put(Artifact{Path: "a.stl"}))
}

func TestArtifactIndex_BackupRestore(t *testing.T) {
	src, err := NewArtifactIndex("")
	require.NoError(t, err)
	require.NoError(t, src.Put(Artifact{JobID: "job-1", Path: "a.stl", SHA256: "aa"}))
	require.NoError(t, src.Put(Artifact{JobID: "job-2", Path: "b.stl", SHA256: "bb"}))

	var buf bytes.Buffer
	require.NoError(t, src.Backup(&buf))

	dst, err := NewArtifactIndex(filepath.Join(t.TempDir(), "restored"))
	require.NoError(t, err)
	require.NoError(t, dst.Restore(&buf))

	assert.ElementsMatch(t, []string{"job-1", "job-2"}, dst.JobIDs())
	a, err := dst.Get("job-2")
	require.NoError(t, err)
	assert.Equal(t, "bb", a.SHA256)
}
