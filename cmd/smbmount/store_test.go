package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutReplacesByDrive(t *testing.T) {
	s := &mountStore{}
	s.put(mountEntry{Drive: "A:", URL: "smb://h1/s1"})
	s.put(mountEntry{Drive: "B:", URL: "smb://h2/s2"})
	s.put(mountEntry{Drive: "A:", URL: "smb://h3/s3"})

	require.Len(t, s.entries, 2)
	assert.Equal(t, "smb://h3/s3", s.entries[0].URL)
	assert.Equal(t, "smb://h2/s2", s.entries[1].URL)
}

func TestStoreRemove(t *testing.T) {
	s := &mountStore{}
	s.put(mountEntry{Drive: "A:"})
	s.put(mountEntry{Drive: "B:"})

	assert.True(t, s.remove("A:"))
	assert.False(t, s.remove("A:"))
	require.Len(t, s.entries, 1)
	assert.Equal(t, "B:", s.entries[0].Drive)
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".smbfs_mounts")

	s := &mountStore{path: path}
	s.put(mountEntry{Drive: "A:", URL: "smb://host/share", User: "alice", Pass: "obscured", Server: "host", Share: "share", RootPath: "/sub"})
	require.NoError(t, s.save())

	t.Setenv("HOME", dir)
	loaded, err := loadStore()
	require.NoError(t, err)
	require.Len(t, loaded.entries, 1)
	assert.Equal(t, s.entries[0], loaded.entries[0])
}

func TestLoadStoreMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	s, err := loadStore()
	require.NoError(t, err)
	assert.Empty(t, s.entries)
}
