package script_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/adapters/script"
	"go.trai.ch/bmake/internal/core/domain"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestFileSource_Locate(t *testing.T) {
	t.Run("Bmakefile wins over example.bmake", func(t *testing.T) {
		dir := t.TempDir()
		write(t, filepath.Join(dir, "example.bmake"), "")
		write(t, filepath.Join(dir, "Bmakefile"), "")

		got, err := script.NewFileSource().Locate(dir, "")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Bmakefile"), got)
	})

	t.Run("falls back to example.bmake", func(t *testing.T) {
		dir := t.TempDir()
		write(t, filepath.Join(dir, "example.bmake"), "")

		got, err := script.NewFileSource().Locate(dir, "")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "example.bmake"), got)
	})

	t.Run("explicit relative path", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "build"), domain.DirPerm))
		write(t, filepath.Join(dir, "build", "tasks.bmake"), "")

		got, err := script.NewFileSource().Locate(dir, filepath.Join("build", "tasks.bmake"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "build", "tasks.bmake"), got)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		dir := t.TempDir()
		write(t, filepath.Join(dir, "Bmakefile"), "")

		_, err := script.NewFileSource().Locate(dir, "other.bmake")

		require.ErrorIs(t, err, domain.ErrScriptNotFound)
	})

	t.Run("nothing to find", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "Bmakefile"), domain.DirPerm))

		_, err := script.NewFileSource().Locate(dir, "")

		require.ErrorIs(t, err, domain.ErrScriptNotFound)
		assert.Contains(t, err.Error(), "no default script")
	})
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Bmakefile")
	write(t, path, "CC = gcc\r\nbuild:\n\t$(CC) main.c\n")

	src, err := script.NewFileSource().Load(path)

	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, []string{"CC = gcc\r", "build:", "\t$(CC) main.c"}, src.Lines)
}

func TestFileSource_LoadMissing(t *testing.T) {
	_, err := script.NewFileSource().Load(filepath.Join(t.TempDir(), "nope"))

	assert.ErrorIs(t, err, domain.ErrScriptNotFound)
}

func TestFileSource_LoadDirectory(t *testing.T) {
	_, err := script.NewFileSource().Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrScriptReadFailed.Error())
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, script.SplitLines(""))
	assert.Equal(t, []string{""}, script.SplitLines("\n"))
	assert.Equal(t, []string{"a", "", "b"}, script.SplitLines("a\n\nb"))
	assert.Equal(t, []string{"a", "b"}, script.SplitLines("a\nb\n"))
}
