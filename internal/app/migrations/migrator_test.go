package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("/x/migrations/001_init.sql"))
	assert.Equal(t, "002", versionOf("002_add_index_on_results.sql"))
	assert.Equal(t, "solo.sql", versionOf("solo.sql"))
}

func TestPendingFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"010_later.sql", "002_second.sql", "001_init.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := pendingFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_init.sql"),
		filepath.Join(dir, "002_second.sql"),
		filepath.Join(dir, "010_later.sql"),
	}, files)
}

func TestPendingFilesMissingDir(t *testing.T) {
	_, err := pendingFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
