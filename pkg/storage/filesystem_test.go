package storage

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("agreement-sub-1.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "agreement-sub-1.pdf", name)

	file, err := store.Open("agreement-sub-1.pdf")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestLocalStorageDeleteMissingFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("never-saved.pdf"))
}

func TestLocalStorageSaveNested(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("2026/agreement-sub-1.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	_, err = os.Stat(store.Path("2026/agreement-sub-1.pdf"))
	assert.NoError(t, err)
}
