package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSortsKeysAndKeepsUnicode(t *testing.T) {
	got, err := Encode(map[string]float64{"Pain au Chocolat": 1.5, "Brötchen": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"Brötchen\": 2,\n    \"Pain au Chocolat\": 1.5\n}\n", string(got))
}

func TestWriteReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, Write(path, map[string]int{"a": 1, "b": 2}))
	require.NoError(t, Write(path, map[string]int{"a": 3}))

	var got map[string]int
	require.NoError(t, Read(path, &got))
	assert.Equal(t, map[string]int{"a": 3}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReadMissing(t *testing.T) {
	var v map[string]int
	assert.Error(t, Read(filepath.Join(t.TempDir(), "nope.json"), &v))
}
