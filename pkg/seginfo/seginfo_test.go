package seginfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNameWithoutPrefix(t *testing.T) {
	assert.Equal(t, "1700000000000000000.kvs", GenerateName(1700000000000000000, ""))
}

func TestGenerateNameWithPrefix(t *testing.T) {
	assert.Equal(t, "1700000000000000000_primary.kvs", GenerateName(1700000000000000000, "primary"))
}

func TestParseTimestampRoundTripsWithAndWithoutPrefix(t *testing.T) {
	nanos, err := ParseTimestamp(GenerateName(1700000000000000000, ""))
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000000000000, nanos)

	nanos, err = ParseTimestamp(GenerateName(1700000000000000000, "primary"))
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000000000000, nanos)
}

func TestParseTimestampRejectsMalformedName(t *testing.T) {
	_, err := ParseTimestamp("not-a-timestamp.kvs")
	assert.Error(t, err)
}

func TestListSegmentsReturnsEmptyForMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	paths, err := ListSegments(dir)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestListSegmentsSortsByCreationOrderAndIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	names := []string{
		GenerateName(3000, ""),
		GenerateName(1000, ""),
		GenerateName(2000, "tagged"),
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignore me"), 0644))

	paths, err := ListSegments(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, GenerateName(1000, ""), filepath.Base(paths[0]))
	assert.Equal(t, GenerateName(2000, "tagged"), filepath.Base(paths[1]))
	assert.Equal(t, GenerateName(3000, ""), filepath.Base(paths[2]))
}

func TestGetFileInfoReportsSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, GenerateName(1000, ""))
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.EqualValues(t, 5, info.Size())
}

func TestGetFileInfoMissingFile(t *testing.T) {
	_, err := GetFileInfo(filepath.Join(t.TempDir(), "missing.kvs"))
	assert.Error(t, err)
}
