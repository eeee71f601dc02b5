// Package seginfo provides utilities for managing the segment files of an
// Ignite database directory.
//
// Filename format: <unix-nanos>[_prefix].kvs
//
//	<unix-nanos>: the nanosecond-precision Unix timestamp at which the
//	              segment was created. Because segments are always created
//	              in increasing wall-clock order and are never renamed,
//	              lexicographic sort on the filename equals creation order —
//	              this is the replay/activation order spec.md §3/§4.B require.
//	prefix:       an optional, configured label (see pkg/options); omitted
//	              by default, since spec.md's own naming rule has no prefix.
//	.kvs:         fixed extension.
//
// Example filenames:
//
//	1732650000123456789.kvs
//	1732650000123456789_primary.kvs
package seginfo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/pkg/filesys"
)

// Extension is the fixed suffix every segment file carries.
const Extension = ".kvs"

// ListSegments returns the full paths of every segment file in segmentDir,
// sorted by filename ascending — which, per the naming rule above, is also
// creation order. An empty, non-existent, or segment-free directory returns
// an empty slice and no error.
func ListSegments(segmentDir string) ([]string, error) {
	exists, err := filesys.Exists(segmentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat segment directory %s: %w", segmentDir, err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := os.ReadDir(segmentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment directory %s: %w", segmentDir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		paths = append(paths, filepath.Join(segmentDir, entry.Name()))
	}

	// Lexicographic sort matches creation order because every filename
	// starts with a decimal nanosecond timestamp; Unix nanosecond
	// timestamps only grow in digit count over centuries, so equal-width
	// ASCII digit comparison stays numeric for the life of any real store.
	slices.Sort(paths)
	return paths, nil
}

// GenerateName creates a new segment filename for the given creation
// timestamp (Unix nanoseconds) and optional prefix label.
func GenerateName(unixNanos int64, prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return fmt.Sprintf("%d%s", unixNanos, Extension)
	}
	return fmt.Sprintf("%d_%s%s", unixNanos, prefix, Extension)
}

// ParseTimestamp extracts the creation timestamp (Unix nanoseconds) encoded
// in a segment filename, ignoring any trailing prefix label.
func ParseTimestamp(path string) (int64, error) {
	name := strings.TrimSuffix(filepath.Base(path), Extension)
	digits := name
	if idx := strings.IndexByte(name, '_'); idx >= 0 {
		digits = name[:idx]
	}

	nanos, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("segment filename %q does not encode a valid timestamp: %w", path, err)
	}
	return nanos, nil
}

// GetFileInfo safely retrieves file system metadata for a given path.
func GetFileInfo(filePath string) (os.FileInfo, error) {
	file, err := os.OpenFile(filePath, os.O_RDONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", filePath, err)
	}
	return stat, nil
}
