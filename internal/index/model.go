package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Location is the in-memory record of where one key's most recent value
// lives on disk: which segment file, at what byte offset, spanning how many
// bytes. It is the absolute minimum metadata needed to retrieve a value
// without scanning — spec.md's data model calls this triple out explicitly
// as (segment_path, byte_offset, byte_length), and the index stores exactly
// that, one per live key.
//
// An earlier design kept a compact numeric segment ID instead of the path
// string, trading memory for indirection through a separate ID registry.
// That registry doesn't exist anywhere else in this engine — segments are
// already named by filename everywhere else (pkg/seginfo, internal/storage,
// internal/compaction) — so storing the path directly avoids inventing a
// second naming scheme just to save a few bytes per entry.
type Location struct {
	// SegmentPath is the path of the segment file holding the current value
	// for this key (the data directory joined with the segment directory and
	// file name).
	SegmentPath string

	// Offset is the byte position within SegmentPath where the record's
	// encoded bytes begin (the first byte of the tag, per internal/record).
	Offset int64

	// Length is the total number of bytes the encoded record occupies,
	// exactly as returned by record.Encode / record.Decode. A single read
	// of Length bytes starting at Offset recovers the whole record.
	Length int64
}

// Index is the in-memory hash table mapping every live key to its Location.
// Tombstoned keys are absent from the map entirely: Erase removes the
// entry rather than recording a deletion marker, since the on-disk Rm
// record is what carries tombstone information during replay, not the
// index.
type Index struct {
	dataDir  string
	log      *zap.SugaredLogger
	entries  map[string]Location
	mu       sync.RWMutex
	closed   atomic.Bool
}

// Config encapsulates the configuration parameters required to initialize an Index.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}
