package options

import "time"

const (
	// Specifies the default base directory where Ignite will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Defines the default time duration between automatic compaction sweeps.
	// By default, a background compaction pass runs every 5 hours regardless
	// of whether the rotation/compaction thresholds have been crossed.
	DefaultCompactInterval = time.Hour * 5

	// Represents the minimum allowed rotation threshold, in bytes (64KB).
	// Reference value per the spec's own size budget; mainly exists so tests
	// can inject a small threshold without accidentally disabling rotation.
	MinRotationThreshold uint64 = 64 * 1024

	// Represents the maximum allowed rotation threshold, in bytes (4GB).
	MaxRotationThreshold uint64 = 4 * 1024 * 1024 * 1024

	// DefaultRotationThreshold is the reference value named by the spec:
	// once the active segment exceeds this many bytes, it is retired.
	DefaultRotationThreshold uint64 = 1_000_000

	// DefaultCompactionThreshold is the reference value named by the spec:
	// once a Set or Remove leaves this many inactive segments, the engine
	// runs a compaction right after it. The rotation that produced the last
	// inactive segment still takes place.
	DefaultCompactionThreshold int = 10

	// Specifies the default subdirectory within the main data directory
	// where segment files will be stored.
	DefaultSegmentDirectory = "/segments"

	// DefaultSegmentPrefix is empty, matching the spec's own on-disk naming
	// rule of exactly <unix-nanos>.kvs. WithSegmentPrefix is an opt-in knob
	// for callers multiplexing several stores under one data directory.
	DefaultSegmentPrefix = ""

	// DefaultEngineLabel names the backend that wrote a store's engine
	// selection sentinel file (spec.md §6.4). Checked outside the core.
	DefaultEngineLabel = "ignite"
)

// Holds the default configuration settings for an Ignite instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactInterval:     DefaultCompactInterval,
	EngineLabel:         DefaultEngineLabel,
	CompactionThreshold: DefaultCompactionThreshold,
	SegmentOptions: &segmentOptions{
		RotationThreshold: DefaultRotationThreshold,
		Prefix:            DefaultSegmentPrefix,
		Directory:         DefaultSegmentDirectory,
	},
}

// NewDefaultOptions returns a fresh copy of the default configuration. The
// SegmentOptions pointer is cloned so callers mutating one Options value
// (directly or through OptionFuncs) never alias another's defaults.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segCopy := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segCopy
	return opts
}
