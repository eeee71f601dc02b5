// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment characteristics, and compaction intervals.
package options

import (
	"strings"
	"time"
)

// Defines configurable parameters for each segment.
// It provides fine-grained control over segment behavior, performance, and resource utilization.
type segmentOptions struct {
	// RotationThreshold defines the number of bytes the active segment may
	// grow to; an append that takes it past this size rotates it out. The
	// rotation happens whatever the inactive segment count; compaction is
	// triggered separately (see Options.CompactionThreshold).
	//
	//  - Default: 1,000,000 bytes
	//  - Minimum: 64KB
	//  - Maximum: 4GB
	RotationThreshold uint64 `json:"rotationThreshold"`

	// Specifies where segment files are stored, relative to DataDir.
	//
	// Default: "/segments"
	Directory string `json:"directory"`

	// Defines an optional filename prefix for segment files. The spec's own
	// on-disk naming rule is `<unix-nanos>.kvs` with no prefix; this knob is
	// kept for callers that want to namespace multiple stores under one
	// directory and is folded into the generated filename when non-empty.
	//
	// Default: "" (no prefix)
	Prefix string `json:"prefix"`
}

// Defines the configuration parameters for Ignite.
// It provides control over storage, performance and maintenance aspects.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Defines how often a background compaction sweep runs regardless of
	// whether the rotation/compaction thresholds have been crossed.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`

	// CompactionThreshold is the number of inactive segments that, once
	// reached after a Set or Remove, makes the engine run a compaction. It
	// does not replace the rotation: the rotation that retired the last
	// segment still happens first, and the compaction then folds every
	// segment, including the fresh active one, into one.
	//
	// Default: 10
	CompactionThreshold int `json:"compactionThreshold"`

	// EngineLabel names the backend recorded in a store's engine-selection
	// sentinel file. The core engine never reads this field itself; it
	// exists for the CLI/caller layer described in spec.md §6.4.
	//
	// Default: "ignite"
	EngineLabel string `json:"engineLabel"`

	// Configures segment management including rotation size and naming convention.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies Ignite's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.SegmentOptions = opts.SegmentOptions
		o.CompactInterval = opts.CompactInterval
		o.CompactionThreshold = opts.CompactionThreshold
		o.EngineLabel = opts.EngineLabel
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the interval at which Ignite performs a background compaction sweep.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// Sets the directory specifically for storing segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the file name prefix for segment files.
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		o.SegmentOptions.Prefix = prefix
	}
}

// Sets the rotation threshold, in bytes, for the active segment.
func WithRotationThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinRotationThreshold && size <= MaxRotationThreshold {
			o.SegmentOptions.RotationThreshold = size
		}
	}
}

// Sets the number of inactive segments that triggers compaction instead of
// a further rotation.
func WithCompactionThreshold(count int) OptionFunc {
	return func(o *Options) {
		if count > 0 {
			o.CompactionThreshold = count
		}
	}
}

// Sets the backend label recorded in a store's engine-selection sentinel.
func WithEngineLabel(label string) OptionFunc {
	return func(o *Options) {
		label = strings.TrimSpace(label)
		if label != "" {
			o.EngineLabel = label
		}
	}
}
