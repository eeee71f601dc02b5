package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultOptionsMatchesPublishedDefaults(t *testing.T) {
	opts := NewDefaultOptions()

	assert.Equal(t, DefaultDataDir, opts.DataDir)
	assert.Equal(t, DefaultCompactInterval, opts.CompactInterval)
	assert.Equal(t, DefaultCompactionThreshold, opts.CompactionThreshold)
	assert.Equal(t, DefaultEngineLabel, opts.EngineLabel)
	assert.Equal(t, DefaultRotationThreshold, opts.SegmentOptions.RotationThreshold)
	assert.Equal(t, DefaultSegmentPrefix, opts.SegmentOptions.Prefix)
	assert.Equal(t, DefaultSegmentDirectory, opts.SegmentOptions.Directory)
}

func TestNewDefaultOptionsReturnsIndependentSegmentOptions(t *testing.T) {
	a := NewDefaultOptions()
	b := NewDefaultOptions()

	a.SegmentOptions.Prefix = "mutated"
	assert.NotEqual(t, a.SegmentOptions.Prefix, b.SegmentOptions.Prefix)
}

func TestWithDataDirIgnoresBlankValue(t *testing.T) {
	opts := NewDefaultOptions()
	WithDataDir("   ")(&opts)
	assert.Equal(t, DefaultDataDir, opts.DataDir)

	WithDataDir("/tmp/custom")(&opts)
	assert.Equal(t, "/tmp/custom", opts.DataDir)
}

func TestWithCompactIntervalRejectsNonPositive(t *testing.T) {
	opts := NewDefaultOptions()
	WithCompactInterval(-time.Second)(&opts)
	assert.Equal(t, DefaultCompactInterval, opts.CompactInterval)

	WithCompactInterval(time.Minute)(&opts)
	assert.Equal(t, time.Minute, opts.CompactInterval)
}

func TestWithRotationThresholdEnforcesBounds(t *testing.T) {
	opts := NewDefaultOptions()

	WithRotationThreshold(MinRotationThreshold - 1)(&opts)
	assert.Equal(t, DefaultRotationThreshold, opts.SegmentOptions.RotationThreshold)

	WithRotationThreshold(MaxRotationThreshold + 1)(&opts)
	assert.Equal(t, DefaultRotationThreshold, opts.SegmentOptions.RotationThreshold)

	WithRotationThreshold(MinRotationThreshold)(&opts)
	assert.Equal(t, MinRotationThreshold, opts.SegmentOptions.RotationThreshold)
}

func TestWithCompactionThresholdRejectsNonPositive(t *testing.T) {
	opts := NewDefaultOptions()
	WithCompactionThreshold(0)(&opts)
	assert.Equal(t, DefaultCompactionThreshold, opts.CompactionThreshold)

	WithCompactionThreshold(3)(&opts)
	assert.Equal(t, 3, opts.CompactionThreshold)
}

func TestWithEngineLabelIgnoresBlankValue(t *testing.T) {
	opts := NewDefaultOptions()
	WithEngineLabel("  ")(&opts)
	assert.Equal(t, DefaultEngineLabel, opts.EngineLabel)

	WithEngineLabel("custom-backend")(&opts)
	assert.Equal(t, "custom-backend", opts.EngineLabel)
}

func TestWithSegmentPrefixAndDir(t *testing.T) {
	opts := NewDefaultOptions()
	WithSegmentPrefix("primary")(&opts)
	WithSegmentDir("/custom-segments")(&opts)

	assert.Equal(t, "primary", opts.SegmentOptions.Prefix)
	assert.Equal(t, "/custom-segments", opts.SegmentOptions.Directory)
}
