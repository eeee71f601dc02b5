package compaction

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

func newHarness(t *testing.T) (*storage.Storage, *index.Index, *options.Options) {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.SegmentOptions.RotationThreshold = options.MinRotationThreshold

	st, err := storage.New(context.Background(), &storage.Config{Options: &opts, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := index.New(context.Background(), &index.Config{DataDir: opts.DataDir, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return st, idx, &opts
}

func writeKey(t *testing.T, st *storage.Storage, idx *index.Index, key, value string) {
	t.Helper()
	loc, err := st.Append(record.NewSet(key, value))
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(key, loc))
}

func removeKey(t *testing.T, st *storage.Storage, idx *index.Index, key string) {
	t.Helper()
	_, err := st.Append(record.NewRm(key))
	require.NoError(t, err)
	_, err = idx.Erase(key)
	require.NoError(t, err)
}

func TestRunCollapsesSingleActiveSegment(t *testing.T) {
	st, idx, opts := newHarness(t)
	require.Empty(t, st.InactiveSegments())

	writeKey(t, st, idx, "only", "value")
	activeBefore := st.ActivePath()

	require.NoError(t, Run(st, idx, opts, logger.NewNop()))

	assert.Empty(t, st.InactiveSegments())
	assert.NotEqual(t, activeBefore, st.ActivePath())

	loc, ok, err := idx.Lookup("only")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st.ActivePath(), loc.SegmentPath)
}

func TestRunCollapsesEverySegmentKeepingLatestValue(t *testing.T) {
	st, idx, opts := newHarness(t)

	writeKey(t, st, idx, "a", "first")
	require.NoError(t, st.Rotate())
	writeKey(t, st, idx, "a", "second")
	require.NoError(t, st.Rotate())
	writeKey(t, st, idx, "b", "only")

	require.Len(t, st.InactiveSegments(), 2)

	require.NoError(t, Run(st, idx, opts, logger.NewNop()))

	assert.Empty(t, st.InactiveSegments())

	locA, ok, err := idx.Lookup("a")
	require.NoError(t, err)
	require.True(t, ok)

	raw, err := st.ReadAt(locA.SegmentPath, locA.Offset, locA.Length)
	require.NoError(t, err)
	decoded, _, err := record.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "second", decoded.Value)

	locB, ok, err := idx.Lookup("b")
	require.NoError(t, err)
	require.True(t, ok)
	raw, err = st.ReadAt(locB.SegmentPath, locB.Offset, locB.Length)
	require.NoError(t, err)
	decoded, _, err = record.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "only", decoded.Value)
	assert.Equal(t, locA.SegmentPath, locB.SegmentPath)
}

func TestRunDropsTombstonedKeys(t *testing.T) {
	st, idx, opts := newHarness(t)

	writeKey(t, st, idx, "gone", "value")
	require.NoError(t, st.Rotate())
	removeKey(t, st, idx, "gone")

	require.NoError(t, Run(st, idx, opts, logger.NewNop()))

	assert.Empty(t, st.InactiveSegments())
	_, ok, err := idx.Lookup("gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunFoldsActiveSegmentKeysIntoReplacement(t *testing.T) {
	st, idx, opts := newHarness(t)

	writeKey(t, st, idx, "inactive-key", "v1")
	require.NoError(t, st.Rotate())

	writeKey(t, st, idx, "active-key", "v2")

	require.NoError(t, Run(st, idx, opts, logger.NewNop()))

	assert.Empty(t, st.InactiveSegments())

	for key, want := range map[string]string{"inactive-key": "v1", "active-key": "v2"} {
		loc, ok, err := idx.Lookup(key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, st.ActivePath(), loc.SegmentPath)

		raw, err := st.ReadAt(loc.SegmentPath, loc.Offset, loc.Length)
		require.NoError(t, err)
		decoded, _, err := record.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, want, decoded.Value)
	}
}
