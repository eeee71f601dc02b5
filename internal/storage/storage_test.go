package storage

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

func newTestStorage(t *testing.T, rotationThreshold uint64) *Storage {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.SegmentOptions.RotationThreshold = rotationThreshold

	s, err := New(context.Background(), &Config{Options: &opts, Logger: logger.NewNop()})
	require.NoError(t, err)
	return s
}

func TestAppendThenReadAt(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	rec := record.NewSet("k", "v")
	loc, err := s.Append(rec)
	require.NoError(t, err)

	raw, err := s.ReadAt(loc.SegmentPath, loc.Offset, loc.Length)
	require.NoError(t, err)

	decoded, n, err := record.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, int(loc.Length), n)
	assert.Equal(t, rec, decoded)
}

func TestAppendRotatesPastThreshold(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	firstPath := s.ActivePath()

	big := make([]byte, options.MinRotationThreshold)
	_, err := s.Append(record.NewSet("k", string(big)))
	require.NoError(t, err)

	assert.NotEqual(t, firstPath, s.ActivePath())
	assert.Contains(t, s.InactiveSegments(), firstPath)
}

func TestForceRotateIsNoopOnEmptyActiveSegment(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	firstPath := s.ActivePath()
	require.NoError(t, s.Rotate())
	assert.Equal(t, firstPath, s.ActivePath())
	assert.Empty(t, s.InactiveSegments())
}

func TestForceRotateRetiresNonEmptyActiveSegment(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	firstPath := s.ActivePath()
	_, err := s.Append(record.NewSet("k", "v"))
	require.NoError(t, err)

	require.NoError(t, s.Rotate())
	assert.NotEqual(t, firstPath, s.ActivePath())
	assert.Contains(t, s.InactiveSegments(), firstPath)
}

func TestReplaceAllRejectsMismatch(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	_, err := s.ReplaceAll([]string{"/nonexistent.kvs"}, s.ActivePath(), "/merged.kvs")
	require.Error(t, err)
}

func TestReplaceAllSwapsActiveSegment(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	defer s.Close()

	oldActive := s.ActivePath()

	mergedPath := oldActive + ".merged"
	require.NoError(t, os.WriteFile(mergedPath, nil, 0644))

	folded, err := s.ReplaceAll(nil, oldActive, mergedPath)
	require.NoError(t, err)
	assert.Equal(t, []string{oldActive}, folded)
	assert.Equal(t, mergedPath, s.ActivePath())
	assert.Empty(t, s.InactiveSegments())

	_, err = s.Append(record.NewSet("k", "v"))
	require.NoError(t, err)
}

func TestOperationsFailAfterClose(t *testing.T) {
	s := newTestStorage(t, options.MinRotationThreshold)
	require.NoError(t, s.Close())

	_, err := s.Append(record.NewSet("k", "v"))
	assert.ErrorIs(t, err, ErrSegmentClosed)

	err = s.Close()
	assert.ErrorIs(t, err, ErrSegmentClosed)
}

func TestReopenResumesActiveSegmentWithRoom(t *testing.T) {
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	opts.SegmentOptions.RotationThreshold = options.MaxRotationThreshold

	s1, err := New(context.Background(), &Config{Options: &opts, Logger: logger.NewNop()})
	require.NoError(t, err)

	loc, err := s1.Append(record.NewSet("k", "v"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := New(context.Background(), &Config{Options: &opts, Logger: logger.NewNop()})
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, loc.SegmentPath, s2.ActivePath())

	raw, err := s2.ReadAt(loc.SegmentPath, loc.Offset, loc.Length)
	require.NoError(t, err)
	decoded, _, err := record.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "k", decoded.Key)
	assert.Equal(t, "v", decoded.Value)
}
