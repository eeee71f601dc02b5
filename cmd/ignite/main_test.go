package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/options"
)

func TestCheckEngineSentinelWritesMarkerForFreshDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	require.NoError(t, checkEngineSentinel(dir, "ignite"))

	raw, err := os.ReadFile(filepath.Join(dir, sentinelFileName))
	require.NoError(t, err)
	assert.Equal(t, "ignite", string(raw))
}

func TestCheckEngineSentinelAcceptsMatchingLabel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkEngineSentinel(dir, "ignite"))
	require.NoError(t, checkEngineSentinel(dir, "ignite"))
}

func TestCheckEngineSentinelRejectsMismatchedLabel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkEngineSentinel(dir, "ignite"))

	err := checkEngineSentinel(dir, "other-backend")
	require.Error(t, err)
	assert.True(t, errors.IsEngineError(err))
}

func newTestInstance(t *testing.T, dir string) *ignite.Instance {
	t.Helper()
	inst, err := ignite.NewInstance(
		context.Background(),
		"ignite-cli-test",
		options.WithDataDir(dir),
		options.WithRotationThreshold(options.MinRotationThreshold),
		options.WithCompactInterval(0),
	)
	require.NoError(t, err)
	return inst
}

func TestExecuteCommandSetGetDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inst := newTestInstance(t, dir)
	defer inst.Close(ctx)

	segmentDir := filepath.Join(dir, options.DefaultSegmentDirectory)

	require.NoError(t, executeCommand(ctx, inst, segmentDir, []string{"set", "k", "v"}))
	require.NoError(t, executeCommand(ctx, inst, segmentDir, []string{"get", "k"}))
	require.NoError(t, executeCommand(ctx, inst, segmentDir, []string{"delete", "k"}))

	err := executeCommand(ctx, inst, segmentDir, []string{"get", "k"})
	assert.ErrorIs(t, err, errors.ErrNonExistentKey)
}

func TestExecuteCommandUnknownVerb(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inst := newTestInstance(t, dir)
	defer inst.Close(ctx)

	err := executeCommand(ctx, inst, filepath.Join(dir, options.DefaultSegmentDirectory), []string{"frobnicate"})
	assert.Error(t, err)
}

func TestExecuteCommandSegmentsListsFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inst := newTestInstance(t, dir)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "k", []byte("v")))

	segmentDir := filepath.Join(dir, options.DefaultSegmentDirectory)
	require.NoError(t, executeCommand(ctx, inst, segmentDir, []string{"segments"}))
}

func TestListSegmentsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, listSegments(dir))
}
