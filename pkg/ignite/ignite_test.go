package ignite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
)

func newTestInstance(t *testing.T) *Instance {
	t.Helper()
	dir := t.TempDir()

	inst, err := NewInstance(
		context.Background(),
		"ignite-test",
		options.WithDataDir(dir),
		options.WithRotationThreshold(options.MinRotationThreshold),
		options.WithCompactInterval(0),
	)
	require.NoError(t, err)
	return inst
}

func TestInstanceSetGetDelete(t *testing.T) {
	ctx := context.Background()
	inst := newTestInstance(t)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "k", []byte("v")))

	got, err := inst.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, inst.Delete(ctx, "k"))

	_, err = inst.Get(ctx, "k")
	assert.ErrorIs(t, err, errors.ErrNonExistentKey)
}

func TestInstanceSetXNotImplemented(t *testing.T) {
	ctx := context.Background()
	inst := newTestInstance(t)
	defer inst.Close(ctx)

	err := inst.SetX(ctx, "k", []byte("v"), 0)
	assert.ErrorIs(t, err, errors.ErrNotImplemented)
}
