package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

func TestEncodeDecodeSetRoundTrip(t *testing.T) {
	rec := NewSet("hello", "world")
	buf := Encode(rec)

	decoded, n, err := Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, rec, decoded)
}

func TestEncodeDecodeRmRoundTrip(t *testing.T) {
	rec := NewRm("gone")
	buf := Encode(rec)

	decoded, n, err := Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.True(t, decoded.Tombstone)
	assert.Equal(t, "gone", decoded.Key)
	assert.Empty(t, decoded.Value)
}

func TestEncodeEmptyValue(t *testing.T) {
	rec := NewSet("k", "")
	buf := Encode(rec)

	decoded, _, err := Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestDecodeCleanEOF(t *testing.T) {
	_, n, err := Decode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	buf := Encode(NewSet("key", "value"))
	_, _, err := Decode(bytes.NewReader(buf[:2]))
	require.Error(t, err)
	assert.True(t, kverrors.IsRecordError(err))
}

func TestDecodeTruncatedValue(t *testing.T) {
	buf := Encode(NewSet("key", "value"))
	_, _, err := Decode(bytes.NewReader(buf[:len(buf)-2]))
	require.Error(t, err)
	assert.True(t, kverrors.IsRecordError(err))
}

func TestDecodeUnknownTag(t *testing.T) {
	buf := Encode(NewSet("key", "value"))
	buf[0] = 0xFF

	_, _, err := Decode(bytes.NewReader(buf))
	require.Error(t, err)
	assert.True(t, kverrors.IsRecordError(err))
}

func TestDecodeAllOrdersAndOffsets(t *testing.T) {
	var buf bytes.Buffer
	recs := []Record{
		NewSet("a", "1"),
		NewSet("b", "2"),
		NewRm("a"),
	}
	for _, r := range recs {
		buf.Write(Encode(r))
	}

	var got []Record
	var offsets []int64
	err := DecodeAll(bytes.NewReader(buf.Bytes()), func(rec Record, offset int64, length int) error {
		got = append(got, rec)
		offsets = append(offsets, offset)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, recs, got)

	assert.Equal(t, int64(0), offsets[0])
	assert.Equal(t, int64(len(Encode(recs[0]))), offsets[1])
}
