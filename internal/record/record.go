// Package record implements the on-disk framing for the two kinds of entry
// an Ignite segment file can hold: a Set (a key/value pair becomes current)
// and an Rm (a key is deleted, shadowing any prior Set for it on replay).
//
// The framing is a small length-prefixed binary format built directly on
// encoding/binary, the same approach used by every record-framing example
// retrieved for this engine (see DESIGN.md) — no third-party serialization
// library appears anywhere in the corpus for this concern.
//
// Wire layout, all integers big-endian:
//
//	tag      1 byte   (tagSet | tagRm)
//	keyLen   4 bytes
//	key      keyLen bytes
//	valLen   4 bytes  (Set only)
//	value    valLen bytes (Set only)
package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

type tag byte

const (
	tagSet tag = 1
	tagRm  tag = 2
)

// headerLen is the fixed byte cost of the tag plus one length prefix.
const headerLen = 1 + 4

// Record is a single decoded Set or Rm entry. A Record with Tombstone set
// represents an Rm; its Value is always empty.
type Record struct {
	Key       string
	Value     string
	Tombstone bool
}

// NewSet builds a Record representing Set(key, value).
func NewSet(key, value string) Record {
	return Record{Key: key, Value: value}
}

// NewRm builds a Record representing Rm(key).
func NewRm(key string) Record {
	return Record{Key: key, Tombstone: true}
}

// Encode serializes r into its on-disk byte representation. The returned
// slice's length is the authoritative byte_length an index entry must
// record for this record (spec.md §4.A).
func Encode(r Record) []byte {
	if r.Tombstone {
		buf := make([]byte, headerLen+len(r.Key))
		buf[0] = byte(tagRm)
		binary.BigEndian.PutUint32(buf[1:5], uint32(len(r.Key)))
		copy(buf[headerLen:], r.Key)
		return buf
	}

	buf := make([]byte, headerLen+len(r.Key)+4+len(r.Value))
	buf[0] = byte(tagSet)
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(r.Key)))
	off := headerLen
	off += copy(buf[off:], r.Key)
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(len(r.Value)))
	off += 4
	copy(buf[off:], r.Value)
	return buf
}

// Decode reads exactly one record from r and returns it along with the
// number of bytes consumed, so callers can recover the stream offset of the
// next record without any external framing (spec.md §4.A's streaming
// requirement). A clean end-of-stream before any byte of a new record is
// read is reported as io.EOF; any other truncation or malformed tag is
// reported as a *kverrors.RecordError wrapping io.ErrUnexpectedEOF or the
// underlying I/O error, distinguishable from plain I/O failure via
// kverrors.IsRecordError.
func Decode(r io.Reader) (Record, int, error) {
	var header [headerLen]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return Record{}, 0, io.EOF
		}
		return Record{}, n, corrupt(err, "failed to read record header")
	}

	recordTag := tag(header[0])
	keyLen := int(binary.BigEndian.Uint32(header[1:5]))
	consumed := headerLen

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return Record{}, consumed, corrupt(err, "failed to read record key").
			WithLengths(keyLen, 0)
	}
	consumed += keyLen

	switch recordTag {
	case tagRm:
		return Record{Key: string(key), Tombstone: true}, consumed, nil

	case tagSet:
		var valLenBuf [4]byte
		if _, err := io.ReadFull(r, valLenBuf[:]); err != nil {
			return Record{}, consumed, corrupt(err, "failed to read value length")
		}
		consumed += 4

		valLen := int(binary.BigEndian.Uint32(valLenBuf[:]))
		value := make([]byte, valLen)
		if _, err := io.ReadFull(r, value); err != nil {
			return Record{}, consumed, corrupt(err, "failed to read record value").
				WithLengths(valLen, 0)
		}
		consumed += valLen

		return Record{Key: string(key), Value: string(value)}, consumed, nil

	default:
		return Record{}, consumed, kverrors.NewRecordError(
			nil, kverrors.ErrorCodeRecordCorrupt, "unknown record tag",
		).WithDetail("tag", byte(recordTag))
	}
}

// DecodeAll decodes every record from r in order, invoking fn with each
// record and the byte offset at which it began. It stops at the first clean
// EOF between records and returns any decode error encountered, matching
// spec.md §3 invariant 4's replay-in-file-order requirement.
func DecodeAll(r io.Reader, fn func(rec Record, offset int64, length int) error) error {
	br := bufio.NewReader(r)
	var offset int64

	for {
		rec, n, err := Decode(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(rec, offset, n); err != nil {
			return err
		}
		offset += int64(n)
	}
}

func corrupt(cause error, msg string) *kverrors.RecordError {
	if errors.Is(cause, io.EOF) {
		cause = io.ErrUnexpectedEOF
	}
	return kverrors.NewRecordError(cause, kverrors.ErrorCodeRecordCorrupt, msg)
}
