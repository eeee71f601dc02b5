package errors

import stdErrors "errors"

// Wire-stable sentinel errors. spec.md §7 requires error *kinds* whose wire
// names are stable across releases even if the human-readable message
// changes. The engine returns ErrNonExistentKey directly, every
// *StorageError matches ErrIO and every *RecordError matches
// ErrSerialization through their Is methods, and the engine's poisoned
// error wraps ErrSerialization, so errors.Is reaches one of these for those
// failures. Closed-handle errors (ErrEngineClosed, ErrIndexClosed,
// ErrSegmentClosed) and validation errors match none of them.
var (
	// ErrNonExistentKey is returned by Remove when the target key has no
	// live mapping in the index.
	ErrNonExistentKey = stdErrors.New("kv: key does not exist")

	// ErrSerialization is returned for record codec failures and for engine
	// poisoning (both are, at the wire level, "SerializationError").
	ErrSerialization = stdErrors.New("kv: serialization error")

	// ErrIO is returned for filesystem/storage failures.
	ErrIO = stdErrors.New("kv: io error")

	// ErrFileListEmpty indicates storage.New's segment discovery invariant
	// was violated; reaching this is always a bug. No code path in this
	// module returns it.
	ErrFileListEmpty = stdErrors.New("kv: file list empty")

	// ErrWrongEngine indicates a database directory's engine-selection
	// sentinel names a different backend. Checked outside the core, by
	// cmd/ignite, per spec.md §6.4.
	ErrWrongEngine = stdErrors.New("kv: wrong engine")

	// ErrOther is reserved for failures that do not fit any other wire kind.
	ErrOther = stdErrors.New("kv: other error")

	// ErrNotImplemented marks API surface that exists for symmetry with the
	// teacher's public facade but is intentionally out of scope (TTLs).
	ErrNotImplemented = stdErrors.New("kv: not implemented")
)

// WireName returns the stable wire-protocol name for an error produced by
// this package, for use by a network layer serializing a KvResponse. It
// matches the table in SPEC_FULL.md §3. Errors that don't match any known
// sentinel are reported as "Other".
func WireName(err error) string {
	switch {
	case stdErrors.Is(err, ErrNonExistentKey):
		return "NonExistentKey"
	case stdErrors.Is(err, ErrSerialization):
		return "SerializationError"
	case stdErrors.Is(err, ErrIO):
		return "IOError"
	case stdErrors.Is(err, ErrFileListEmpty):
		return "FileListEmpty"
	case stdErrors.Is(err, ErrWrongEngine):
		return "WrongEngine"
	default:
		return "Other"
	}
}
