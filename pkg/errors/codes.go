package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrorCodeInvalidState represents an operation rejected because the
	// component it targets is not in a state that allows it, distinct from
	// ErrorCodeInvalidInput: the caller-supplied data may be perfectly
	// valid, but a precondition the operation depends on (e.g. a segment
	// list matching what compaction was given at the start of a fold) no
	// longer holds.
	ErrorCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes cover the failure modes of the in-memory
// key -> location map: missing keys, stale segment references, and the
// rare case where the map itself is found to be inconsistent.
const (
	// ErrorCodeIndexKeyNotFound indicates a lookup for a key with no entry
	// in the index. Callers treat this as "not present", not as a fault.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexInvalidSegmentID indicates an index entry points at a
	// segment identifier the storage layer no longer recognizes.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"

	// ErrorCodeIndexTimestampExtraction indicates a segment filename could
	// not be parsed into its constituent identifier/timestamp parts.
	ErrorCodeIndexTimestampExtraction ErrorCode = "INDEX_TIMESTAMP_EXTRACTION_FAILED"

	// ErrorCodeIndexCorrupted indicates the index's internal data structure
	// failed a consistency check (e.g. after a panic during a locked mutation).
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"

	// ErrorCodeIndexClosed indicates an operation against an index whose
	// Close has already run.
	ErrorCodeIndexClosed ErrorCode = "INDEX_CLOSED"
)

// Record-specific error codes cover the on-disk Set/Rm codec.
const (
	// ErrorCodeRecordCorrupt indicates a record's framing could not be
	// decoded — a short read, an unknown tag byte, or a length prefix that
	// runs past the available bytes.
	ErrorCodeRecordCorrupt ErrorCode = "RECORD_CORRUPT"
)

// Compaction-specific error codes.
const (
	// ErrorCodeCompactionFailed indicates the compactor could not complete
	// a fold-and-replace cycle (e.g. the replacement segment could not be
	// made durable, or a stale segment could not be unlinked).
	ErrorCodeCompactionFailed ErrorCode = "COMPACTION_FAILED"
)

// Engine-specific error codes.
const (
	// ErrorCodeEngineClosed indicates an operation against an engine whose
	// Close has already run.
	ErrorCodeEngineClosed ErrorCode = "ENGINE_CLOSED"

	// ErrorCodeEnginePoisoned indicates a prior operation left the engine's
	// shared state in an inconsistent condition (e.g. a panic while holding
	// the writer-exclusive role), so every subsequent operation fails fast
	// rather than risking silent corruption.
	ErrorCodeEnginePoisoned ErrorCode = "ENGINE_POISONED"

	// ErrorCodeNonExistentKey indicates Remove was called for a key with no
	// live mapping in the index.
	ErrorCodeNonExistentKey ErrorCode = "NON_EXISTENT_KEY"

	// ErrorCodeFileListEmpty indicates the storage layer's segment list was
	// empty after Open should have guaranteed at least one segment exists.
	// Reaching this code is always a bug, not an expected runtime condition.
	ErrorCodeFileListEmpty ErrorCode = "FILE_LIST_EMPTY"

	// ErrorCodeWrongEngine indicates the database directory's engine
	// selection sentinel names a backend other than the one opening it.
	ErrorCodeWrongEngine ErrorCode = "WRONG_ENGINE"

	// ErrorCodeOther is reserved for failures that don't fit any other
	// category; it exists so the wire error-kind taxonomy has a name for
	// "something else happened" without inventing a new code per call site.
	ErrorCodeOther ErrorCode = "OTHER"

	// ErrorCodeNotImplemented indicates a public method that exists for API
	// symmetry but is intentionally out of scope for this engine.
	ErrorCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
)
