package errors

// RecordError is a specialized error type for failures decoding or encoding
// the on-disk Set/Rm record format. It embeds baseError to inherit the
// standard chaining/detail machinery, then adds the framing-specific context
// that makes a corrupt record actionable: which segment, at what offset, and
// how many bytes were expected versus available.
type RecordError struct {
	*baseError
	path     string
	offset   int64
	expected int
	got      int
}

// NewRecordError creates a new record-codec error.
func NewRecordError(err error, code ErrorCode, msg string) *RecordError {
	return &RecordError{baseError: NewBaseError(err, code, msg)}
}

// Is reports every RecordError as matching the wire-stable ErrSerialization
// sentinel, so callers can write errors.Is(err, errors.ErrSerialization)
// instead of type-asserting to *RecordError.
func (re *RecordError) Is(target error) bool {
	return target == ErrSerialization
}

// WithMessage updates the error message while maintaining the RecordError type.
func (re *RecordError) WithMessage(msg string) *RecordError {
	re.baseError.WithMessage(msg)
	return re
}

// WithDetail adds contextual information while maintaining the RecordError type.
func (re *RecordError) WithDetail(key string, value any) *RecordError {
	re.baseError.WithDetail(key, value)
	return re
}

// WithPath records which segment file was being decoded.
func (re *RecordError) WithPath(path string) *RecordError {
	re.path = path
	return re
}

// WithOffset records the byte offset within the segment where decoding failed.
func (re *RecordError) WithOffset(offset int64) *RecordError {
	re.offset = offset
	return re
}

// WithLengths records the expected versus actually available byte counts,
// useful when a record's length prefix runs past the end of the segment.
func (re *RecordError) WithLengths(expected, got int) *RecordError {
	re.expected = expected
	re.got = got
	return re
}

// Path returns the segment file path being decoded when the error occurred.
func (re *RecordError) Path() string { return re.path }

// Offset returns the byte offset within the segment where decoding failed.
func (re *RecordError) Offset() int64 { return re.offset }

// Expected returns the number of bytes the decoder expected to read.
func (re *RecordError) Expected() int { return re.expected }

// Got returns the number of bytes actually available to the decoder.
func (re *RecordError) Got() int { return re.got }
