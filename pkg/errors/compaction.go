package errors

// CompactionError is a specialized error type for failures during the
// fold-live-records-into-one-segment cycle. It embeds baseError and adds
// the context needed to tell which stage of compaction failed.
type CompactionError struct {
	*baseError
	stage          string
	segmentsBefore int
	liveKeys       int
}

// NewCompactionError creates a new compaction-specific error.
func NewCompactionError(err error, code ErrorCode, msg string) *CompactionError {
	return &CompactionError{baseError: NewBaseError(err, code, msg)}
}

// WithDetail adds contextual information while maintaining the CompactionError type.
func (ce *CompactionError) WithDetail(key string, value any) *CompactionError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithStage records which step of the compaction algorithm failed
// ("replay", "write", "unlink", ...).
func (ce *CompactionError) WithStage(stage string) *CompactionError {
	ce.stage = stage
	return ce
}

// WithSegmentsBefore records how many segments existed going into compaction.
func (ce *CompactionError) WithSegmentsBefore(n int) *CompactionError {
	ce.segmentsBefore = n
	return ce
}

// WithLiveKeys records the size of the live-key set compaction computed
// before the failure occurred.
func (ce *CompactionError) WithLiveKeys(n int) *CompactionError {
	ce.liveKeys = n
	return ce
}

// Stage returns which step of compaction failed.
func (ce *CompactionError) Stage() string { return ce.stage }

// SegmentsBefore returns how many segments existed going into compaction.
func (ce *CompactionError) SegmentsBefore() int { return ce.segmentsBefore }

// LiveKeys returns the size of the live-key set at the point of failure.
func (ce *CompactionError) LiveKeys() int { return ce.liveKeys }
