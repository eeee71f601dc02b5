// Package storage provides the append-only segment file management
// underlying an Ignite store: writing new records to a single active
// segment, rotating it out once it grows past a configured threshold, and
// serving positional reads for any record in any segment, active or
// retired.
//
// The storage engine maintains exactly one active segment file at any given
// time. This active segment is where all new data gets appended. Once it
// grows past its size threshold, the system retires it to the inactive list
// and opens a new one, ensuring continuous write availability.
//
// When the storage system starts up, it performs a bootstrap/recovery pass:
// it scans the configured directory for existing segments (oldest first,
// per pkg/seginfo's filename ordering), treats every segment but the most
// recent as already-inactive, and either resumes appending to the most
// recent segment (if it still has room) or retires it too and opens a
// fresh one.
package storage

import (
	"context"
	stdErrors "errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/ignitedb/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

var (
	ErrSegmentClosed = stdErrors.New("operation failed: cannot access closed segment")
)

// Storage represents the core file-based storage component responsible for
// managing segment files and handling data persistence operations.
type Storage struct {
	mu sync.Mutex // serializes appends and rotation against the active segment

	activePath   string
	activeFile   *os.File
	activeOffset int64 // current size of the active segment, in bytes

	inactive []string // retired segment paths, oldest first

	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
}

// Config encapsulates all the configuration parameters required to
// initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Storage instance, performing the
// bootstrap/recovery process described above.
func New(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config")
	}

	opts := config.Options
	config.Logger.Infow(
		"initializing storage system",
		"dataDir", opts.DataDir,
		"rotationThreshold", opts.SegmentOptions.RotationThreshold,
		"segmentDir", opts.SegmentOptions.Directory,
	)

	segmentDirPath := filepath.Join(opts.DataDir, opts.SegmentOptions.Directory)
	if err := filesys.CreateDir(segmentDirPath, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, segmentDirPath)
	}

	existing, err := seginfo.ListSegments(segmentDirPath)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segments").
			WithPath(segmentDirPath)
	}

	s := &Storage{options: opts, log: config.Logger}

	if len(existing) == 0 {
		config.Logger.Infow("no existing segments found, starting fresh")
		if err := s.openNewSegment(); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.inactive = existing[:len(existing)-1]
	mostRecent := existing[len(existing)-1]

	info, err := seginfo.GetFileInfo(mostRecent)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat most recent segment").
			WithPath(mostRecent)
	}

	if uint64(info.Size()) >= opts.SegmentOptions.RotationThreshold {
		config.Logger.Infow("most recent segment is already full, retiring it", "path", mostRecent)
		s.inactive = append(s.inactive, mostRecent)
		if err := s.openNewSegment(); err != nil {
			return nil, err
		}
		return s, nil
	}

	config.Logger.Infow("resuming active segment", "path", mostRecent, "size", info.Size())
	file, err := os.OpenFile(mostRecent, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, mostRecent, filepath.Base(mostRecent))
	}

	s.activePath = mostRecent
	s.activeFile = file
	s.activeOffset = info.Size()
	return s, nil
}

// openNewSegment retires nothing by itself; callers must already have
// pushed the previous active path onto s.inactive before calling this.
func (s *Storage) openNewSegment() error {
	name := seginfo.GenerateName(time.Now().UnixNano(), s.options.SegmentOptions.Prefix)
	path := filepath.Join(s.options.DataDir, s.options.SegmentOptions.Directory, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	s.activePath = path
	s.activeFile = file
	s.activeOffset = 0

	s.log.Infow("opened new active segment", "path", path)
	return nil
}

// Append encodes rec and writes it to the active segment in a single Write
// call, returning the Location at which it now lives. If the active segment
// has crossed its rotation threshold afterward, it is retired and a new
// active segment is opened before Append returns, so every Location it
// returns always refers to a segment that existed at the time of the call.
func (s *Storage) Append(rec record.Record) (index.Location, error) {
	if s.closed.Load() {
		return index.Location{}, ErrSegmentClosed
	}

	buf := record.Encode(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	offset := s.activeOffset
	n, err := s.activeFile.Write(buf)
	if err != nil {
		return index.Location{}, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record").
			WithPath(s.activePath).WithDetail("attemptedBytes", len(buf)).WithDetail("writtenBytes", n)
	}
	s.activeOffset += int64(n)

	loc := index.Location{SegmentPath: s.activePath, Offset: offset, Length: int64(n)}

	if uint64(s.activeOffset) > s.options.SegmentOptions.RotationThreshold {
		if err := s.rotateLocked(); err != nil {
			return loc, err
		}
	}

	return loc, nil
}

// rotateLocked retires the current active segment (syncing it first) and
// opens a fresh one. Callers must hold s.mu.
func (s *Storage) rotateLocked() error {
	if err := s.activeFile.Sync(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(s.activePath), s.activePath, int(s.activeOffset))
	}
	if err := s.activeFile.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment during rotation").
			WithPath(s.activePath)
	}

	s.inactive = append(s.inactive, s.activePath)
	s.log.Infow("retired active segment", "path", s.activePath, "size", s.activeOffset)

	return s.openNewSegment()
}

// Rotate forces a rotation regardless of the current active segment's size,
// syncing the retired segment so every byte of it is on a file that will
// never be written to again. It does nothing when the active segment is
// empty.
func (s *Storage) Rotate() error {
	if s.closed.Load() {
		return ErrSegmentClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeOffset == 0 {
		return nil
	}
	return s.rotateLocked()
}

// InactiveSegments returns the retired segment paths, oldest first.
func (s *Storage) InactiveSegments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.inactive))
	copy(out, s.inactive)
	return out
}

// ActivePath returns the path of the segment currently accepting writes.
func (s *Storage) ActivePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePath
}

// ReplaceAll swaps every currently-tracked segment — every inactive segment
// plus the active one — for a single new active segment, used once a
// compaction fold has finished writing its merged output covering the whole
// store. Compaction holds the engine's write lock for its entire run, so
// the inactive list and active path cannot have changed since the caller
// read them to build the fold; expectedInactive and expectedActive guard
// against that invariant being violated anyway. newPath is reopened for
// appending so the very next Set continues writing to the file compaction
// just produced. It reports every path that was just folded away, which
// the caller must unlink.
func (s *Storage) ReplaceAll(expectedInactive []string, expectedActive, newPath string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(expectedInactive) != len(s.inactive) || s.activePath != expectedActive {
		return nil, errors.NewStorageError(
			nil, errors.ErrorCodeInvalidState, "compaction input does not match current segment state",
		).WithDetail("expectedInactive", len(expectedInactive)).WithDetail("actualInactive", len(s.inactive)).
			WithDetail("expectedActive", expectedActive).WithDetail("actualActive", s.activePath)
	}
	for i, p := range expectedInactive {
		if s.inactive[i] != p {
			return nil, errors.NewStorageError(
				nil, errors.ErrorCodeInvalidState, "compaction input does not match current inactive segments",
			).WithDetail("index", i).WithDetail("expected", p).WithDetail("got", s.inactive[i])
		}
	}

	folded := make([]string, 0, len(s.inactive)+1)
	folded = append(folded, s.inactive...)
	folded = append(folded, s.activePath)

	if err := s.activeFile.Close(); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close active segment during compaction swap").
			WithPath(s.activePath)
	}

	file, err := os.OpenFile(newPath, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, newPath, filepath.Base(newPath))
	}

	info, err := seginfo.GetFileInfo(newPath)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat compacted segment").
			WithPath(newPath)
	}

	s.activePath = newPath
	s.activeFile = file
	s.activeOffset = info.Size()
	s.inactive = nil

	return folded, nil
}

// ReadAt opens an independent read-only handle on path and reads exactly
// length bytes starting at offset, returning the raw encoded record bytes
// for internal/record.Decode to parse. Using a separate handle rather than
// the writer's file descriptor means concurrent reads never contend with,
// or get displaced by, the active segment's append position.
func (s *Storage) ReadAt(path string, offset, length int64) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSegmentClosed
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open segment for read").
			WithPath(path)
	}
	defer file.Close()

	buf := make([]byte, length)
	if _, err := file.ReadAt(buf, offset); err != nil {
		if stdErrors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read record").
			WithPath(path).WithDetail("offset", offset).WithDetail("length", length)
	}

	return buf, nil
}

// Close syncs and closes the active segment. It does not delete or close
// any inactive segment, since ReadAt opens those independently on demand.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrSegmentClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeFile.Sync(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(s.activePath), s.activePath, int(s.activeOffset))
	}
	if err := s.activeFile.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close active segment").
			WithPath(s.activePath)
	}

	s.log.Infow("storage closed", "activePath", s.activePath, "inactiveCount", len(s.inactive))
	return nil
}
