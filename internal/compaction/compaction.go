// Package compaction implements the fold-and-replace pass that collapses an
// entire store — every inactive segment plus the active one — into a
// single replacement segment containing only the current value of every
// key still live across them. After a successful run the store has exactly
// one segment file, which becomes the new active segment, and an empty
// inactive list.
//
// Folding the active segment is safe here because the caller
// (internal/engine) holds its write lock across the whole compaction run,
// so nothing appends to it while compaction reads it.
package compaction

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// replayedValue is the last write seen for a key while folding every
// segment, oldest to newest (the active segment replayed last). A
// tombstone is represented by a nil *string.
type replayedValue struct {
	value *string
}

// Run folds every segment of st — inactive and active alike — into one
// replacement segment, keeping only the values that the index still
// considers current, then swaps storage and index state over to the
// result and unlinks every folded-away file. It leaves st with exactly one
// segment, which is active, and an empty inactive list.
func Run(st *storage.Storage, idx *index.Index, opts *options.Options, log *zap.SugaredLogger) error {
	oldInactive := st.InactiveSegments()
	oldActive := st.ActivePath()
	foldPaths := append(append([]string{}, oldInactive...), oldActive)

	log.Infow("starting compaction", "segments", len(foldPaths))

	replayed, err := replaySegments(foldPaths)
	if err != nil {
		return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to replay segments").
			WithStage("replay").WithSegmentsBefore(len(foldPaths))
	}

	snapshot, err := idx.Snapshot()
	if err != nil {
		return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to snapshot index").
			WithStage("snapshot")
	}

	// Every live key's location must fall within foldPaths: the caller holds
	// the engine's write lock for the whole run, so the active segment and
	// every currently-inactive segment are the entire store. A replayed key
	// the index no longer lists as live was already superseded by a later
	// write to the same key within this same fold and is dropped.
	var survivingKeys []string
	var tombstonedKeys []string
	for key, rv := range replayed {
		if _, ok := snapshot[key]; !ok {
			continue
		}
		if rv.value == nil {
			tombstonedKeys = append(tombstonedKeys, key)
			continue
		}
		survivingKeys = append(survivingKeys, key)
	}

	newPath, newLocations, err := writeCompactedSegment(opts, replayed, survivingKeys)
	if err != nil {
		return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to write compacted segment").
			WithStage("write").WithSegmentsBefore(len(foldPaths)).WithLiveKeys(len(survivingKeys))
	}

	foldedPaths, err := st.ReplaceAll(oldInactive, oldActive, newPath)
	if err != nil {
		return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to swap in compacted segment").
			WithStage("swap")
	}

	for key, loc := range newLocations {
		if err := idx.Upsert(key, loc); err != nil {
			return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to reindex survivor").
				WithStage("reindex").WithDetail("key", key)
		}
	}
	for _, key := range tombstonedKeys {
		if _, err := idx.Erase(key); err != nil {
			return errors.NewCompactionError(err, errors.ErrorCodeCompactionFailed, "failed to erase tombstoned key").
				WithStage("reindex").WithDetail("key", key)
		}
	}

	var unlinkErr error
	for _, p := range foldedPaths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			unlinkErr = multierr.Append(unlinkErr, err)
		}
	}
	if unlinkErr != nil {
		return errors.NewCompactionError(unlinkErr, errors.ErrorCodeCompactionFailed, "failed to unlink folded segments").
			WithStage("unlink").WithSegmentsBefore(len(foldedPaths))
	}

	log.Infow("compaction complete",
		"foldedSegments", len(foldedPaths), "liveKeys", len(survivingKeys), "erasedKeys", len(tombstonedKeys),
		"replacement", newPath,
	)
	return nil
}

// replaySegments reads every record from each path in order and folds them
// into a map of each key's last-seen write, so that later segments (newer
// writes) always win over earlier ones for the same key.
func replaySegments(paths []string) (map[string]replayedValue, error) {
	out := make(map[string]replayedValue)

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		err = record.DecodeAll(file, func(rec record.Record, offset int64, length int) error {
			if rec.Tombstone {
				out[rec.Key] = replayedValue{value: nil}
			} else {
				v := rec.Value
				out[rec.Key] = replayedValue{value: &v}
			}
			return nil
		})
		closeErr := file.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
	}

	return out, nil
}

// writeCompactedSegment writes one Set record per surviving key into a new
// segment file and reports the Location each now lives at.
func writeCompactedSegment(
	opts *options.Options,
	replayed map[string]replayedValue,
	survivingKeys []string,
) (string, map[string]index.Location, error) {
	name := seginfo.GenerateName(time.Now().UnixNano(), opts.SegmentOptions.Prefix)
	path := filepath.Join(opts.DataDir, opts.SegmentOptions.Directory, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", nil, err
	}

	locations := make(map[string]index.Location, len(survivingKeys))
	var offset int64

	for _, key := range survivingKeys {
		value := ""
		if rv, ok := replayed[key]; ok && rv.value != nil {
			value = *rv.value
		}

		buf := record.Encode(record.NewSet(key, value))
		n, err := file.Write(buf)
		if err != nil {
			file.Close()
			return "", nil, err
		}

		locations[key] = index.Location{SegmentPath: path, Offset: offset, Length: int64(n)}
		offset += int64(n)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		return "", nil, err
	}
	if err := file.Close(); err != nil {
		return "", nil, err
	}

	return path, locations, nil
}
