// Package kvrepos implements every domain Repository over a kv.Store.
// Each repository owns its collection in memory and writes the whole
// collection through to the store, as one JSON blob under a fixed key,
// before any mutation returns. Collections are replaced, never mutated
// in place, so readers holding a previous slice are unaffected.
package kvrepos

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/storage/kv"
)

// Blob keys. Every collection is durable; none is memory-only.
const (
	keyUsers         = "users"
	keyClassrooms    = "classrooms"
	keyQuizzes       = "quizzes"
	keySubmissions   = "submissions"
	keySharedContent = "shared_content"
	keyLectures      = "lectures"
	keyCaseStudies   = "case_studies"
	keyAttendance    = "attendance_sessions"
)

// load reads and unmarshals the blob stored under key into out. A missing
// key is a fresh install; a corrupted blob is discarded with a warning so
// startup never fails on bad data. Returns false when out must be ignored.
func load(store kv.Store, key string, logger core.Logger, out interface{}) bool {
	blob, err := store.Get(key)
	if err != nil {
		if err != kv.ErrKeyNotFound {
			logger.Warn(fmt.Sprintf("loading %s blob: %v", key, err), err)
		}
		return false
	}
	if err := json.Unmarshal(blob, out); err != nil {
		logger.Warn(fmt.Sprintf("discarding corrupted %s blob, starting empty: %v", key, err), err)
		return false
	}
	return true
}

func save(store kv.Store, key string, in interface{}) error {
	blob, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "serializing %s", key)
	}
	return errors.Wrapf(store.Set(key, blob), "persisting %s", key)
}
