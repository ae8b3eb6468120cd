package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each bucket in memory as a map of raw JSON documents and
// persists every bucket to <dir>/<bucket>.json after each committed Update.
// Persistence goes through a temp file + rename so a crash mid-write never
// leaves a truncated bucket on disk.
//
// Access is serialized by a single mutex: the application runs with one
// logical writer at a time, so the simple lock is the whole concurrency story.
type FileStore struct {
	dir string

	mu      sync.RWMutex
	buckets map[string]map[string]json.RawMessage
}

// OpenFile loads (or initializes) the store under dir. Missing bucket files
// start empty, mirroring first-run initialization.
func OpenFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create dir: %w", err)
	}
	s := &FileStore{
		dir:     dir,
		buckets: make(map[string]map[string]json.RawMessage, len(Buckets)),
	}
	for _, b := range Buckets {
		docs, err := loadBucket(s.path(b))
		if err != nil {
			return nil, fmt.Errorf("kvstore: load bucket %s: %w", b, err)
		}
		s.buckets[b] = docs
	}
	return s, nil
}

func (s *FileStore) path(bucket string) string {
	return filepath.Join(s.dir, bucket+".json")
}

func loadBucket(path string) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, err
	}
	docs := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *FileStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("kvstore: unknown bucket %q", bucket)
	}
	doc, ok := docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (s *FileStore) List(_ context.Context, bucket string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("kvstore: unknown bucket %q", bucket)
	}
	out := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		cp := make([]byte, len(doc))
		copy(cp, doc)
		out = append(out, cp)
	}
	return out, nil
}

// Update applies all writes buffered by fn under one lock. The in-memory maps
// are only touched after fn succeeds; if persisting any dirty bucket fails,
// the maps are restored from snapshots so memory and disk stay consistent.
func (s *FileStore) Update(_ context.Context, fn func(tx Tx) error) error {
	buf := &writeBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	if len(buf.ops) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot every bucket the buffer touches.
	dirty := make(map[string]map[string]json.RawMessage)
	for _, op := range buf.ops {
		if _, ok := s.buckets[op.bucket]; !ok {
			return fmt.Errorf("kvstore: unknown bucket %q", op.bucket)
		}
		if _, seen := dirty[op.bucket]; !seen {
			dirty[op.bucket] = snapshot(s.buckets[op.bucket])
		}
	}

	for _, op := range buf.ops {
		if op.doc == nil {
			delete(s.buckets[op.bucket], op.key)
		} else {
			s.buckets[op.bucket][op.key] = json.RawMessage(op.doc)
		}
	}

	// Stage every dirty bucket to its temp file before swapping any of them
	// in. A failed write therefore cannot leave one bucket committed on disk
	// while another rolled back — the partial state the deletion protocol
	// must never expose across a restart.
	rollback := func() {
		for b, snap := range dirty {
			s.buckets[b] = snap
		}
	}
	staged := make([]string, 0, len(dirty))
	for bucket := range dirty {
		if err := s.stage(bucket); err != nil {
			rollback()
			for _, b := range staged {
				_ = os.Remove(s.tmpPath(b))
			}
			return fmt.Errorf("kvstore: persist bucket %s: %w", bucket, err)
		}
		staged = append(staged, bucket)
	}
	for i, bucket := range staged {
		if err := os.Rename(s.tmpPath(bucket), s.path(bucket)); err != nil {
			rollback()
			// Buckets renamed before the failure hold the aborted state;
			// rewrite them from the snapshots so disk matches memory again.
			for _, b := range staged[:i] {
				_ = s.stage(b)
				_ = os.Rename(s.tmpPath(b), s.path(b))
			}
			for _, b := range staged[i:] {
				_ = os.Remove(s.tmpPath(b))
			}
			return fmt.Errorf("kvstore: persist bucket %s: %w", bucket, err)
		}
	}
	return nil
}

func snapshot(docs map[string]json.RawMessage) map[string]json.RawMessage {
	cp := make(map[string]json.RawMessage, len(docs))
	for k, v := range docs {
		cp[k] = v
	}
	return cp
}

func (s *FileStore) tmpPath(bucket string) string {
	return s.path(bucket) + ".tmp"
}

// stage writes the bucket's current in-memory state to its temp file.
func (s *FileStore) stage(bucket string) error {
	raw, err := json.Marshal(s.buckets[bucket])
	if err != nil {
		return err
	}
	return os.WriteFile(s.tmpPath(bucket), raw, 0o644)
}

func (s *FileStore) Close() error { return nil }
