package record

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is an in-memory record source keyed by object type and id.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]map[string]any
}

var _ Source = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]map[string]map[string]any)}
}

// Put replaces the stored attributes of a record.
func (s *Store) Put(objectType, id string, attrs map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.records[objectType]
	if !ok {
		byID = make(map[string]map[string]any)
		s.records[objectType] = byID
	}
	byID[id] = maps.Clone(attrs)
}

// Save writes the attributes of a model back into the store.
func (s *Store) Save(objectType string, model *Memory) {
	s.Put(objectType, model.ID(), model.Snapshot())
}

// Record implements Source. The returned model starts empty and loads
// attributes through Fetch, like a remote record would. An empty id yields an
// unsaved record that fetches nothing.
func (s *Store) Record(ctx context.Context, objectType, id string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return NewMemory("", nil, nil), nil
	}
	s.mu.RLock()
	_, ok := s.records[objectType][id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, objectType, id)
	}
	return NewMemory(id, nil, s.fetcher(objectType, id)), nil
}

func (s *Store) fetcher(objectType, id string) Fetcher {
	return func(ctx context.Context, attributes []string) (map[string]any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		stored, ok := s.records[objectType][id]
		if !ok {
			return nil, fmt.Errorf("%w: %s %q", ErrNotFound, objectType, id)
		}
		out := make(map[string]any, len(attributes))
		for _, name := range attributes {
			if value, ok := stored[name]; ok {
				out[name] = value
			}
		}
		return out, nil
	}
}

type recordsFile struct {
	Records map[string]map[string]map[string]any `json:"records" yaml:"records"`
}

// LoadFS reads the `records` entries of every JSON/YAML file in each
// filesystem into a new store. Files without records are ignored and nil
// filesystems are skipped; later files replace earlier records with the same
// id.
func LoadFS(fsyss ...fs.FS) (*Store, error) {
	store := NewStore()
	for _, fsys := range fsyss {
		if fsys == nil {
			continue
		}
		if err := store.load(fsys); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *Store) load(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("record: read %s: %w", path, err)
		}
		var doc recordsFile
		if err := json.Unmarshal(data, &doc); err != nil {
			doc = recordsFile{}
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("record: parse %s: %w", path, err)
			}
		}
		for objectType, byID := range doc.Records {
			for id, attrs := range byID {
				s.Put(objectType, id, attrs)
			}
		}
		return nil
	})
}
