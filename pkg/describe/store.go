package describe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

var (
	// ErrObjectNotFound is returned when a store holds no describe for a type.
	ErrObjectNotFound = errors.New("describe: object not found")
	// ErrLayoutNotFound is returned when no layout matches the request.
	ErrLayoutNotFound = errors.New("describe: layout not found")
)

// Store serves object describes and layouts loaded from fixture files. It is
// safe for concurrent use once loaded.
type Store struct {
	objects map[string]metadata.ObjectDescribe
	layouts map[layoutKey][]metadata.LayoutSection
}

var (
	_ metadata.Describer       = (*Store)(nil)
	_ metadata.LayoutDescriber = (*Store)(nil)
)

type layoutKey struct {
	object       string
	recordTypeID string
	mode         metadata.Mode
}

// NewStore returns an empty store. Use AddObject and AddLayout to populate it
// programmatically or LoadFS to read fixture files.
func NewStore() *Store {
	return &Store{
		objects: make(map[string]metadata.ObjectDescribe),
		layouts: make(map[layoutKey][]metadata.LayoutSection),
	}
}

// AddObject registers a describe, replacing any previous one for the type.
func (s *Store) AddObject(describe metadata.ObjectDescribe) {
	s.objects[describe.Name] = describe
}

// AddLayout registers layout sections for an object, record type and mode. An
// empty recordTypeID matches every record type of the object.
func (s *Store) AddLayout(object, recordTypeID string, mode metadata.Mode, sections []metadata.LayoutSection) {
	s.layouts[layoutKey{object: object, recordTypeID: recordTypeID, mode: mode}] = sections
}

// Objects lists the object names known to the store.
func (s *Store) Objects() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescribeObject implements metadata.Describer.
func (s *Store) DescribeObject(ctx context.Context, objectType string) (metadata.ObjectDescribe, error) {
	if err := ctx.Err(); err != nil {
		return metadata.ObjectDescribe{}, err
	}
	describe, ok := s.objects[objectType]
	if !ok {
		return metadata.ObjectDescribe{}, fmt.Errorf("%w: %q", ErrObjectNotFound, objectType)
	}
	return describe, nil
}

// FetchLayoutSections implements metadata.LayoutDescriber. Field components
// without details are completed from the object's describe; paths the
// describe does not know keep a nil descriptor.
func (s *Store) FetchLayoutSections(ctx context.Context, objectType, recordTypeID string, mode metadata.Mode) ([]metadata.LayoutSection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sections, ok := s.layouts[layoutKey{object: objectType, recordTypeID: recordTypeID, mode: mode}]
	if !ok {
		sections, ok = s.layouts[layoutKey{object: objectType, mode: mode}]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (record type %q, mode %s)", ErrLayoutNotFound, objectType, recordTypeID, mode)
	}
	describe := s.objects[objectType]
	return completeSections(sections, describe), nil
}

func completeSections(sections []metadata.LayoutSection, describe metadata.ObjectDescribe) []metadata.LayoutSection {
	out := make([]metadata.LayoutSection, len(sections))
	for i, section := range sections {
		rows := make([]metadata.LayoutRow, len(section.Rows))
		for j, row := range section.Rows {
			items := make([]metadata.LayoutItem, len(row.Items))
			for k, item := range row.Items {
				comps := make([]metadata.LayoutComponent, len(item.Components))
				for c, comp := range item.Components {
					if field, ok := comp.(metadata.FieldComponent); ok && field.Descriptor == nil {
						if desc, found := describe.FieldByName(field.Path); found {
							field.Descriptor = &desc
						}
						comp = field
					}
					comps[c] = comp
				}
				item.Components = comps
				items[k] = item
			}
			rows[j] = metadata.LayoutRow{Items: items}
		}
		section.Rows = rows
		out[i] = section
	}
	return out
}

// LoadFS walks each filesystem and parses every JSON/YAML file holding
// `objects` or `layouts` entries into one store. Nil filesystems are skipped;
// an object defined twice is an error.
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
		if entry.IsDir() || !isFixtureFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("describe: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		return s.merge(doc, path)
	})
}

func (s *Store) merge(doc documentFile, source string) error {
	for _, object := range doc.Objects {
		name := strings.TrimSpace(object.Name)
		if name == "" {
			return fmt.Errorf("describe: file %s defines an object without a name", source)
		}
		if _, exists := s.objects[name]; exists {
			return fmt.Errorf("describe: duplicate object %q (file %s)", name, source)
		}
		object.Name = name
		s.objects[name] = object
	}

	for i, layout := range doc.Layouts {
		object := strings.TrimSpace(layout.Object)
		if object == "" {
			return fmt.Errorf("describe: file %s layout %d has no object", source, i)
		}
		mode, err := parseMode(layout.Mode)
		if err != nil {
			return fmt.Errorf("describe: file %s layout %d: %w", source, i, err)
		}
		sections, err := layout.toSections()
		if err != nil {
			return fmt.Errorf("describe: file %s layout %d: %w", source, i, err)
		}
		key := layoutKey{object: object, recordTypeID: strings.TrimSpace(layout.RecordTypeID), mode: mode}
		if _, exists := s.layouts[key]; exists {
			return fmt.Errorf("describe: duplicate %s layout for %q record type %q (file %s)", mode, object, key.recordTypeID, source)
		}
		s.layouts[key] = sections
	}
	return nil
}

func parseMode(raw string) (metadata.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "view", "detail":
		return metadata.ModeView, nil
	case "edit":
		return metadata.ModeEdit, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q", raw)
	}
}

func isFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("describe: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("describe: parse %s: %w", source, err)
	}
	return doc, nil
}
