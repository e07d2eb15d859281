package engine

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"hbnb/models"
)

// Import reads a YAML document mapping composite keys to field records and
// registers every entity with s. Nothing is registered unless the whole document is valid.
// Records whose key is already known to s are skipped and not counted.
// The caller decides when to Save.
func Import(s Storage, r io.Reader) (int, error) {
	var doc map[string]map[any]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decoding import: %w", err)
	}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entities := make([]models.Entity, 0, len(keys))
	for _, key := range keys {
		e, err := importRecord(key, doc[key])
		if err != nil {
			return 0, fmt.Errorf("import %s: %w", key, err)
		}
		entities = append(entities, e)
	}
	registered := 0
	for _, e := range entities {
		s.New(e)
		if got, err := s.Get(e.Kind(), e.Base().ID); err == nil && got == e {
			registered++
		}
	}
	return registered, nil
}

func importRecord(key string, raw map[any]any) (models.Entity, error) {
	kind, id, err := models.SplitKey(key)
	if err != nil {
		return nil, err
	}
	fields, err := models.FieldsFrom(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := fields[models.ClassField]; !ok {
		fields[models.ClassField] = kind.String()
	}
	e, err := models.FromFields(kind, fields)
	if err != nil {
		return nil, err
	}
	if e.Base().ID != id {
		return nil, fmt.Errorf("%w: record id %q", models.ErrInvalidValue, e.Base().ID)
	}
	return e, nil
}

// Export writes the working set of s in the format Import reads
func Export(s Storage, w io.Writer) error {
	all, err := s.All()
	if err != nil {
		return err
	}
	out := make(map[string]models.Fields, len(all))
	for key, e := range all {
		out[key] = e.Fields()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return enc.Close()
}
