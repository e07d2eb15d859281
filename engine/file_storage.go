package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/goccy/go-json"
	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"hbnb/models"
	"hbnb/storage"
)

// FileStorage is the identity-map store: every entity lives in memory under its
// composite key and Save rewrites the whole durable file. There is no locking
// around the file, one process owns it.
type FileStorage struct {
	blob    storage.StorageAPI
	path    string
	objects cmap.ConcurrentMap[string, models.Entity]
	log     *zap.Logger
}

func NewFileStorage(blob storage.StorageAPI, path string, log *zap.Logger) *FileStorage {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStorage{
		blob:    blob,
		path:    path,
		objects: cmap.New[models.Entity](),
		log:     log.Named("file"),
	}
}

func (s *FileStorage) All(kinds ...models.Kind) (map[string]models.Entity, error) {
	filter := kindSet(kinds)
	result := make(map[string]models.Entity)
	for item := range s.objects.IterBuffered() {
		if filter == nil || filter[item.Val.Kind()] {
			result[item.Key] = item.Val
		}
	}
	return result, nil
}

func (s *FileStorage) Get(kind models.Kind, id string) (models.Entity, error) {
	if e, ok := s.objects.Get(models.KeyOf(kind, id)); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, models.KeyOf(kind, id))
}

func (s *FileStorage) Count(kinds ...models.Kind) (int, error) {
	if len(kinds) == 0 {
		return s.objects.Count(), nil
	}
	all, err := s.All(kinds...)
	return len(all), err
}

func (s *FileStorage) New(e models.Entity) {
	if e == nil {
		return
	}
	ensureRecord(e)
	s.objects.SetIfAbsent(models.Key(e), e)
}

func (s *FileStorage) Save() error {
	items := s.objects.Items()
	out := make(map[string]models.Fields, len(items))
	for key, e := range items {
		out[key] = e.Fields()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return backendError("file", "encode", err)
	}
	if _, err := s.blob.Save(s.path, bytes.NewReader(data)); err != nil {
		return backendError("file", "save "+s.path, err)
	}
	s.log.Debug("Saved objects", zap.String("bucket", s.blob.GetBucket().Name), zap.String("path", s.path), zap.Int("count", len(out)))
	return nil
}

func (s *FileStorage) Reload() error {
	bucket := s.blob.GetBucket().Name
	exists, err := s.blob.Exists(s.path)
	if err != nil {
		return backendError("file", "stat "+s.path, err)
	}
	if !exists {
		s.objects.Clear()
		s.log.Info("No durable file yet, starting empty", zap.String("bucket", bucket), zap.String("path", s.path))
		return nil
	}
	var buf bytes.Buffer
	if _, err := s.blob.Load(s.path, &buf); err != nil {
		// removed between Exists and Load
		if errors.Is(err, fs.ErrNotExist) {
			s.objects.Clear()
			return nil
		}
		return backendError("file", "load "+s.path, err)
	}
	objects, err := decodeObjects(&buf)
	if err != nil {
		return backendError("file", "decode "+s.path, err)
	}
	s.objects.Clear()
	s.objects.MSet(objects)
	s.log.Info("Reloaded objects", zap.String("bucket", bucket), zap.String("path", s.path), zap.Int("count", len(objects)))
	return nil
}

func decodeObjects(r io.Reader) (map[string]models.Entity, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]models.Fields
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]models.Entity{}, nil
		}
		return nil, err
	}
	objects := make(map[string]models.Entity, len(raw))
	for key, fields := range raw {
		kind, id, err := models.SplitKey(key)
		if err != nil {
			return nil, err
		}
		e, err := models.FromFields(kind, fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if e.Base().ID != id {
			return nil, fmt.Errorf("%s: %w: record id %q", key, models.ErrInvalidValue, e.Base().ID)
		}
		objects[key] = e
	}
	return objects, nil
}

func (s *FileStorage) Delete(e models.Entity) error {
	if e == nil || !s.objects.Has(models.Key(e)) {
		return nil
	}
	removed := s.cascade(e)
	s.log.Debug("Deleted", zap.String("key", models.Key(e)), zap.Int("removed", removed))
	return nil
}

// cascade removes e and, recursively, everything models.Ownerships makes dependent on it
func (s *FileStorage) cascade(e models.Entity) int {
	s.objects.Remove(models.Key(e))
	removed := 1
	id := e.Base().ID
	for _, o := range models.OwnedBy(e.Kind()) {
		for _, dep := range ownedIn(s.byKind(o.Dependent), o, id) {
			if s.objects.Has(models.Key(dep)) {
				removed += s.cascade(dep)
			}
		}
	}
	for _, as := range models.AssociationsOf(e.Kind()) {
		if as.Right != e.Kind() {
			continue
		}
		for _, left := range s.byKind(as.Left) {
			as.Unlink(left, id)
		}
	}
	return removed
}

func (s *FileStorage) byKind(k models.Kind) []models.Entity {
	var result []models.Entity
	for item := range s.objects.IterBuffered() {
		if item.Val.Kind() == k {
			result = append(result, item.Val)
		}
	}
	return result
}

// Related scans the working set; there is no index besides the identity map
func (s *FileStorage) Related(owner models.Entity, kind models.Kind) ([]models.Entity, error) {
	if owner == nil {
		return nil, nil
	}
	id := owner.Base().ID
	if o, ok := models.FindOwnership(owner.Kind(), kind); ok {
		return ownedIn(s.byKind(kind), o, id), nil
	}
	as, ok := models.FindAssociation(owner.Kind(), kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoRelation, owner.Kind(), kind)
	}
	if owner.Kind() == as.Left {
		var result []models.Entity
		for _, rightID := range as.Members(owner) {
			if e, ok := s.objects.Get(models.KeyOf(as.Right, rightID)); ok {
				result = append(result, e)
			}
		}
		return result, nil
	}
	return linkedIn(s.byKind(as.Left), as, id), nil
}

func (s *FileStorage) Close() error {
	return nil
}
