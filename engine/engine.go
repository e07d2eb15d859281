// Package engine binds the application to one storage backend for the life of the process.
//
// Two backends implement Storage: FileStorage keeps the working set in memory and
// serializes it to a single JSON blob, DBStorage stages changes in a session and
// commits them to a relational database through gorm. Both keep an identity map,
// so a composite key resolves to one live instance, and both derive cascades from
// models.Ownerships.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"hbnb/config"
	"hbnb/db"
	"hbnb/models"
	"hbnb/storage"
)

// Storage is the facade application code talks to. Calls are not safe for
// concurrent use on the same working set; callers serialize access.
type Storage interface {
	// All maps composite keys to instances of the given kinds (every kind when none given)
	All(kinds ...models.Kind) (map[string]models.Entity, error)
	// Get returns ErrNotFound if the entity is unknown or deleted
	Get(kind models.Kind, id string) (models.Entity, error)
	Count(kinds ...models.Kind) (int, error)
	// New registers e with the working set; no-op for nil or an already registered key
	New(e models.Entity)
	// Save flushes the working set to durable storage
	Save() error
	// Delete removes e and its dependents from the working set; no-op for nil or unknown entities
	Delete(e models.Entity) error
	// Reload discards the working set and reads it back from durable storage
	Reload() error
	Close() error
	// Related lists the entities of kind linked to owner, by ownership or association
	Related(owner models.Entity, kind models.Kind) ([]models.Entity, error)
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*DBStorage)(nil)
)

// Open builds the backend selected by c. Reload must be called before first use.
func Open(c config.Config, log *zap.Logger) (Storage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.StorageType {
	case config.StorageDB:
		gdb, err := db.Open(db.Options{
			Dialect:    c.DBDialect,
			Host:       c.DBHost,
			Port:       c.DBPort,
			User:       c.DBUser,
			Password:   c.DBPassword,
			Name:       c.DBName,
			SQLiteFile: c.SQLiteFile,
			Debug:      c.DebugMode,
		})
		if err != nil {
			return nil, backendError("db", "open", err)
		}
		log.Info("Relational storage bound", zap.String("dialect", c.DBDialect), zap.Bool("drop_on_reload", c.IsTest()))
		return NewDBStorage(gdb, DBOptions{DropOnReload: c.IsTest()}, log), nil
	case config.StorageFile:
		bucket := &storage.Bucket{Name: "local", StorageType: storage.StorageTypeFile, Path: c.FileDir}
		if c.S3Bucket != "" {
			bucket = &storage.Bucket{
				Name:          c.S3Bucket,
				StorageType:   storage.StorageTypeS3,
				Region:        c.S3Region,
				Endpoint:      c.S3Endpoint,
				AuthDetails:   c.S3Key + ":" + c.S3Secret,
				SSEEncryption: c.S3SSE,
			}
		}
		blob, err := storage.NewStorage(bucket)
		if err != nil {
			return nil, backendError("file", "open", err)
		}
		log.Info("File storage bound", zap.String("bucket", bucket.Name), zap.String("path", c.FilePath))
		return NewFileStorage(blob, c.FilePath, log), nil
	}
	return nil, fmt.Errorf("unsupported storage type %q", c.StorageType)
}

// kindSet turns the optional kinds of All/Count into a filter, nil meaning every kind
func kindSet(kinds []models.Kind) map[models.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[models.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func selectedKinds(kinds []models.Kind) []models.Kind {
	if len(kinds) == 0 {
		return models.Kinds()
	}
	return kinds
}
