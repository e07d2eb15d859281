package storage

import (
	"fmt"
	"io"
)

// StorageAPI is a flat blob namespace. Load of a missing path fails with an error matching fs.ErrNotExist.
type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Exists(path string) (bool, error)
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

// NewStorage picks the implementation for the bucket's storage type
func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket)
	}
	return nil, fmt.Errorf("storage type %d unavailable for bucket %q", bucket.StorageType, bucket.Name)
}
