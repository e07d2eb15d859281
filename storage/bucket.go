package storage

import (
	"path"
	"strings"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

type Bucket struct {
	Name          string
	StorageType   StorageType
	Path          string // Path on a drive or a prefix in a S3 bucket
	Region        string
	Endpoint      string // Custom S3 endpoint (e.g. MinIO), empty for AWS
	AuthDetails   string // Authentication details. In case of S3 bucket - "key:secret"
	SSEEncryption string // S3 server-side encryption algorithm, e.g. "AES256"
}

// GetRemotePath returns the S3 object key for path
func (b *Bucket) GetRemotePath(p string) string {
	return strings.TrimPrefix(path.Join(b.Path, p), "/")
}

func (b *Bucket) credentials() (key, secret string) {
	key, secret, _ = strings.Cut(b.AuthDetails, ":")
	return
}
