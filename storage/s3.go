package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Storage struct {
	Storage
	s3Client s3iface.S3API
}

func NewS3Storage(bucket *Bucket) (StorageAPI, error) {
	svc, err := bucket.CreateSVC()
	if err != nil {
		return nil, err
	}
	return NewS3StorageWithClient(bucket, svc), nil
}

func NewS3StorageWithClient(bucket *Bucket, client s3iface.S3API) StorageAPI {
	return &S3Storage{
		Storage: Storage{
			Bucket: *bucket,
		},
		s3Client: client,
	}
}

// CreateSVC builds a S3 client from the bucket settings
func (b *Bucket) CreateSVC() (*s3.S3, error) {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	if key, secret := b.credentials(); key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session for bucket %q: %w", b.Name, err)
	}
	return s3.New(sess), nil
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	counter := &countingReader{Reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket:      &s.Bucket.Name,
		Key:         aws.String(s.Bucket.GetRemotePath(path)),
		ContentType: aws.String("application/json"),
		Body:        counter,
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	if _, err := uploader.Upload(&input); err != nil {
		return 0, err
	}
	return counter.n, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		return 0, notExist(err, path)
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Exists(path string) (bool, error) {
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err == nil {
		return true, nil
	}
	if err = notExist(err, path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// notExist maps the S3 "missing object" codes onto fs.ErrNotExist
func notExist(err error, path string) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
	}
	return err
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
