package storage

import (
	"bytes"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, awserr.New("NotFound", "missing", nil)
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"hbnb-data/prod/file.json": `{"x":1}`}}
	s := NewS3StorageWithClient(&Bucket{Name: "hbnb-data", StorageType: StorageTypeS3, Path: "prod"}, client)

	var buf bytes.Buffer
	n, err := s.Load("file.json", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.Equal(t, `{"x":1}`, buf.String())

	_, err = s.Load("other.json", &buf)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	ok, err := s.Exists("file.json")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists("other.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "hbnb-data", s.GetBucket().Name)
}
