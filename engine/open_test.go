package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb/config"
	"hbnb/models"
)

func TestOpenFile(t *testing.T) {
	c := config.Default()
	c.FileDir = t.TempDir()
	c.FilePath = "objects.json"

	s, err := Open(c, testLogger(t))
	require.NoError(t, err)
	require.IsType(t, &FileStorage{}, s)
	require.NoError(t, s.Reload())
	require.NoError(t, Persist(s, models.NewState("California")))
	require.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(c.FileDir, "objects.json"))
	assert.NoError(t, err)
}

func TestOpenSQLite(t *testing.T) {
	c := config.Default()
	c.StorageType = config.StorageDB
	c.DBDialect = "sqlite"
	c.SQLiteFile = filepath.Join(t.TempDir(), "hbnb.db")
	c.Env = config.EnvTest

	s, err := Open(c, testLogger(t))
	require.NoError(t, err)
	dbs, ok := s.(*DBStorage)
	require.True(t, ok)
	assert.True(t, dbs.opts.DropOnReload)
	require.NoError(t, s.Reload())
	require.NoError(t, s.Close())
}

func TestOpenInvalidConfig(t *testing.T) {
	c := config.Default()
	c.StorageType = "memory"
	_, err := Open(c, nil)
	assert.Error(t, err)
}

func TestOpenS3(t *testing.T) {
	c := config.Default()
	c.S3Bucket = "hbnb-data"
	c.S3Region = "eu-west-1"
	c.S3Endpoint = "http://127.0.0.1:9000"
	c.S3Key, c.S3Secret = "key", "secret"
	c.S3SSE = "AES256"

	s, err := Open(c, testLogger(t))
	require.NoError(t, err)
	fs, ok := s.(*FileStorage)
	require.True(t, ok)
	bucket := fs.blob.GetBucket()
	assert.Equal(t, "hbnb-data", bucket.Name)
	assert.Equal(t, "eu-west-1", bucket.Region)
	assert.Equal(t, "AES256", bucket.SSEEncryption)
	assert.Equal(t, "key:secret", bucket.AuthDetails)
}
