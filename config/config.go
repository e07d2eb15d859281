package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFile = "file"
	StorageDB   = "db"

	EnvTest = "test"
)

type Config struct {
	StorageType string // HBNB_TYPE_STORAGE: "file" or "db"
	Env         string // HBNB_ENV: "test" drops the relational schema on reload
	DebugMode   bool

	// File-backed store
	FilePath   string // Name of the durable file, relative to FileDir or the S3 prefix
	FileDir    string
	S3Bucket   string // The durable file goes to S3 if this is set
	S3Region   string
	S3Endpoint string
	S3Key      string
	S3Secret   string
	S3SSE      string // Server-side encryption of the durable file, e.g. "AES256"

	// Relational store
	DBDialect  string // mysql, postgres or sqlite
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string
	SQLiteFile string
}

func Default() Config {
	return Config{
		StorageType: StorageFile,
		FilePath:    "file.json",
		FileDir:     ".",
		S3Region:    "us-east-1",
		DBDialect:   "mysql",
		DBHost:      "localhost",
		SQLiteFile:  "hbnb.db",
	}
}

// Load reads the optional env files (".env" when none given) and then the process environment
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	c := Default()
	readEnvString("HBNB_TYPE_STORAGE", &c.StorageType)
	readEnvString("HBNB_ENV", &c.Env)
	readEnvBool("HBNB_DEBUG", &c.DebugMode)
	readEnvString("HBNB_FILE_PATH", &c.FilePath)
	readEnvString("HBNB_FILE_DIR", &c.FileDir)
	readEnvString("HBNB_S3_BUCKET", &c.S3Bucket)
	readEnvString("HBNB_S3_REGION", &c.S3Region)
	readEnvString("HBNB_S3_ENDPOINT", &c.S3Endpoint)
	readEnvString("HBNB_S3_KEY", &c.S3Key)
	readEnvString("HBNB_S3_SECRET", &c.S3Secret)
	readEnvString("HBNB_S3_SSE", &c.S3SSE)
	readEnvString("HBNB_DB_DIALECT", &c.DBDialect)
	readEnvString("HBNB_MYSQL_USER", &c.DBUser)
	readEnvString("HBNB_MYSQL_PWD", &c.DBPassword)
	readEnvString("HBNB_MYSQL_HOST", &c.DBHost)
	if err := readEnvInt("HBNB_DB_PORT", &c.DBPort); err != nil {
		return Config{}, err
	}
	readEnvString("HBNB_MYSQL_DB", &c.DBName)
	readEnvString("HBNB_SQLITE_FILE", &c.SQLiteFile)
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.StorageType {
	case StorageFile:
		if c.FilePath == "" {
			return errors.New("config: HBNB_FILE_PATH is empty")
		}
	case StorageDB:
		switch c.DBDialect {
		case "mysql", "postgres":
			if c.DBName == "" {
				return errors.New("config: HBNB_MYSQL_DB is required for " + c.DBDialect)
			}
		case "sqlite":
		default:
			return fmt.Errorf("config: unsupported HBNB_DB_DIALECT %q", c.DBDialect)
		}
	default:
		return fmt.Errorf("config: unsupported HBNB_TYPE_STORAGE %q", c.StorageType)
	}
	return nil
}

// IsTest is true for disposable deployments
func (c Config) IsTest() bool {
	return c.Env == EnvTest
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return fmt.Errorf("config: %s must be a non-negative integer, got %q", name, v)
	}
	*value = i
	return nil
}
