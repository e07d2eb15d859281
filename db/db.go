package db

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Options struct {
	Dialect    string
	Host       string
	Port       int // 0 for the dialect default
	User       string
	Password   string
	Name       string
	SQLiteFile string
	Debug      bool // log every statement
}

// DSN builds the connection string for the configured dialect
func DSN(o Options) (string, error) {
	switch o.Dialect {
	case DialectMySQL, "":
		c := mysql.NewConfig()
		c.User = o.User
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = hostPort(o.Host, o.Port, 3306)
		c.DBName = o.Name
		c.ParseTime = true
		c.Loc = time.UTC
		c.Params = map[string]string{"charset": "utf8mb4"}
		return c.FormatDSN(), nil
	case DialectPostgres:
		host, port, _ := strings.Cut(hostPort(o.Host, o.Port, 5432), ":")
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			host, port, o.User, o.Password, o.Name), nil
	case DialectSQLite:
		// foreign keys are off by default in SQLite
		sep := "?"
		if strings.Contains(o.SQLiteFile, "?") {
			sep = "&"
		}
		return o.SQLiteFile + sep + "_foreign_keys=on", nil
	}
	return "", fmt.Errorf("unsupported dialect %q", o.Dialect)
}

func hostPort(host string, port, defaultPort int) string {
	if host == "" {
		host = "localhost"
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func Open(o Options) (*gorm.DB, error) {
	dsn, err := DSN(o)
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	switch o.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		dialector = gormmysql.Open(dsn)
	}
	logLevel := logger.Silent
	if o.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", o.Dialect, err)
	}
	return db, nil
}
