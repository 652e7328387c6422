package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Options describes how to reach the store. DSN is used verbatim when set;
// otherwise it is assembled from the remaining fields for the dialect.
type Options struct {
	Driver string
	DSN    string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
	Path   string // sqlite file path
}

// DataSourceName returns the driver-specific connection string.
func (o Options) DataSourceName() (string, error) {
	if o.DSN != "" {
		return o.DSN, nil
	}
	switch o.Driver {
	case MySQL:
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, o.Host, o.Port, o.Name), nil
	case Postgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			o.User, o.Pass, o.Host, o.Port, o.Name), nil
	case SQLite:
		if o.Path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return o.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", o.Driver)
	}
}

// Open connects to the configured store and verifies the connection.
func Open(o Options) (*sqlx.DB, error) {
	d, err := DialectOf(o.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := o.DataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(d.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", d.Name, err)
	}

	// Pool settings
	if d.Name == SQLite {
		// one writer at a time; extra connections only queue on the file lock
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", d.Name, err)
	}
	return db, nil
}
