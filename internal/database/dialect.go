package database

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

// Supported driver names. They double as database/sql driver names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
	// The built-in lower() only folds ASCII; name search relies on full
	// Unicode folding, as it gets on mysql and postgres.
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Dialect captures the few places where the supported stores disagree.
type Dialect struct {
	Name string
	// Returning is set when generated ids must be read with
	// INSERT ... RETURNING id instead of LastInsertId.
	Returning bool
}

// DialectOf returns the dialect for a driver name.
func DialectOf(driver string) (Dialect, error) {
	switch driver {
	case MySQL:
		return Dialect{Name: MySQL}, nil
	case Postgres:
		return Dialect{Name: Postgres, Returning: true}, nil
	case SQLite:
		return Dialect{Name: SQLite}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
