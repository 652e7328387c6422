package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/database"
)

// insertID runs an INSERT written with ? placeholders and returns the
// generated id, using RETURNING where the driver has no LastInsertId.
func insertID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	d, err := database.DialectOf(tx.DriverName())
	if err != nil {
		return 0, err
	}
	if d.Returning {
		var id int64
		if err := tx.GetContext(ctx, &id, tx.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading generated id: %w", err)
	}
	return id, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching term anywhere in a value.
// Wildcards in term match literally; queries must declare ESCAPE '!'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
