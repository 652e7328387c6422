package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Genres is an ordered list of genre tags. It is stored as a JSON array in
// a text column so the same schema works on every supported database.
type Genres []string

// Value implements driver.Valuer.
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		g = Genres{}
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, fmt.Errorf("encoding genres: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL and empty text decode to an empty list.
func (g *Genres) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning genres: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decoding genres: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*g = out
	return nil
}
