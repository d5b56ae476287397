package handlers

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// simpleRow adapts a scan function to pgx.Row for handler tests.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// sliceRows serves pre-baked result rows, one scan function per row.
type sliceRows struct {
	rows []func(dest ...any) error
	idx  int
}

func (s *sliceRows) Next() bool {
	if s.idx >= len(s.rows) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.rows) {
		return pgx.ErrNoRows
	}
	return s.rows[s.idx-1](dest...)
}

func (s *sliceRows) Err() error { return nil }

func (s *sliceRows) Close() {}

func (s *sliceRows) Conn() *pgx.Conn { return nil }

func (s *sliceRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *sliceRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (s *sliceRows) RawValues() [][]byte { return nil }

func setString(dest any, v string) {
	if p, ok := dest.(*string); ok {
		*p = v
	}
}
