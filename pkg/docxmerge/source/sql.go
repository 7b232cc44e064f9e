package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
)

// Database backends accepted by SQL.
const (
	DriverPostgres = "pgsql"
	DriverMySQL    = "mysql"
)

// Query is a named SQL statement. Its result set is stored under Name.
type Query struct {
	Name string
	SQL  string
}

// SQL runs queries against a PostgreSQL or MySQL database and loads each
// result set as a dataset.Table.
type SQL struct {
	Driver  string
	DSN     string
	Queries []Query
	// Timeout bounds the whole load. 0 means no limit beyond ctx.
	Timeout time.Duration
}

func (s SQL) Load(ctx context.Context) (map[string]any, error) {
	if len(s.Queries) == 0 {
		return map[string]any{}, nil
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	switch s.Driver {
	case DriverPostgres:
		return s.loadPostgres(ctx)
	case DriverMySQL:
		return s.loadMySQL(ctx)
	default:
		return nil, fmt.Errorf("unsupported database type %q", s.Driver)
	}
}

func (s SQL) loadPostgres(ctx context.Context) (map[string]any, error) {
	pool, err := pgxpool.New(ctx, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect pgx pool: %w", err)
	}
	defer pool.Close()

	data := make(map[string]any, len(s.Queries))
	for _, q := range s.Queries {
		rows, err := pool.Query(ctx, q.SQL)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", q.Name, err)
		}
		var names []string
		for _, fd := range rows.FieldDescriptions() {
			names = append(names, fd.Name)
		}
		var records [][]any
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("query %q: %w", q.Name, err)
			}
			for i, v := range values {
				values[i] = normalizeValue(v)
			}
			records = append(records, values)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query %q: %w", q.Name, err)
		}
		data[q.Name] = dataset.Infer(names, records)
	}
	return data, nil
}

func (s SQL) loadMySQL(ctx context.Context) (map[string]any, error) {
	db, err := sql.Open("mysql", s.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	db.SetConnMaxLifetime(3 * time.Minute)

	data := make(map[string]any, len(s.Queries))
	for _, q := range s.Queries {
		table, err := queryTable(ctx, db, q.SQL)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", q.Name, err)
		}
		data[q.Name] = table
	}
	return data, nil
}

func queryTable(ctx context.Context, db *sql.DB, query string) (dataset.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return dataset.Table{}, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return dataset.Table{}, err
	}
	var records [][]any
	for rows.Next() {
		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return dataset.Table{}, err
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		records = append(records, values)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, err
	}
	return dataset.Infer(names, records), nil
}

// normalizeValue maps driver values onto the kinds a table understands.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil, bool, string, time.Time,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []byte:
		return string(val)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
