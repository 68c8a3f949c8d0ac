package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ColumnInfo describes one column for the describe_schema tool.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// SchemaSource introspects the store for the agent's discovery tools.
type SchemaSource interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeTables(ctx context.Context, names []string) (map[string][]ColumnInfo, error)
}

type schemaPG struct {
	pool *pgxpool.Pool
}

func NewSchemaPG(pool *pgxpool.Pool) SchemaSource {
	return &schemaPG{pool: pool}
}

func (s *schemaPG) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *schemaPG) DescribeTables(ctx context.Context, names []string) (map[string][]ColumnInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]ColumnInfo)
	for rows.Next() {
		var table, nullable string
		var col ColumnInfo
		if err := rows.Scan(&table, &col.Name, &col.Type, &nullable); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		out[table] = append(out[table], col)
	}
	return out, rows.Err()
}
