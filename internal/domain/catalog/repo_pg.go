package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(context.Context) queryable { return r.pool }

const serviceCols = `id, name, description, price, duration, created_date`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Duration, &s.CreatedDate)
	return &s, err
}

var SortColumns = map[string]string{
	"name":     "name",
	"price":    "price",
	"duration": "duration",
}

func (r *repoPG) List(ctx context.Context, p ListParams) ([]*Service, int, error) {
	where := ""
	var args []interface{}
	if p.Search != "" {
		where = ` WHERE name ILIKE $1 OR description ILIKE $1`
		args = append(args, "%"+p.Search+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM services`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := SortColumns[p.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortBy)
	}
	dir := "ASC"
	if p.SortOrder == "desc" {
		dir = "DESC"
	}
	sql := fmt.Sprintf(`SELECT %s FROM services%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		serviceCols, where, col, dir, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Service, error) {
	s, err := scanService(r.conn(ctx).QueryRow(ctx,
		`SELECT `+serviceCols+` FROM services WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *repoPG) AnalyticsRows(ctx context.Context) ([]AnalyticsRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.name,
		       COUNT(b.id) AS cnt,
		       COALESCE(SUM(s.price), 0) AS revenue,
		       s.duration
		FROM services s
		JOIN appointment_services b ON s.id = b.service_id
		GROUP BY s.id, s.name, s.duration
		ORDER BY cnt DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AnalyticsRow
	for rows.Next() {
		var ar AnalyticsRow
		if err := rows.Scan(&ar.Name, &ar.Count, &ar.Revenue, &ar.Duration); err != nil {
			return nil, err
		}
		items = append(items, ar)
	}
	return items, rows.Err()
}
