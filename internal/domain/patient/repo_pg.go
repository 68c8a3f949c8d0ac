package patient

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

const patientCols = `id, first_name, last_name, date_of_birth, gender,
	address, phone, email, source, created_date`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Address, &p.Phone, &p.Email, &p.Source, &p.CreatedDate)
	return &p, err
}

// SortColumns enumerates the allowed sort keys. Tokens not in this map are
// rejected by the service before a query is built.
var SortColumns = map[string]string{
	"first_name":   "first_name",
	"last_name":    "last_name",
	"email":        "email",
	"created_date": "created_date",
}

func (r *repoPG) List(ctx context.Context, p ListParams) ([]*Patient, int, error) {
	where := ""
	var args []interface{}
	if p.Search != "" {
		where = ` WHERE first_name ILIKE $1 OR last_name ILIKE $1
			OR email ILIKE $1 OR concat(first_name, ' ', last_name) ILIKE $1`
		args = append(args, "%"+p.Search+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
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
	sql := fmt.Sprintf(`SELECT %s FROM patients%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		patientCols, where, col, dir, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		pt, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pt)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) AppointmentSummaries(ctx context.Context, patientID string) ([]AppointmentSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.status, a.created_date,
		       COUNT(b.id) AS service_count,
		       COALESCE(SUM(s.price), 0) AS total_cost
		FROM appointments a
		LEFT JOIN appointment_services b ON b.appointment_id = a.id
		LEFT JOIN services s ON s.id = b.service_id
		WHERE a.patient_id = $1
		GROUP BY a.id, a.status, a.created_date
		ORDER BY a.created_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AppointmentSummary
	for rows.Next() {
		var s AppointmentSummary
		if err := rows.Scan(&s.ID, &s.Status, &s.CreatedDate, &s.ServiceCount, &s.TotalCost); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
