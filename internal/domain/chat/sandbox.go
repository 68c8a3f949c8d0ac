package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxLimit is the hard ceiling on rows any sandboxed query may return.
const MaxLimit = 500

// ValidationError rejects a statement before it reaches the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ExecutionError wraps a store-level failure while running a sandboxed
// statement.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return fmt.Sprintf("query execution failed: %v", e.Err) }
func (e *ExecutionError) Unwrap() error { return e.Err }

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	forbiddenRe  = regexp.MustCompile(`\b(update|delete|insert|drop|alter|truncate|create|grant|revoke|commit|rollback)\b`)
	limitRe      = regexp.MustCompile(`(?i)\blimit\s+\d+\b`)
)

// Validate normalizes a statement and rejects anything that is not a
// single read-only SELECT.
func Validate(sql string) (string, error) {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(sql), " ")
	if normalized == "" {
		return "", &ValidationError{Reason: "SQL cannot be empty"}
	}

	lowered := strings.ToLower(normalized)
	if !strings.HasPrefix(lowered, "select") {
		return "", &ValidationError{Reason: "only SELECT statements are allowed"}
	}
	if strings.Contains(lowered, ";") {
		return "", &ValidationError{Reason: "multiple statements are not allowed"}
	}
	if forbiddenRe.MatchString(lowered) {
		return "", &ValidationError{Reason: "write or DDL statements are not allowed"}
	}

	return normalized, nil
}

// EnforceLimit appends a LIMIT clause clamped to [1, MaxLimit] unless the
// statement already carries one.
func EnforceLimit(sql string, limit int) string {
	if limitRe.MatchString(sql) {
		return sql
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return fmt.Sprintf("%s LIMIT %d", sql, limit)
}

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Sandbox validates, bounds, and executes read SQL against the store.
type Sandbox struct {
	db queryable
}

func NewSandbox(pool *pgxpool.Pool) *Sandbox {
	return &Sandbox{db: pool}
}

// Run applies Validate and EnforceLimit, then executes the bounded
// statement. It returns the statement actually executed alongside the
// result rows.
func (s *Sandbox) Run(ctx context.Context, sql string, limit int) (string, []map[string]interface{}, error) {
	normalized, err := Validate(sql)
	if err != nil {
		return "", nil, err
	}
	bounded := EnforceLimit(normalized, limit)
	rows, err := s.Execute(ctx, bounded)
	if err != nil {
		return bounded, nil, err
	}
	return bounded, rows, nil
}

// Execute runs a statement and returns each row as a column-name-to-value
// mapping. Store failures come back as ExecutionError.
func (s *Sandbox) Execute(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	results := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &ExecutionError{Err: err}
		}
		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Err: err}
	}

	return results, nil
}
