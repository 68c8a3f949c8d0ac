package chat

import (
	"errors"
	"testing"
)

func TestValidateAcceptsSelect(t *testing.T) {
	got, err := Validate("  select *   from patients  ")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != "select * from patients" {
		t.Errorf("normalized = %q", got)
	}
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	if _, err := Validate("SeLeCt count(*) FROM payments"); err != nil {
		t.Errorf("mixed-case select rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		sql  string
	}{
		{"empty", "   "},
		{"not select", "WITH x AS (SELECT 1) SELECT * FROM x"},
		{"statement chaining", "SELECT 1; DROP TABLE patients"},
		{"update", "UPDATE patients SET x=1"},
		{"delete inside select", "select * from patients where id in (delete from payments)"},
		{"truncate", "select 1 truncate table payments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.sql)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Validate(%q) err = %v, want ValidationError", tc.sql, err)
			}
		})
	}
}

func TestValidateForbiddenWordsAreWholeWords(t *testing.T) {
	// Column names that merely contain a forbidden word must pass.
	if _, err := Validate("select updated_at, created_date from patients"); err != nil {
		t.Errorf("substring match rejected: %v", err)
	}
}

func TestEnforceLimitAppendsClamped(t *testing.T) {
	got := EnforceLimit("select * from patients", 1000)
	if got != "select * from patients LIMIT 500" {
		t.Errorf("got %q", got)
	}
	got = EnforceLimit("select * from patients", 0)
	if got != "select * from patients LIMIT 1" {
		t.Errorf("got %q", got)
	}
}

func TestEnforceLimitRespectsExisting(t *testing.T) {
	got := EnforceLimit("select * from patients limit 10", 999)
	if got != "select * from patients limit 10" {
		t.Errorf("got %q", got)
	}
	got = EnforceLimit("select * from patients LIMIT 25", 5)
	if got != "select * from patients LIMIT 25" {
		t.Errorf("got %q", got)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```sql\nselect 1\n```": "select 1",
		"```\nselect 1\n```":    "select 1",
		"select 1":              "select 1",
		"  select 1  ":          "select 1",
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
