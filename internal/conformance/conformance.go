// Package conformance compares a live database against the persisted row
// shapes declared in contracts.PersistedTables.
//
// Extra columns and extra tables are ignored: a deployment may store more
// than the shared shapes describe, never less.
package conformance

import (
	"context"
	"fmt"
	"strings"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/storage"
)

// Problem classifies a Finding.
type Problem string

const (
	MissingTable        Problem = "missing_table"
	MissingColumn       Problem = "missing_column"
	KindMismatch        Problem = "kind_mismatch"
	NullabilityMismatch Problem = "nullability_mismatch"
)

// Finding is one difference between a table spec and the live schema.
type Finding struct {
	Table   string  `json:"table"`
	Column  string  `json:"column,omitempty"`
	Problem Problem `json:"problem"`
	Want    string  `json:"want,omitempty"`
	Got     string  `json:"got,omitempty"`
}

func (f Finding) String() string {
	where := f.Table
	if f.Column != "" {
		where += "." + f.Column
	}
	if f.Want == "" && f.Got == "" {
		return fmt.Sprintf("%s: %s", where, f.Problem)
	}
	return fmt.Sprintf("%s: %s (want %s, got %s)", where, f.Problem, f.Want, f.Got)
}

// Report is the outcome of comparing every table spec.
type Report struct {
	Schema   string    `json:"schema"`
	Tables   int       `json:"tables"`
	Findings []Finding `json:"findings"`
}

// OK reports whether the live schema satisfies every spec.
func (r Report) OK() bool { return len(r.Findings) == 0 }

// ColumnSource reads column metadata; *storage.DB implements it.
type ColumnSource interface {
	Columns(ctx context.Context, schema string, tables []string) ([]storage.ColumnInfo, error)
}

// Check reads the live columns for specs from src and compares them.
func Check(ctx context.Context, src ColumnSource, schema string, specs []contracts.TableSpec) (Report, error) {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	live, err := src.Columns(ctx, schema, names)
	if err != nil {
		return Report{}, fmt.Errorf("conformance: %w", err)
	}
	report := Compare(specs, live)
	report.Schema = schema
	return report, nil
}

// Compare checks live columns against specs. Findings follow spec order.
func Compare(specs []contracts.TableSpec, live []storage.ColumnInfo) Report {
	byTable := make(map[string]map[string]storage.ColumnInfo)
	for _, c := range live {
		if byTable[c.Table] == nil {
			byTable[c.Table] = make(map[string]storage.ColumnInfo)
		}
		byTable[c.Table][c.Name] = c
	}

	report := Report{Tables: len(specs), Findings: []Finding{}}
	for _, spec := range specs {
		cols, ok := byTable[spec.Name]
		if !ok {
			report.Findings = append(report.Findings, Finding{Table: spec.Name, Problem: MissingTable})
			continue
		}
		for _, want := range spec.Columns {
			got, ok := cols[want.Name]
			if !ok {
				report.Findings = append(report.Findings, Finding{
					Table: spec.Name, Column: want.Name, Problem: MissingColumn, Want: string(want.Kind),
				})
				continue
			}
			if kind := KindOf(got.DataType, got.UDTName); kind != want.Kind {
				report.Findings = append(report.Findings, Finding{
					Table: spec.Name, Column: want.Name, Problem: KindMismatch,
					Want: string(want.Kind), Got: fmt.Sprintf("%s (%s)", kind, got.DataType),
				})
			}
			if got.Nullable != want.Nullable {
				report.Findings = append(report.Findings, Finding{
					Table: spec.Name, Column: want.Name, Problem: NullabilityMismatch,
					Want: nullability(want.Nullable), Got: nullability(got.Nullable),
				})
			}
		}
	}
	return report
}

func nullability(nullable bool) string {
	if nullable {
		return "nullable"
	}
	return "not null"
}

// KindOf maps a Postgres information_schema type to its column kind. UUIDs
// and enum types hold identifiers and enum values, so they count as text.
func KindOf(dataType, udtName string) contracts.ColumnKind {
	switch strings.ToLower(dataType) {
	case "text", "character varying", "character", "uuid", "citext", "user-defined":
		return contracts.ColumnText
	case "smallint", "integer", "bigint":
		return contracts.ColumnInteger
	case "numeric", "real", "double precision":
		return contracts.ColumnNumeric
	case "boolean":
		return contracts.ColumnBoolean
	case "timestamp with time zone", "timestamp without time zone", "date":
		return contracts.ColumnTimestamp
	case "json", "jsonb":
		return contracts.ColumnJSON
	case "array":
		return contracts.ColumnArray
	}
	if strings.HasPrefix(udtName, "_") {
		return contracts.ColumnArray
	}
	return contracts.ColumnKind(strings.ToLower(dataType))
}
