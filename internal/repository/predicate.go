package repository

import (
	"fmt"
	"strings"
)

// Field enumerates the employee columns that lookups may match against.
// The resolver builds predicates only from this closed set, so the generated
// SQL is type-checked end to end.
type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldEmail      Field = "email"
	FieldPosition   Field = "position"
	FieldDepartment Field = "department"
)

// Mode selects how a condition compares its value with the column.
// Both modes are case-insensitive; ModeContains is plain substring matching
// with no token-boundary awareness.
type Mode int

const (
	ModeEquals Mode = iota
	ModeContains
)

// Predicate is a conjunction/disjunction tree over field conditions.
type Predicate interface {
	appendSQL(sb *strings.Builder, args *[]any)
}

// Cond is a single field comparison.
type Cond struct {
	Field Field
	Mode  Mode
	Value string
}

func (c Cond) appendSQL(sb *strings.Builder, args *[]any) {
	*args = append(*args, c.Value)
	placeholder := fmt.Sprintf("$%d", len(*args))

	switch c.Mode {
	case ModeEquals:
		fmt.Fprintf(sb, "LOWER(COALESCE(%s, '')) = LOWER(%s)", c.Field, placeholder)
	case ModeContains:
		fmt.Fprintf(sb, "COALESCE(%s, '') ILIKE '%%' || %s || '%%'", c.Field, placeholder)
	}
}

type junction struct {
	op    string
	preds []Predicate
}

func (j junction) appendSQL(sb *strings.Builder, args *[]any) {
	if len(j.preds) == 1 {
		j.preds[0].appendSQL(sb, args)
		return
	}

	sb.WriteString("(")
	for i, p := range j.preds {
		if i > 0 {
			sb.WriteString(" " + j.op + " ")
		}
		p.appendSQL(sb, args)
	}
	sb.WriteString(")")
}

// And combines predicates so that every one must hold.
func And(preds ...Predicate) Predicate {
	return junction{op: "AND", preds: preds}
}

// Or combines predicates so that at least one must hold.
func Or(preds ...Predicate) Predicate {
	return junction{op: "OR", preds: preds}
}

// Contains is a shorthand for a case-insensitive substring condition.
func Contains(field Field, value string) Predicate {
	return Cond{Field: field, Mode: ModeContains, Value: value}
}

// Equals is a shorthand for a case-insensitive equality condition.
func Equals(field Field, value string) Predicate {
	return Cond{Field: field, Mode: ModeEquals, Value: value}
}

// BuildWhere renders a predicate tree into a SQL WHERE clause body and its
// ordered arguments.
func BuildWhere(p Predicate) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 4)
	p.appendSQL(&sb, &args)
	return sb.String(), args
}
