package database

import (
	"fmt"
	"strings"
)

// WhereBuilder assembles a parameterized WHERE clause. Column expressions
// come from code, never from user input; only values become arguments.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

// NewWhereBuilder creates an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "column = $n". Empty values are skipped so optional filters
// can be added unconditionally.
func (wb *WhereBuilder) Add(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddArg(column, value)
}

// AddArg appends "column = $n" for any value, including zero values.
func (wb *WhereBuilder) AddArg(column string, value interface{}) *WhereBuilder {
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, value)
	wb.argIndex++
	return wb
}

// AddSearch appends a case-insensitive substring match of query against the
// space-joined columns. LIKE wildcards in query match literally.
func (wb *WhereBuilder) AddSearch(query string, columns ...string) *WhereBuilder {
	query = strings.TrimSpace(query)
	if query == "" || len(columns) == 0 {
		return wb
	}

	expr := columns[0]
	if len(columns) > 1 {
		expr = "concat_ws(' ', " + strings.Join(columns, ", ") + ")"
	}

	wb.conditions = append(wb.conditions, fmt.Sprintf("%s ILIKE $%d", expr, wb.argIndex))
	wb.args = append(wb.args, "%"+escapeLike(query)+"%")
	wb.argIndex++
	return wb
}

// Build returns " WHERE a AND b" and its arguments, or "" and nil when
// nothing was added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
