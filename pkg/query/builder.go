package query

import (
	"reflect"
	"strconv"
	"strings"
)

// placeholder marks a parameter slot in a condition. Slots are numbered
// when the statement is built so conditions compose in any order.
const placeholder = "$%d"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type condition struct {
	clause string
	args   []any
}

// SortField orders by a projected field. Descending selects DESC.
type SortField struct {
	Field      string
	Descending bool
}

// Builder accumulates conditions and ordering for one projection.
// Builders are not safe for concurrent use.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields reads a comma-separated sort expression such as
// "Title,-CreatedAt". A leading "-" sorts descending and a leading "+" is
// accepted for ascending. Returns nil when no field is named.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		desc := false
		switch {
		case strings.HasPrefix(part, "-"):
			part, desc = part[1:], true
		case strings.HasPrefix(part, "+"):
			part = part[1:]
		}
		if part == "" {
			continue
		}
		fields = append(fields, SortField{Field: part, Descending: desc})
	}
	return fields
}

// OrderByFields replaces the default ordering. Fields the projection does
// not map are ignored when the statement is built.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.order = fields
	return b
}

// WhereEquals matches field exactly. Nil values, including typed nil
// pointers, add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(b.projection.Column(field)+" = "+placeholder, value)
}

// WhereContains matches field case-insensitively against value as a
// substring. LIKE wildcards in value are matched literally.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.projection.Column(field)+" ILIKE "+placeholder, containsPattern(*value))
}

// WhereSearch matches search as a substring of any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := containsPattern(*search)
	ors := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		ors[i] = b.projection.Column(field) + " ILIKE " + placeholder
		args[i] = pattern
	}

	return b.add("("+strings.Join(ors, " OR ")+")", args...)
}

// WhereClause adds a raw condition. Each "$%d" slot consumes one arg in
// order; literal references such as "$1" are left alone.
func (b *Builder) WhereClause(clause string, args ...any) *Builder {
	return b.add(clause, args...)
}

func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	b.writeSelect(&sb, "")
	args := b.writeWhere(&sb, 1)
	b.writeOrder(&sb)
	return sb.String(), args
}

func (b *Builder) BuildCount() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(b.projection.From())
	args := b.writeWhere(&sb, 1)
	return sb.String(), args
}

// BuildPage selects one page. Page numbers below 1 select the first page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	page = max(page, 1)

	var sb strings.Builder
	b.writeSelect(&sb, "")
	args := b.writeWhere(&sb, 1)
	b.writeOrder(&sb)
	sb.WriteString(" LIMIT ")
	sb.WriteString(strconv.Itoa(pageSize))
	sb.WriteString(" OFFSET ")
	sb.WriteString(strconv.Itoa((page - 1) * pageSize))
	return sb.String(), args
}

// BuildSingle selects the row whose idField equals id. Accumulated
// conditions and ordering are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	var sb strings.Builder
	b.writeSelect(&sb, "")
	sb.WriteString(" WHERE ")
	sb.WriteString(b.projection.Column(idField))
	sb.WriteString(" = $1")
	return sb.String(), []any{id}
}

// BuildRanked selects rank as a trailing "score" column and returns the
// best limit rows. $1 is reserved for rankArg so rank and raw conditions
// can share it; slots are numbered from $2.
func (b *Builder) BuildRanked(rank string, rankArg any, limit int) (string, []any) {
	var sb strings.Builder
	b.writeSelect(&sb, ", "+rank+" AS score")
	args := b.writeWhere(&sb, 2)
	sb.WriteString(" ORDER BY score DESC LIMIT ")
	sb.WriteString(strconv.Itoa(limit))
	return sb.String(), append([]any{rankArg}, args...)
}

func (b *Builder) add(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) writeSelect(sb *strings.Builder, extra string) {
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(extra)
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.From())
}

// writeWhere appends the WHERE clause with slots numbered from next and
// returns the args in slot order.
func (b *Builder) writeWhere(sb *strings.Builder, next int) []any {
	if len(b.conditions) == 0 {
		return nil
	}

	var args []any
	sb.WriteString(" WHERE ")
	for i, c := range b.conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		next = numberSlots(sb, c.clause, next, len(c.args))
		args = append(args, c.args...)
	}
	return args
}

// numberSlots writes clause with its first n slots replaced by sequential
// parameter numbers starting at next. It returns the next free number.
func numberSlots(sb *strings.Builder, clause string, next, n int) int {
	for range n {
		before, after, found := strings.Cut(clause, placeholder)
		if !found {
			break
		}
		sb.WriteString(before)
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(next))
		clause = after
		next++
	}
	sb.WriteString(clause)
	return next
}

func (b *Builder) writeOrder(sb *strings.Builder) {
	fields := b.order
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	written := 0
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if written == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		if f.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		written++
	}
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
