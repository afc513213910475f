package ldbc

import "strings"

// Parameter is a single slot in a Sql fragment's parameter list. Exactly one
// of Static or Dynamic is meaningful, distinguished by isStatic.
type Parameter struct {
	isStatic bool
	static   string  // literal text, already spliced into the owning Sql's text
	dynamic  Encoded // result of running an Encoder over a bound value
}

// StaticParam builds a Parameter whose text is spliced verbatim into the
// owning fragment rather than bound as a placeholder. Callers are trusted:
// this is the escape hatch for literal identifiers/keywords that can never
// be bound as a "?" placeholder (table names, column lists, ORDER BY
// direction).
func StaticParam(text string) Parameter {
	return Parameter{isStatic: true, static: text}
}

// DynamicParam wraps the result of an Encoder call.
func DynamicParam(e Encoded) Parameter {
	return Parameter{isStatic: false, dynamic: e}
}

func (p Parameter) isDynamic() bool { return !p.isStatic }

// Sql is an immutable SQL fragment: text containing one '?' per Dynamic
// parameter, in order, plus that ordered parameter list. Static parameters
// have already been folded into text at construction time.
type Sql struct {
	text   string
	params []Parameter
}

// NewSql constructs a fragment directly from already-built text and
// parameters. Most callers should prefer the combinators below or a
// generated interpolation helper; this is the low-level constructor they
// bottom out in.
func NewSql(text string, params []Parameter) Sql {
	return Sql{text: text, params: params}
}

// Text returns the fragment's SQL text.
func (s Sql) Text() string { return s.text }

// Params returns the fragment's ordered parameter list.
func (s Sql) Params() []Parameter { return s.params }

// DynamicParams returns only the Dynamic parameters, in order — the slice the
// interpreter binds positionally.
func (s Sql) DynamicParams() []Parameter {
	out := make([]Parameter, 0, len(s.params))
	for _, p := range s.params {
		if p.isDynamic() {
			out = append(out, p)
		}
	}
	return out
}

// Concat appends another fragment's text and parameters to this one. It is
// the one true composition rule in the model: everything else in this file
// is built from it.
func (s Sql) Concat(other Sql) Sql {
	return Sql{
		text:   s.text + other.text,
		params: append(append([]Parameter{}, s.params...), other.params...),
	}
}

// Raw builds a fragment with no parameters from literal text.
func Raw(text string) Sql {
	return Sql{text: text}
}

// Placeholder builds a fragment with one '?' per primitive e encodes to,
// each bound to its own Parameter — so a composite Encoder (e.g. a product
// of two scalar encoders) expands to the right number of placeholders
// automatically, keeping the placeholder/parameter-count invariant honest
// even when a single bound value spans several columns. A failed encode
// still yields exactly one placeholder, carrying the aggregated failure;
// the interpreter rejects it before the text ever reaches the connection.
func Placeholder(e Encoded) Sql {
	if !e.Ok() {
		return Sql{text: "?", params: []Parameter{DynamicParam(e)}}
	}
	if len(e.values) == 0 {
		return Sql{}
	}
	params := make([]Parameter, len(e.values))
	for i, v := range e.values {
		params[i] = DynamicParam(success(v))
	}
	return Sql{text: strings.TrimSuffix(strings.Repeat("?, ", len(e.values)), ", "), params: params}
}

// Comma joins fragments with ", ".
func Comma(frags ...Sql) Sql {
	return join(", ", frags)
}

// Parentheses wraps a fragment in "( ... )".
func Parentheses(f Sql) Sql {
	return Raw("(").Concat(f).Concat(Raw(")"))
}

// Values builds "(v1, v2, ...)" for one row of encoded values.
func Values(encoded []Encoded) Sql {
	frags := make([]Sql, len(encoded))
	for i, e := range encoded {
		frags[i] = Placeholder(e)
	}
	return Parentheses(Comma(frags...))
}

// In builds "column IN (v1, v2, ...)". Panics if encoded is empty: an empty
// IN-list is a caller bug, not a representable SQL fragment.
func In(column string, encoded []Encoded) Sql {
	if len(encoded) == 0 {
		panic("ldbc: In requires at least one value")
	}
	return Raw(column + " IN ").Concat(Parentheses(Comma(placeholders(encoded)...)))
}

// NotIn builds "column NOT IN (v1, v2, ...)".
func NotIn(column string, encoded []Encoded) Sql {
	if len(encoded) == 0 {
		panic("ldbc: NotIn requires at least one value")
	}
	return Raw(column + " NOT IN ").Concat(Parentheses(Comma(placeholders(encoded)...)))
}

// And joins fragments with " AND ", each wrapped in parentheses.
func And(frags ...Sql) Sql {
	return joinWrapped(" AND ", frags)
}

// Or joins fragments with " OR ", each wrapped in parentheses.
func Or(frags ...Sql) Sql {
	return joinWrapped(" OR ", frags)
}

// WhereAnd prefixes "WHERE " before an And of the given fragments. Panics on
// an empty list; use WhereAndOpt when some conditions may be absent.
func WhereAnd(frags ...Sql) Sql {
	if len(frags) == 0 {
		panic("ldbc: WhereAnd requires at least one condition")
	}
	return Raw("WHERE ").Concat(And(frags...))
}

// WhereOr prefixes "WHERE " before an Or of the given fragments.
func WhereOr(frags ...Sql) Sql {
	if len(frags) == 0 {
		panic("ldbc: WhereOr requires at least one condition")
	}
	return Raw("WHERE ").Concat(Or(frags...))
}

// WhereAndOpt is WhereAnd but tolerant of an empty list: it returns an empty
// fragment rather than panicking, for callers building a where-clause from
// conditionally-present filters.
func WhereAndOpt(frags ...Sql) Sql {
	if len(frags) == 0 {
		return Raw("")
	}
	return WhereAnd(frags...)
}

// WhereOrOpt is WhereOr but tolerant of an empty list.
func WhereOrOpt(frags ...Sql) Sql {
	if len(frags) == 0 {
		return Raw("")
	}
	return WhereOr(frags...)
}

// Set builds "SET a = ?, b = ?, ..." from column/value pairs.
func Set(assignments ...Sql) Sql {
	return Raw("SET ").Concat(Comma(assignments...))
}

// Assign builds "column = ?" for one Set entry.
func Assign(column string, e Encoded) Sql {
	return Raw(column + " = ").Concat(Placeholder(e))
}

// OrderBy builds "ORDER BY col1, col2 ...".
func OrderBy(columns ...string) Sql {
	return Raw("ORDER BY " + strings.Join(columns, ", "))
}

func placeholders(encoded []Encoded) []Sql {
	frags := make([]Sql, len(encoded))
	for i, e := range encoded {
		frags[i] = Placeholder(e)
	}
	return frags
}

func join(sep string, frags []Sql) Sql {
	out := Raw("")
	for i, f := range frags {
		if i > 0 {
			out = out.Concat(Raw(sep))
		}
		out = out.Concat(f)
	}
	return out
}

func joinWrapped(sep string, frags []Sql) Sql {
	wrapped := make([]Sql, len(frags))
	for i, f := range frags {
		wrapped[i] = Parentheses(f)
	}
	return join(sep, wrapped)
}
