package dialect

import (
	"database/sql"
	"time"

	"fb-dialect/internal/ast"
)

// CatalogType is the type information of a field as reported by the system
// catalog. Length is in characters: the reflection query divides the byte
// length by the character set's bytes per character. Scale is the catalog's
// non-positive exponent.
type CatalogType struct {
	Name      string
	SubType   sql.NullInt64
	Length    sql.NullInt64
	Precision sql.NullInt64
	Scale     sql.NullInt64
}

// Profile is the immutable type behaviour of one generation. Each profile
// owns a complete table; the legacy one is not derived from the modern one.
type Profile struct {
	Generation Generation
	types      map[string]ast.TypeKind
	colspecs   map[ast.TypeKind]ast.TypeKind
}

var modernProfile = &Profile{
	Generation: Modern,
	types: map[string]ast.TypeKind{
		"SHORT":     ast.TypeSmallInt,
		"LONG":      ast.TypeInteger,
		"QUAD":      ast.TypeFloat,
		"FLOAT":     ast.TypeFloat,
		"DATE":      ast.TypeDate,
		"TIME":      ast.TypeTime,
		"TEXT":      ast.TypeText,
		"INT64":     ast.TypeBigInt,
		"DOUBLE":    ast.TypeFloat,
		"TIMESTAMP": ast.TypeTimestamp,
		"VARYING":   ast.TypeVarchar,
		"CSTRING":   ast.TypeChar,
		"BLOB":      ast.TypeBlob,
	},
	colspecs: map[ast.TypeKind]ast.TypeKind{
		ast.TypeDateTime: ast.TypeDateTime,
	},
}

// Dialect 1 databases have no separate timestamp type: DATE carries the time
// of day and there is nothing else.
var legacyProfile = &Profile{
	Generation: Legacy,
	types: map[string]ast.TypeKind{
		"SHORT":     ast.TypeSmallInt,
		"LONG":      ast.TypeInteger,
		"QUAD":      ast.TypeFloat,
		"FLOAT":     ast.TypeFloat,
		"DATE":      ast.TypeDate,
		"TIME":      ast.TypeTime,
		"TEXT":      ast.TypeText,
		"INT64":     ast.TypeBigInt,
		"DOUBLE":    ast.TypeFloat,
		"TIMESTAMP": ast.TypeDate,
		"VARYING":   ast.TypeVarchar,
		"CSTRING":   ast.TypeChar,
		"BLOB":      ast.TypeBlob,
	},
	colspecs: map[ast.TypeKind]ast.TypeKind{
		ast.TypeDateTime: ast.TypeDate,
	},
}

// ProfileFor returns the profile of generation g.
func ProfileFor(g Generation) *Profile {
	if g == Legacy {
		return legacyProfile
	}
	return modernProfile
}

// MapType maps a catalog type to an abstract type. It reports false, with
// ast.NullType, when the catalog type name is not recognized.
func (p *Profile) MapType(ct CatalogType) (ast.Type, bool) {
	name := trimName(ct.Name)
	kind, ok := p.types[name]
	if !ok {
		return ast.NullType, false
	}
	t := ast.Type{Kind: kind}
	switch {
	case t.IsInteger() && ct.Precision.Valid && ct.Precision.Int64 != 0:
		return ast.Numeric(int(ct.Precision.Int64), -int(ct.Scale.Int64)), true
	case name == "VARYING", name == "CSTRING", name == "TEXT":
		t.Length = int(ct.Length.Int64)
	case name == "BLOB":
		if ct.SubType.Valid && ct.SubType.Int64 == 1 {
			return ast.Text(0), true
		}
		return ast.Blob(), true
	}
	return t, true
}

// TypeNames returns the catalog type names the profile recognizes.
func (p *Profile) TypeNames() []string {
	names := make([]string, 0, len(p.types))
	for n := range p.types {
		names = append(names, n)
	}
	return names
}

// ColumnSpec returns the kind used to bind values of kind k.
func (p *Profile) ColumnSpec(k ast.TypeKind) ast.TypeKind {
	if spec, ok := p.colspecs[k]; ok {
		return spec
	}
	return k
}

// BindValue coerces a parameter bound to a column of type t. Time values
// bound as dates lose their time of day.
func (p *Profile) BindValue(t ast.Type, v any) any {
	tm, ok := v.(time.Time)
	if !ok {
		return v
	}
	if p.ColumnSpec(t.Kind) == ast.TypeDate {
		y, m, d := tm.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, tm.Location())
	}
	return v
}
