package dialect_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
)

func n(v int64) sql.NullInt64 { return sql.NullInt64{Int64: v, Valid: true} }

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ct   dialect.CatalogType
		want ast.Type
	}{
		{"short", dialect.CatalogType{Name: "SHORT", Precision: n(0)}, ast.SmallInt()},
		{"long", dialect.CatalogType{Name: "LONG"}, ast.Integer()},
		{"long numeric", dialect.CatalogType{Name: "LONG", Precision: n(9), Scale: n(-2)}, ast.Numeric(9, 2)},
		{"int64 numeric", dialect.CatalogType{Name: "INT64", Precision: n(18), Scale: n(-4)}, ast.Numeric(18, 4)},
		{"int64", dialect.CatalogType{Name: "INT64", Precision: n(0), Scale: n(0)}, ast.BigInt()},
		{"double", dialect.CatalogType{Name: "DOUBLE"}, ast.Float()},
		{"quad", dialect.CatalogType{Name: "QUAD"}, ast.Float()},
		{"padded timestamp", dialect.CatalogType{Name: "TIMESTAMP      "}, ast.Timestamp()},
		{"varying", dialect.CatalogType{Name: "VARYING", Length: n(50)}, ast.Varchar(50)},
		{"cstring", dialect.CatalogType{Name: "CSTRING", Length: n(10)}, ast.Char(10)},
		{"text", dialect.CatalogType{Name: "TEXT", Length: n(3)}, ast.Text(3)},
		{"text blob", dialect.CatalogType{Name: "BLOB", SubType: n(1)}, ast.Text(0)},
		{"binary blob", dialect.CatalogType{Name: "BLOB", SubType: n(0)}, ast.Blob()},
		{"blob without subtype", dialect.CatalogType{Name: "BLOB"}, ast.Blob()},
	}
	p := dialect.ProfileFor(dialect.Modern)
	for _, tt := range tests {
		got, ok := p.MapType(tt.ct)
		require.True(t, ok, tt.name)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: MapType() mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestMapTypeUnknown(t *testing.T) {
	t.Parallel()

	got, ok := dialect.ProfileFor(dialect.Modern).MapType(dialect.CatalogType{Name: "BLOB_ID"})
	assert.False(t, ok)
	assert.Equal(t, ast.NullType, got)
}

func TestLegacyProfile(t *testing.T) {
	t.Parallel()

	legacy := dialect.ProfileFor(dialect.Legacy)
	modern := dialect.ProfileFor(dialect.Modern)
	assert.ElementsMatch(t, modern.TypeNames(), legacy.TypeNames())
	assert.Len(t, legacy.TypeNames(), 13)

	got, ok := legacy.MapType(dialect.CatalogType{Name: "TIMESTAMP"})
	require.True(t, ok)
	assert.Equal(t, ast.Date(), got)

	assert.Equal(t, ast.TypeDate, legacy.ColumnSpec(ast.TypeDateTime))
	assert.Equal(t, ast.TypeDateTime, modern.ColumnSpec(ast.TypeDateTime))
	assert.Equal(t, ast.TypeVarchar, legacy.ColumnSpec(ast.TypeVarchar))
}

func TestBindValue(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	midnight := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	legacy := dialect.ProfileFor(dialect.Legacy)
	assert.Equal(t, midnight, legacy.BindValue(ast.DateTime(), at))
	assert.Equal(t, midnight, legacy.BindValue(ast.Date(), at))
	assert.Equal(t, "x", legacy.BindValue(ast.DateTime(), "x"))

	modern := dialect.ProfileFor(dialect.Modern)
	assert.Equal(t, at, modern.BindValue(ast.DateTime(), at))
	assert.Equal(t, midnight, modern.BindValue(ast.Date(), at))
}
