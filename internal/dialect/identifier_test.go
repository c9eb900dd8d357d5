package dialect_test

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"fb-dialect/internal/dialect"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	tests := map[string]string{
		"USERS":         "users",
		"USERS      ":   "users",
		"Users":         "Users",
		"users":         "users",
		"ORDER":         "ORDER",
		"_PRIVATE":      "_PRIVATE",
		"1ST":           "1ST",
		"WITH SPACE":    "WITH SPACE",
		"ORDER_ID":      "order_id",
		"RDB$RELATIONS": "rdb$relations",
		"":              "",
	}
	for in, want := range tests {
		if got := p.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDenormalize(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	tests := map[string]string{
		"users":    "USERS",
		"Users":    "Users",
		"order":    "order",
		"order_id": "ORDER_ID",
		"_private": "_private",
		"":         "",
	}
	for in, want := range tests {
		if got := p.Denormalize(in); got != want {
			t.Errorf("Denormalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequiresQuoting(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"USERS":     false,
		"USERS  ":   false,
		"USER_ID":   false,
		"A$B":       false,
		"users":     true,
		"Users":     true,
		"ORDER":     true,
		"select":    true,
		"1ABC":      true,
		"$ABC":      true,
		"_ABC":      true,
		"MY-COLUMN": true,
		"":          true,
	}
	for in, want := range tests {
		assert.Equal(t, want, dialect.RequiresQuoting(in), "RequiresQuoting(%q)", in)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	assert.Equal(t, "users", p.Format("users", false))
	assert.Equal(t, `"Users"`, p.Format("Users", false))
	assert.Equal(t, `"order"`, p.Format("order", false))
	assert.Equal(t, `"users"`, p.Format("users", true))
	assert.Equal(t, `"a""b"`, p.Quote(`a"b`))
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	id := p.Identifier("USERS   ")
	assert.Equal(t, dialect.Identifier{Name: "users"}, id)
	assert.Equal(t, "USERS", p.Catalog(id))

	id = p.Identifier("MixedCase")
	assert.Equal(t, dialect.Identifier{Name: "MixedCase", Quote: true}, id)
	assert.Equal(t, "MixedCase", p.Catalog(id))
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	tests := []struct {
		name    string
		want    dialect.Identifier
		catalog string
	}{
		{name: "users", want: dialect.Identifier{Name: "users"}, catalog: "USERS"},
		{name: "MixedCase", want: dialect.Identifier{Name: "MixedCase", Quote: true}, catalog: "MixedCase"},
		{name: "order", want: dialect.Identifier{Name: "order", Quote: true}, catalog: "order"},
		{name: "ORDER", want: dialect.Identifier{Name: "ORDER"}, catalog: "ORDER"},
	}
	for _, tt := range tests {
		id := dialect.Canonical(tt.name)
		assert.Equal(t, tt.want, id, tt.name)
		assert.Equal(t, tt.catalog, p.Catalog(id), tt.name)
		assert.Equal(t, tt.name, id.String())
	}
}

func TestIdentifierRoundTrip(t *testing.T) {
	t.Parallel()

	var p dialect.Preparer
	faker := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		lower := faker.Regex(`[a-z][a-z0-9_]{0,30}`)
		assert.True(t, dialect.RequiresQuoting(lower), lower)
		assert.Equal(t, lower, p.Normalize(lower))
		assert.Equal(t, lower, p.Catalog(p.Identifier(lower)))

		upper := faker.Regex(`[A-Z][A-Z0-9_$]{0,30}`)
		canonical := p.Normalize(upper)
		if got := p.Denormalize(canonical); got != upper {
			t.Fatalf("Denormalize(Normalize(%q)) = %q", upper, got)
		}
		if dialect.IsReserved(upper) {
			assert.Equal(t, upper, canonical)
			continue
		}
		assert.Equal(t, strings.ToLower(upper), canonical)
		if dialect.NeedsQuotes(canonical) {
			t.Fatalf("NeedsQuotes(Normalize(%q)) = true", upper)
		}
	}
}
