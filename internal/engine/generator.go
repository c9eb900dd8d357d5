// Package engine seeds reflected tables with generated rows, rendering every
// statement through the Firebird dialect.
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/schema"
)

// Generator produces column values. It is not safe for concurrent use.
type Generator struct {
	f   *gofakeit.Faker
	now time.Time
}

// NewGenerator returns a generator. A zero seed picks a random one.
func NewGenerator(seed int64) *Generator {
	return &Generator{f: gofakeit.New(seed), now: time.Now()}
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// Value generates a value that fits col. Nullable columns of unknown type
// get NULL.
func (g *Generator) Value(col *schema.Column) any {
	name := strings.ToLower(col.Name)
	t := col.Type

	switch t.Kind {
	case ast.TypeChar, ast.TypeVarchar, ast.TypeText:
		return g.text(name, t)

	case ast.TypeSmallInt, ast.TypeInteger, ast.TypeBigInt:
		if !isIDColumn(name) && containsAny(name, flagKeywords) {
			return g.f.Number(0, 1)
		}
		if strings.Contains(name, "year") {
			return g.f.Number(2000, g.now.Year())
		}
		if t.Kind == ast.TypeSmallInt {
			return g.f.Number(1, math.MaxInt16)
		}
		return g.f.Number(1, 50000)

	case ast.TypeNumeric:
		return g.numeric(t)

	case ast.TypeFloat:
		return g.f.Price(0.99, 999.99)

	case ast.TypeDate, ast.TypeTime, ast.TypeTimestamp, ast.TypeDateTime:
		return g.f.DateRange(g.now.AddDate(-1, 0, 0), g.now)

	case ast.TypeBoolean:
		return g.f.Bool()

	case ast.TypeBlob:
		return []byte(g.f.Sentence(8))
	}
	return nil
}

func (g *Generator) text(name string, t ast.Type) string {
	if t.Length == 1 {
		if containsAny(name, flagKeywords) {
			return g.f.RandomString([]string{"Y", "N"})
		}
		return strings.ToUpper(g.f.Letter())
	}
	if !isIDColumn(name) {
		if h, ok := lookupHint(name); ok {
			return truncate(h.gen(g.f), t.Length)
		}
	}
	if strings.Contains(name, "code") || isIDColumn(name) {
		return truncate(strings.ToUpper(g.f.LetterN(3))+fmt.Sprintf("%05d", g.f.Number(0, 99999)), t.Length)
	}
	if t.Length > 0 && t.Length < 20 {
		return truncate(g.f.Word(), t.Length)
	}
	return truncate(g.f.Sentence(5), t.Length)
}

// numeric keeps the integer part within precision and rounds to scale.
func (g *Generator) numeric(t ast.Type) float64 {
	limit := 99999.99
	if t.Precision > 0 && t.Precision-t.Scale < 9 {
		limit = math.Pow10(t.Precision-t.Scale) - 1
	}
	v := g.f.Float64Range(0, limit)
	p := math.Pow10(t.Scale)
	return math.Round(v*p) / p
}
