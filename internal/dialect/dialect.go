// Package dialect adapts generic SQL constructs, types and reflection to
// Firebird: identifier folding, the catalog type map, the negotiated
// generation and the rendering overrides.
package dialect

import (
	"fmt"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/compiler"
)

// Name is the dialect name.
const Name = "firebird"

// Dialect is the per-connection Firebird dialect. It is immutable once built
// and safe for concurrent use.
type Dialect struct {
	info     ServerInfo
	gen      Generation
	profile  *Profile
	caps     Capabilities
	preparer Preparer
	logger   Logger
	compiler *compiler.Compiler
}

// Option configures a Dialect.
type Option func(*options)

type options struct {
	logger            Logger
	implicitReturning bool
}

// WithLogger sets the logger receiving diagnostics. The default writes to the
// standard library logger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithImplicitReturning toggles fetching generated keys with RETURNING on
// servers that support it. It is on by default.
func WithImplicitReturning(on bool) Option {
	return func(o *options) { o.implicitReturning = on }
}

// New returns the dialect used before a connection is made: modern
// generation with long identifiers.
func New(opts ...Option) *Dialect {
	return build(ServerInfo{Product: ProductFirebird, Version: []int{4, 0}, EngineVersion: 4.0}, opts)
}

// Connect negotiates the dialect of a connection from its server metadata.
func Connect(info ServerInfo, opts ...Option) *Dialect {
	return build(info, opts)
}

func build(info ServerInfo, opts []Option) *Dialect {
	o := options{logger: StdLogger(), implicitReturning: true}
	for _, opt := range opts {
		opt(&o)
	}
	gen := Negotiate(info)
	d := &Dialect{
		info:    info,
		gen:     gen,
		profile: ProfileFor(gen),
		caps:    negotiateCapabilities(info, gen, o.implicitReturning),
		logger:  o.logger,
	}
	d.compiler = d.newCompiler()
	return d
}

// Name returns "firebird".
func (d *Dialect) Name() string { return Name }

// ServerInfo returns the metadata the dialect was negotiated from.
func (d *Dialect) ServerInfo() ServerInfo { return d.info }

// Generation returns the negotiated generation.
func (d *Dialect) Generation() Generation { return d.gen }

// Capabilities returns the negotiated feature flags.
func (d *Dialect) Capabilities() Capabilities { return d.caps }

// MaxIdentifierLength returns the longest identifier the server accepts.
func (d *Dialect) MaxIdentifierLength() int { return d.caps.MaxIdentifierLength }

// Profile returns the type profile of the generation.
func (d *Dialect) Profile() *Profile { return d.profile }

// Preparer returns the identifier policy.
func (d *Dialect) Preparer() Preparer { return d.preparer }

// Logger returns the diagnostics logger.
func (d *Dialect) Logger() Logger { return d.logger }

// Normalize converts a catalog name to its canonical form.
func (d *Dialect) Normalize(name string) string { return d.preparer.Normalize(name) }

// Denormalize converts a canonical name to its catalog form.
func (d *Dialect) Denormalize(name string) string { return d.preparer.Denormalize(name) }

// Identifier normalizes a catalog name and keeps its quoting requirement.
func (d *Dialect) Identifier(raw string) Identifier { return d.preparer.Identifier(raw) }

// CatalogName returns the catalog form of id, the value bound to catalog
// queries.
func (d *Dialect) CatalogName(id Identifier) string { return d.preparer.Catalog(id) }

// MapType maps a catalog type with the generation's type table.
func (d *Dialect) MapType(ct CatalogType) (ast.Type, bool) { return d.profile.MapType(ct) }

// Compiler returns the dialect's SQL compiler.
func (d *Dialect) Compiler() *compiler.Compiler { return d.compiler }

// Compile renders a statement or DDL construct.
func (d *Dialect) Compile(n ast.Node) (string, error) {
	return d.compiler.Compile(n)
}

// CompileType renders a column type declaration.
func (d *Dialect) CompileType(t ast.Type) (string, error) {
	return d.compiler.Types.Process(t)
}

// NextValueQuery returns the statement fetching the next value of seq.
func (d *Dialect) NextValueQuery(seq *ast.Sequence) string {
	return fmt.Sprintf("SELECT gen_id(%s, 1) FROM rdb$database", d.preparer.Format(seq.Name, false))
}

// CommentOnTable returns the statement setting a table comment.
func (d *Dialect) CommentOnTable(t *ast.TableDef) (string, error) {
	lit, err := compiler.RenderLiteral(t.Comment)
	if err != nil {
		return "", err
	}
	return "COMMENT ON TABLE " + d.preparer.Format(t.Name, t.Quote) + " IS " + lit, nil
}
