// Package compiler renders ast nodes into SQL text.
//
// A Compiler dispatches on ast.Kind to one registered Handler per construct.
// New registers the generic handlers; a dialect replaces the ones it needs
// with Register and may fall through to the generic rendering with Generic.
package compiler

import (
	"fmt"
	"strings"

	"fb-dialect/internal/ast"
)

// Opts carries rendering context down the tree.
type Opts struct {
	// AsFrom is set while rendering an element of a FROM list.
	AsFrom bool
	// OmitTable renders columns without their table qualifier.
	OmitTable bool
	// LiteralBinds renders bind values inline.
	LiteralBinds bool
	// Table is the table whose CREATE TABLE is being rendered.
	Table *ast.TableDef
}

// Handler renders one construct kind.
type Handler func(c *Compiler, n ast.Node, o Opts) (string, error)

// Preparer formats identifiers for the target database.
type Preparer interface {
	// Format returns name ready to embed in SQL, quoted when required or forced.
	Format(name string, force bool) string
}

// Hooks are the statement-level extension points that are not constructs
// of their own.
type Hooks struct {
	// PreColumns is rendered right after SELECT [DISTINCT].
	PreColumns func(c *Compiler, s *ast.Select, o Opts) (string, error)
	// LimitClause is appended at the end of a SELECT.
	LimitClause func(c *Compiler, s *ast.Select, o Opts) (string, error)
	// Returning renders the RETURNING clause of INSERT, UPDATE and DELETE.
	Returning func(c *Compiler, cols []ast.Node, o Opts) (string, error)
	// PostCreateTable is appended after the closing parenthesis of CREATE TABLE.
	PostCreateTable func(c *Compiler, t *ast.TableDef) (string, error)
	// DefaultFrom is appended to a SELECT that has no FROM list.
	DefaultFrom string
}

// Compiler is a SQL renderer. It is not safe to Register concurrently with
// rendering; rendering itself keeps no state.
type Compiler struct {
	Preparer Preparer
	Types    *TypeCompiler
	Hooks    Hooks

	handlers map[ast.Kind]Handler
	generic  map[ast.Kind]Handler
}

// New returns a compiler with the generic handlers registered.
func New(p Preparer) *Compiler {
	if p == nil {
		p = DefaultPreparer{}
	}
	c := &Compiler{
		Preparer: p,
		Types:    NewTypeCompiler(),
		handlers: make(map[ast.Kind]Handler),
		generic: map[ast.Kind]Handler{
			ast.KindColumn:         visitColumn,
			ast.KindTable:          visitTable,
			ast.KindLiteral:        visitLiteral,
			ast.KindBind:           visitBind,
			ast.KindBinary:         visitBinary,
			ast.KindFunc:           visitFunc,
			ast.KindNextValue:      visitNextValue,
			ast.KindAlias:          visitAlias,
			ast.KindRaw:            visitRaw,
			ast.KindSelect:         visitSelect,
			ast.KindInsert:         visitInsert,
			ast.KindUpdate:         visitUpdate,
			ast.KindDelete:         visitDelete,
			ast.KindEmptySet:       visitEmptySet,
			ast.KindCreateTable:    visitCreateTable,
			ast.KindColumnDef:      visitColumnDef,
			ast.KindComputed:       visitComputed,
			ast.KindCreateSequence: visitCreateSequence,
			ast.KindDropSequence:   visitDropSequence,
		},
	}
	for k, h := range c.generic {
		c.handlers[k] = h
	}
	return c
}

// Register replaces the handler of kind k.
func (c *Compiler) Register(k ast.Kind, h Handler) {
	c.handlers[k] = h
}

// Compile renders a top-level node.
func (c *Compiler) Compile(n ast.Node) (string, error) {
	return c.Process(n, Opts{})
}

// Process renders n with the registered handler of its kind.
func (c *Compiler) Process(n ast.Node, o Opts) (string, error) {
	if n == nil {
		return "", fmt.Errorf("compiler: nil node")
	}
	h, ok := c.handlers[n.Kind()]
	if !ok {
		return "", fmt.Errorf("compiler: no handler for %s", n.Kind())
	}
	return h(c, n, o)
}

// Generic renders n with the generic handler of its kind, bypassing overrides.
func (c *Compiler) Generic(n ast.Node, o Opts) (string, error) {
	h, ok := c.generic[n.Kind()]
	if !ok {
		return "", fmt.Errorf("compiler: no generic handler for %s", n.Kind())
	}
	return h(c, n, o)
}

// List renders nodes joined by ", ".
func (c *Compiler) List(nodes []ast.Node, o Opts) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := c.Process(n, o)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// FormatSequence formats a sequence name.
func (c *Compiler) FormatSequence(s *ast.Sequence) string {
	return c.Preparer.Format(s.Name, s.Quote)
}

// FormatTable formats a table reference.
func (c *Compiler) FormatTable(t *ast.Table) string {
	return c.Preparer.Format(t.Name, t.Quote)
}
