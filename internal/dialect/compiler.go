package dialect

import (
	"fmt"
	"strings"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/compiler"
)

// defaultFrom is the one-row table selected from when a SELECT has no FROM.
const defaultFrom = " FROM rdb$database"

func (d *Dialect) newCompiler() *compiler.Compiler {
	c := compiler.New(d.preparer)
	c.Hooks = compiler.Hooks{
		PreColumns:      selectPreColumns,
		LimitClause:     noLimitClause,
		Returning:       returningClause,
		PostCreateTable: postCreateTable,
		DefaultFrom:     defaultFrom,
	}
	c.Register(ast.KindEmptySet, visitEmptySet)
	c.Register(ast.KindFunc, visitFunc)
	c.Register(ast.KindBinary, visitBinary)
	c.Register(ast.KindNextValue, visitNextValue)
	c.Register(ast.KindInsert, d.visitInsert)
	c.Register(ast.KindUpdate, d.visitMutation)
	c.Register(ast.KindDelete, d.visitMutation)
	if d.gen == Legacy {
		c.Register(ast.KindAlias, visitLegacyAlias)
	}
	d.registerDDL(c)
	registerTypes(c.Types)
	return c
}

// selectPreColumns puts the row limits right after SELECT. FIRST and SKIP
// need parentheses around anything but a plain integer, so they always get them.
func selectPreColumns(c *compiler.Compiler, s *ast.Select, o compiler.Opts) (string, error) {
	var b strings.Builder
	if s.Limit != nil {
		l, err := c.Process(s.Limit, o)
		if err != nil {
			return "", err
		}
		b.WriteString("FIRST (" + l + ") ")
	}
	if s.Offset != nil {
		off, err := c.Process(s.Offset, o)
		if err != nil {
			return "", err
		}
		b.WriteString("SKIP (" + off + ") ")
	}
	return b.String(), nil
}

// noLimitClause suppresses the trailing LIMIT/OFFSET; see selectPreColumns.
func noLimitClause(*compiler.Compiler, *ast.Select, compiler.Opts) (string, error) {
	return "", nil
}

func returningClause(c *compiler.Compiler, cols []ast.Node, o compiler.Opts) (string, error) {
	list, err := c.List(cols, o)
	if err != nil {
		return "", err
	}
	return "RETURNING " + list, nil
}

func (d *Dialect) visitInsert(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	if len(n.(*ast.Insert).Returning) > 0 && !d.caps.InsertReturning {
		return "", compiler.Unsupported("RETURNING", "%s does not support INSERT ... RETURNING", d.info)
	}
	return c.Generic(n, o)
}

// visitMutation renders UPDATE and DELETE, whose RETURNING came later than
// the INSERT one.
func (d *Dialect) visitMutation(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	var returning []ast.Node
	switch stmt := n.(type) {
	case *ast.Update:
		returning = stmt.Returning
	case *ast.Delete:
		returning = stmt.Returning
	}
	if len(returning) > 0 && !d.caps.MutationReturning {
		return "", compiler.Unsupported("RETURNING", "%s does not support %s ... RETURNING", d.info, strings.ToUpper(n.Kind().String()))
	}
	return c.Generic(n, o)
}

func visitEmptySet(*compiler.Compiler, ast.Node, compiler.Opts) (string, error) {
	return "SELECT 1 FROM rdb$database WHERE 0=1", nil
}

func visitBinary(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	b := n.(*ast.Binary)
	if b.Op != ast.OpMod {
		return c.Generic(n, o)
	}
	l, err := c.Process(b.Left, o)
	if err != nil {
		return "", err
	}
	r, err := c.Process(b.Right, o)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mod(%s, %s)", l, r), nil
}

func visitFunc(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	f := n.(*ast.Func)
	switch strings.ToLower(f.Name) {
	case ast.FuncNow:
		return "CURRENT_TIMESTAMP", nil
	case ast.FuncSubstring:
		return visitSubstring(c, f, o)
	case ast.FuncLength, ast.FuncCharLength:
		return functionArgspec(c, "char_length", f.Args, o)
	}
	return functionArgspec(c, f.Name, f.Args, o)
}

// functionArgspec renders a call, omitting the parentheses of calls
// without arguments.
func functionArgspec(c *compiler.Compiler, name string, args []ast.Node, o compiler.Opts) (string, error) {
	if len(args) == 0 {
		return name, nil
	}
	list, err := c.List(args, o)
	if err != nil {
		return "", err
	}
	return name + "(" + list + ")", nil
}

func visitSubstring(c *compiler.Compiler, f *ast.Func, o compiler.Opts) (string, error) {
	if len(f.Args) != 2 && len(f.Args) != 3 {
		return "", fmt.Errorf("substring takes 2 or 3 arguments, got %d", len(f.Args))
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		s, err := c.Process(a, o)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	if len(parts) == 3 {
		return fmt.Sprintf("SUBSTRING(%s FROM %s FOR %s)", parts[0], parts[1], parts[2]), nil
	}
	return fmt.Sprintf("SUBSTRING(%s FROM %s)", parts[0], parts[1]), nil
}

func visitNextValue(c *compiler.Compiler, n ast.Node, _ compiler.Opts) (string, error) {
	return fmt.Sprintf("gen_id(%s, 1)", c.FormatSequence(n.(*ast.NextValue).Sequence)), nil
}

// visitLegacyAlias renders FROM aliases without AS, which dialect 1 rejects.
func visitLegacyAlias(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	a := n.(*ast.Alias)
	elem, err := c.Process(a.Element, o)
	if err != nil {
		return "", err
	}
	if a.Element.Kind() == ast.KindSelect {
		elem = "(" + elem + ")"
	}
	if !o.AsFrom {
		return elem, nil
	}
	return elem + " " + c.Preparer.Format(a.Name, false), nil
}
