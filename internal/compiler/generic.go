package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fb-dialect/internal/ast"
)

func visitColumn(c *Compiler, n ast.Node, o Opts) (string, error) {
	col := n.(*ast.Column)
	name := c.Preparer.Format(col.Name, col.Quote)
	if col.Table == "" || o.OmitTable {
		return name, nil
	}
	return c.Preparer.Format(col.Table, false) + "." + name, nil
}

func visitTable(c *Compiler, n ast.Node, _ Opts) (string, error) {
	return c.FormatTable(n.(*ast.Table)), nil
}

func visitLiteral(_ *Compiler, n ast.Node, _ Opts) (string, error) {
	return RenderLiteral(n.(*ast.Literal).Value)
}

func visitBind(_ *Compiler, n ast.Node, o Opts) (string, error) {
	if o.LiteralBinds {
		return RenderLiteral(n.(*ast.Bind).Value)
	}
	return "?", nil
}

// RenderLiteral renders v as an inline SQL literal.
func RenderLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case time.Time:
		return "'" + x.Format("2006-01-02 15:04:05") + "'", nil
	}
	return "", Unsupported("literal", "cannot render value of type %T", v)
}

// operand renders n, parenthesizing nested statements.
func (c *Compiler) operand(n ast.Node, o Opts) (string, error) {
	s, err := c.Process(n, o)
	if err != nil {
		return "", err
	}
	if n.Kind() == ast.KindSelect || n.Kind() == ast.KindBinary {
		return "(" + s + ")", nil
	}
	return s, nil
}

func visitBinary(c *Compiler, n ast.Node, o Opts) (string, error) {
	b := n.(*ast.Binary)
	l, err := c.operand(b.Left, o)
	if err != nil {
		return "", err
	}
	r, err := c.operand(b.Right, o)
	if err != nil {
		return "", err
	}
	return l + " " + string(b.Op) + " " + r, nil
}

func visitFunc(c *Compiler, n ast.Node, o Opts) (string, error) {
	f := n.(*ast.Func)
	args, err := c.List(f.Args, o)
	if err != nil {
		return "", err
	}
	return f.Name + "(" + args + ")", nil
}

func visitNextValue(_ *Compiler, _ ast.Node, _ Opts) (string, error) {
	return "", Unsupported("sequence", "dialect does not support sequences")
}

func visitAlias(c *Compiler, n ast.Node, o Opts) (string, error) {
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
	return elem + " AS " + c.Preparer.Format(a.Name, false), nil
}

func visitRaw(_ *Compiler, n ast.Node, _ Opts) (string, error) {
	return n.(*ast.Raw).SQL, nil
}

func visitSelect(c *Compiler, n ast.Node, o Opts) (string, error) {
	s := n.(*ast.Select)
	inner := Opts{OmitTable: o.OmitTable, LiteralBinds: o.LiteralBinds}
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	if c.Hooks.PreColumns != nil {
		pre, err := c.Hooks.PreColumns(c, s, inner)
		if err != nil {
			return "", err
		}
		b.WriteString(pre)
	}
	if len(s.Columns) == 0 {
		b.WriteString("*")
	} else {
		cols, err := c.List(s.Columns, inner)
		if err != nil {
			return "", err
		}
		b.WriteString(cols)
	}
	if len(s.From) > 0 {
		from := inner
		from.AsFrom = true
		f, err := c.List(s.From, from)
		if err != nil {
			return "", err
		}
		b.WriteString(" FROM " + f)
	} else {
		b.WriteString(c.Hooks.DefaultFrom)
	}
	if s.Where != nil {
		w, err := c.Process(s.Where, inner)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE " + w)
	}
	if len(s.GroupBy) > 0 {
		g, err := c.List(s.GroupBy, inner)
		if err != nil {
			return "", err
		}
		b.WriteString(" GROUP BY " + g)
	}
	if len(s.OrderBy) > 0 {
		terms := make([]string, 0, len(s.OrderBy))
		for _, ob := range s.OrderBy {
			t, err := c.Process(ob.Expr, inner)
			if err != nil {
				return "", err
			}
			if ob.Desc {
				t += " DESC"
			}
			terms = append(terms, t)
		}
		b.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}
	limit := genericLimit
	if c.Hooks.LimitClause != nil {
		limit = c.Hooks.LimitClause
	}
	l, err := limit(c, s, inner)
	if err != nil {
		return "", err
	}
	b.WriteString(l)
	return b.String(), nil
}

func genericLimit(c *Compiler, s *ast.Select, o Opts) (string, error) {
	var out string
	if s.Limit != nil {
		l, err := c.Process(s.Limit, o)
		if err != nil {
			return "", err
		}
		out += " LIMIT " + l
	}
	if s.Offset != nil {
		off, err := c.Process(s.Offset, o)
		if err != nil {
			return "", err
		}
		out += " OFFSET " + off
	}
	return out, nil
}

func (c *Compiler) returning(cols []ast.Node, o Opts) (string, error) {
	if len(cols) == 0 {
		return "", nil
	}
	if c.Hooks.Returning == nil {
		return "", Unsupported("RETURNING", "dialect does not render RETURNING")
	}
	r, err := c.Hooks.Returning(c, cols, o)
	if err != nil {
		return "", err
	}
	return " " + r, nil
}

// formatColumns renders a column list, forcing quotes on the names in quoted.
func (c *Compiler) formatColumns(names []string, quoted map[string]bool) string {
	cols := make([]string, len(names))
	for i, name := range names {
		cols[i] = c.Preparer.Format(name, quoted[name])
	}
	return strings.Join(cols, ", ")
}

func visitInsert(c *Compiler, n ast.Node, o Opts) (string, error) {
	ins := n.(*ast.Insert)
	var b strings.Builder
	b.WriteString("INSERT INTO " + c.FormatTable(ins.Table))
	switch {
	case len(ins.Columns) == 0:
		b.WriteString(" DEFAULT VALUES")
	case len(ins.Values) == 0:
		binds := strings.TrimSuffix(strings.Repeat("?, ", len(ins.Columns)), ", ")
		b.WriteString(" (" + c.formatColumns(ins.Columns, ins.Quoted) + ") VALUES (" + binds + ")")
	default:
		if len(ins.Values) != len(ins.Columns) {
			return "", fmt.Errorf("compiler: insert into %s has %d columns and %d values", ins.Table.Name, len(ins.Columns), len(ins.Values))
		}
		vals, err := c.List(ins.Values, o)
		if err != nil {
			return "", err
		}
		b.WriteString(" (" + c.formatColumns(ins.Columns, ins.Quoted) + ") VALUES (" + vals + ")")
	}
	r, err := c.returning(ins.Returning, o)
	if err != nil {
		return "", err
	}
	return b.String() + r, nil
}

func visitUpdate(c *Compiler, n ast.Node, o Opts) (string, error) {
	up := n.(*ast.Update)
	if len(up.Set) == 0 {
		return "", fmt.Errorf("compiler: update of %s has no assignments", up.Table.Name)
	}
	sets := make([]string, 0, len(up.Set))
	for _, a := range up.Set {
		v, err := c.Process(a.Value, o)
		if err != nil {
			return "", err
		}
		sets = append(sets, c.Preparer.Format(a.Column, false)+"="+v)
	}
	s := "UPDATE " + c.FormatTable(up.Table) + " SET " + strings.Join(sets, ", ")
	if up.Where != nil {
		w, err := c.Process(up.Where, o)
		if err != nil {
			return "", err
		}
		s += " WHERE " + w
	}
	r, err := c.returning(up.Returning, o)
	if err != nil {
		return "", err
	}
	return s + r, nil
}

func visitDelete(c *Compiler, n ast.Node, o Opts) (string, error) {
	del := n.(*ast.Delete)
	s := "DELETE FROM " + c.FormatTable(del.Table)
	if del.Where != nil {
		w, err := c.Process(del.Where, o)
		if err != nil {
			return "", err
		}
		s += " WHERE " + w
	}
	r, err := c.returning(del.Returning, o)
	if err != nil {
		return "", err
	}
	return s + r, nil
}

func visitEmptySet(_ *Compiler, _ ast.Node, _ Opts) (string, error) {
	return "SELECT 1 WHERE 1!=1", nil
}
