package compiler

import (
	"fmt"
	"strings"

	"fb-dialect/internal/ast"
)

func visitCreateTable(c *Compiler, n ast.Node, _ Opts) (string, error) {
	t := n.(*ast.CreateTable).Table
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("compiler: table %s has no columns", t.Name)
	}
	lines := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+1)
	for _, col := range t.Columns {
		spec, err := c.Process(col, Opts{Table: t})
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}
		lines = append(lines, spec)
	}
	quoted := t.Quoted()
	if pk := t.PrimaryKey(); len(pk) > 0 {
		lines = append(lines, "PRIMARY KEY ("+c.formatColumns(pk, quoted)+")")
	}
	for _, fk := range t.ForeignKeys {
		var s string
		if fk.Name != "" {
			s = "CONSTRAINT " + c.Preparer.Format(fk.Name, false) + " "
		}
		s += "FOREIGN KEY(" + c.formatColumns(fk.Columns, quoted) + ") REFERENCES " +
			c.Preparer.Format(fk.RefTable, fk.RefQuote) + " (" + c.formatColumns(fk.RefColumns, fk.RefQuoted) + ")"
		lines = append(lines, s)
	}
	out := "CREATE TABLE " + c.Preparer.Format(t.Name, t.Quote) + " (\n\t" + strings.Join(lines, ",\n\t") + "\n)"
	if c.Hooks.PostCreateTable != nil {
		post, err := c.Hooks.PostCreateTable(c, t)
		if err != nil {
			return "", err
		}
		out += post
	}
	return out, nil
}

func visitColumnDef(c *Compiler, n ast.Node, _ Opts) (string, error) {
	col := n.(*ast.ColumnDef)
	typ, err := c.Types.Process(col.Type)
	if err != nil {
		return "", err
	}
	spec := c.Preparer.Format(col.Name, col.Quote) + " " + typ
	if col.Computed != nil {
		comp, err := c.Process(col.Computed, Opts{})
		if err != nil {
			return "", err
		}
		spec += " " + comp
	}
	if col.Default != "" {
		spec += " DEFAULT " + col.Default
	}
	if !col.Nullable || col.PrimaryKey {
		spec += " NOT NULL"
	}
	return spec, nil
}

func visitComputed(c *Compiler, n ast.Node, _ Opts) (string, error) {
	comp := n.(*ast.Computed)
	expr, err := c.Process(comp.Expr, Opts{OmitTable: true, LiteralBinds: true})
	if err != nil {
		return "", err
	}
	s := "GENERATED ALWAYS AS (" + expr + ")"
	if comp.Persisted != nil {
		if *comp.Persisted {
			s += " STORED"
		} else {
			s += " VIRTUAL"
		}
	}
	return s, nil
}

func visitCreateSequence(c *Compiler, n ast.Node, _ Opts) (string, error) {
	seq := n.(*ast.CreateSequence).Sequence
	s := "CREATE SEQUENCE " + c.FormatSequence(seq)
	if seq.Increment != nil {
		s += fmt.Sprintf(" INCREMENT BY %d", *seq.Increment)
	}
	if seq.Start != nil {
		s += fmt.Sprintf(" START WITH %d", *seq.Start)
	}
	return s, nil
}

func visitDropSequence(c *Compiler, n ast.Node, _ Opts) (string, error) {
	return "DROP SEQUENCE " + c.FormatSequence(n.(*ast.DropSequence).Sequence), nil
}
