package dialect

import (
	"fmt"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/compiler"
)

func (d *Dialect) registerDDL(c *compiler.Compiler) {
	c.Register(ast.KindColumnDef, visitColumnDef)
	c.Register(ast.KindComputed, visitComputed)
	c.Register(ast.KindCreateSequence, d.visitCreateSequence)
	c.Register(ast.KindDropSequence, d.visitDropSequence)
}

func visitColumnDef(c *compiler.Compiler, n ast.Node, o compiler.Opts) (string, error) {
	col := n.(*ast.ColumnDef)
	typ, err := c.Types.Process(col.Type)
	if err != nil {
		return "", err
	}
	spec := c.Preparer.Format(col.Name, col.Quote) + " " + typ
	if col.Computed != nil {
		comp, err := c.Process(col.Computed, compiler.Opts{})
		if err != nil {
			return "", err
		}
		spec += " " + comp
	}
	if isIdentity(col, o.Table) {
		spec += fmt.Sprintf(" GENERATED BY DEFAULT AS IDENTITY (START WITH %d)", col.IdentityStart)
	} else if col.Default != "" {
		spec += " DEFAULT " + col.Default
	}
	if !col.Nullable || col.PrimaryKey || col.Sequence != nil || col.Autoincrement == ast.AutoincrementTrue {
		spec += " NOT NULL"
	}
	return spec, nil
}

// isIdentity reports whether col renders as an identity column. table is
// used when the column does not know its owner.
func isIdentity(col *ast.ColumnDef, table *ast.TableDef) bool {
	if col.Autoincrement == ast.AutoincrementTrue {
		return true
	}
	if col.Table != nil {
		table = col.Table
	}
	return table != nil && table.AutoincrementColumn() == col
}

func visitComputed(c *compiler.Compiler, n ast.Node, _ compiler.Opts) (string, error) {
	comp := n.(*ast.Computed)
	if comp.Persisted != nil {
		return "", compiler.Unsupported("computed column",
			"Firebird computed columns do not support a persistence method; leave persisted unset")
	}
	expr, err := c.Process(comp.Expr, compiler.Opts{OmitTable: true, LiteralBinds: true})
	if err != nil {
		return "", err
	}
	return "GENERATED ALWAYS AS (" + expr + ")", nil
}

// sequenceKeyword is SEQUENCE on modern servers and GENERATOR on legacy ones.
func (d *Dialect) sequenceKeyword() string {
	if d.gen == Modern {
		return "SEQUENCE"
	}
	return "GENERATOR"
}

func (d *Dialect) visitCreateSequence(c *compiler.Compiler, n ast.Node, _ compiler.Opts) (string, error) {
	seq := n.(*ast.CreateSequence).Sequence
	if seq.Start != nil {
		return "", compiler.Unsupported("sequence", "Firebird SEQUENCE doesn't support START WITH")
	}
	if seq.Increment != nil {
		return "", compiler.Unsupported("sequence", "Firebird SEQUENCE doesn't support INCREMENT BY")
	}
	return "CREATE " + d.sequenceKeyword() + " " + c.FormatSequence(seq), nil
}

func (d *Dialect) visitDropSequence(c *compiler.Compiler, n ast.Node, _ compiler.Opts) (string, error) {
	return "DROP " + d.sequenceKeyword() + " " + c.FormatSequence(n.(*ast.DropSequence).Sequence), nil
}

func postCreateTable(_ *compiler.Compiler, t *ast.TableDef) (string, error) {
	if t.OnCommit == "" {
		return "", nil
	}
	return "\n ON COMMIT " + ParseOnCommit(t.OnCommit), nil
}
