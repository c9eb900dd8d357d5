package ast

// Autoincrement is the auto-increment intent of a column.
type Autoincrement int

const (
	// AutoincrementAuto lets the table decide: a lone integer primary key
	// without a default becomes the autoincrement column.
	AutoincrementAuto Autoincrement = iota
	AutoincrementTrue
	AutoincrementFalse
)

// Sequence is a named sequence (generator). Start and Increment are
// optional. Quote forces quoting of the name.
type Sequence struct {
	Name      string
	Quote     bool
	Start     *int64
	Increment *int64
}

// Computed is a column whose value is derived from an expression. A nil
// Persisted means no storage mode was requested.
type Computed struct {
	Expr      Node
	Persisted *bool
}

// ColumnDef describes a column in a CREATE TABLE.
type ColumnDef struct {
	Name          string
	Quote         bool
	Type          Type
	Nullable      bool
	PrimaryKey    bool
	Autoincrement Autoincrement
	Default       string
	Computed      *Computed
	Sequence      *Sequence
	// IdentityStart is the START WITH value of an identity column.
	IdentityStart int64
	// Table is set by TableDef.AddColumn and NewTable. A column rendered
	// inside a CREATE TABLE is resolved against that table when Table is nil.
	Table *TableDef
}

// ForeignKeyDef is a FOREIGN KEY constraint of a TableDef. Columns take
// their quoting from the owning table; the referenced names carry their own.
type ForeignKeyDef struct {
	Name       string
	Columns    []string
	RefTable   string
	RefQuote   bool
	RefColumns []string
	// RefQuoted holds the RefColumns whose names are case sensitive.
	RefQuoted map[string]bool
}

// TableDef describes a table to create.
type TableDef struct {
	Name        string
	Quote       bool
	Columns     []*ColumnDef
	ForeignKeys []*ForeignKeyDef
	// OnCommit is the temporary table ON COMMIT behavior, e.g. "preserve_rows".
	OnCommit string
	Comment  string
}

// NewTable returns a TableDef owning the given columns.
func NewTable(name string, cols ...*ColumnDef) *TableDef {
	t := &TableDef{Name: name}
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t
}

// AddColumn appends c to the table.
func (t *TableDef) AddColumn(c *ColumnDef) {
	c.Table = t
	t.Columns = append(t.Columns, c)
}

// Quoted returns the names of the columns that must be quoted.
func (t *TableDef) Quoted() map[string]bool {
	quoted := make(map[string]bool)
	for _, c := range t.Columns {
		if c.Quote {
			quoted[c.Name] = true
		}
	}
	return quoted
}

// PrimaryKey returns the names of the primary key columns in order.
func (t *TableDef) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// AutoincrementColumn returns the column the table designates as
// auto-incrementing, or nil.
func (t *TableDef) AutoincrementColumn() *ColumnDef {
	var pk []*ColumnDef
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	for _, c := range pk {
		if c.Autoincrement == AutoincrementTrue {
			return c
		}
	}
	if len(pk) != 1 {
		return nil
	}
	c := pk[0]
	if c.Autoincrement != AutoincrementAuto || !c.Type.IsInteger() {
		return nil
	}
	if c.Default != "" || c.Sequence != nil || c.Computed != nil {
		return nil
	}
	return c
}

// CreateTable renders a CREATE TABLE statement.
type CreateTable struct {
	Table *TableDef
}

// CreateSequence renders a CREATE SEQUENCE statement.
type CreateSequence struct {
	Sequence *Sequence
}

// DropSequence renders a DROP SEQUENCE statement.
type DropSequence struct {
	Sequence *Sequence
}

func (*CreateTable) Kind() Kind    { return KindCreateTable }
func (*ColumnDef) Kind() Kind      { return KindColumnDef }
func (*Computed) Kind() Kind       { return KindComputed }
func (*CreateSequence) Kind() Kind { return KindCreateSequence }
func (*DropSequence) Kind() Kind   { return KindDropSequence }
