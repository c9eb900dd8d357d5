package schema

import "fb-dialect/internal/ast"

// Table is a reflected relation. Names are in canonical form; Quote is set
// when the catalog name is case sensitive.
type Table struct {
	Name         string        `json:"name" yaml:"name"`
	Quote        bool          `json:"quote,omitempty" yaml:"quote,omitempty"`
	Comment      string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Columns      []*Column     `json:"columns" yaml:"columns"`
	PrimaryKey   *PrimaryKey   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys  []*ForeignKey `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
	Indexes      []*Index      `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Dependencies []string      `json:"-" yaml:"-"` // referenced tables, for ordering
}

// Column is a reflected column.
type Column struct {
	Name     string   `json:"name" yaml:"name"`
	Type     ast.Type `json:"type" yaml:"type"`
	Nullable bool     `json:"nullable" yaml:"nullable"`
	// Default is the default expression text, nil when there is none.
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
	// Autoincrement is always "auto": the catalog does not say.
	Autoincrement string `json:"autoincrement" yaml:"autoincrement"`
	// Quote is set when the catalog name is case sensitive.
	Quote    bool      `json:"quote,omitempty" yaml:"quote,omitempty"`
	Computed *Computed `json:"computed,omitempty" yaml:"computed,omitempty"`
	Sequence *Sequence `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// Computed is the source of a computed column.
type Computed struct {
	SQLText string `json:"sqltext" yaml:"sqltext"`
}

// Sequence is a generator feeding a column.
type Sequence struct {
	Name  string `json:"name" yaml:"name"`
	Quote bool   `json:"quote,omitempty" yaml:"quote,omitempty"`
}

// PrimaryKey is a primary key constraint. Name is never reflected.
type PrimaryKey struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" yaml:"columns"`
}

type ForeignKey struct {
	Name       string   `json:"name" yaml:"name"`
	Columns    []string `json:"columns" yaml:"columns"`
	RefTable   string   `json:"ref_table" yaml:"ref_table"`
	RefQuote   bool     `json:"ref_quote,omitempty" yaml:"ref_quote,omitempty"`
	RefColumns []string `json:"ref_columns" yaml:"ref_columns"`
	// RefQuoted lists the RefColumns with case sensitive names.
	RefQuoted []string `json:"ref_quoted,omitempty" yaml:"ref_quoted,omitempty"`
}

type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique" yaml:"unique"`
}

// Definition converts a reflected table into a DDL construct.
func (t *Table) Definition() *ast.TableDef {
	pk := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, c := range t.PrimaryKey.Columns {
			pk[c] = true
		}
	}
	def := ast.NewTable(t.Name)
	def.Quote = t.Quote
	def.Comment = t.Comment
	for _, c := range t.Columns {
		typ := c.Type
		// TEXT(n) is the catalog's fixed length CHAR; unsized TEXT stays a text blob.
		if typ.Kind == ast.TypeText && typ.Length > 0 {
			typ.Kind = ast.TypeChar
		}
		cd := &ast.ColumnDef{
			Name:       c.Name,
			Quote:      c.Quote,
			Type:       typ,
			Nullable:   c.Nullable,
			PrimaryKey: pk[c.Name],
		}
		if c.Default != nil {
			cd.Default = *c.Default
		}
		if c.Computed != nil {
			cd.Computed = &ast.Computed{Expr: &ast.Raw{SQL: c.Computed.SQLText}}
		}
		if c.Sequence != nil {
			cd.Sequence = &ast.Sequence{Name: c.Sequence.Name, Quote: c.Sequence.Quote}
		}
		def.AddColumn(cd)
	}
	for _, fk := range t.ForeignKeys {
		refQuoted := make(map[string]bool, len(fk.RefQuoted))
		for _, name := range fk.RefQuoted {
			refQuoted[name] = true
		}
		def.ForeignKeys = append(def.ForeignKeys, &ast.ForeignKeyDef{
			Name:       fk.Name,
			Columns:    fk.Columns,
			RefTable:   fk.RefTable,
			RefQuote:   fk.RefQuote,
			RefColumns: fk.RefColumns,
			RefQuoted:  refQuoted,
		})
	}
	return def
}
