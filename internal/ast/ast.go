// Package ast holds the abstract statement, DDL and type model that a host
// query builder hands to a dialect for rendering.
package ast

import "fmt"

// Kind identifies a construct for the rendering dispatcher.
type Kind int

const (
	KindColumn Kind = iota + 1
	KindTable
	KindLiteral
	KindBind
	KindBinary
	KindFunc
	KindNextValue
	KindAlias
	KindRaw
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindEmptySet
	KindCreateTable
	KindColumnDef
	KindComputed
	KindCreateSequence
	KindDropSequence
)

var kindNames = map[Kind]string{
	KindColumn:         "column",
	KindTable:          "table",
	KindLiteral:        "literal",
	KindBind:           "bind",
	KindBinary:         "binary",
	KindFunc:           "func",
	KindNextValue:      "next_value",
	KindAlias:          "alias",
	KindRaw:            "raw",
	KindSelect:         "select",
	KindInsert:         "insert",
	KindUpdate:         "update",
	KindDelete:         "delete",
	KindEmptySet:       "empty_set",
	KindCreateTable:    "create_table",
	KindColumnDef:      "column_def",
	KindComputed:       "computed",
	KindCreateSequence: "create_sequence",
	KindDropSequence:   "drop_sequence",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is any construct the compiler knows how to render.
type Node interface {
	Kind() Kind
}

// Operator is a binary operator.
type Operator string

const (
	OpEq     Operator = "="
	OpNe     Operator = "!="
	OpLt     Operator = "<"
	OpLe     Operator = "<="
	OpGt     Operator = ">"
	OpGe     Operator = ">="
	OpAdd    Operator = "+"
	OpSub    Operator = "-"
	OpMul    Operator = "*"
	OpDiv    Operator = "/"
	OpMod    Operator = "%"
	OpConcat Operator = "||"
	OpAnd    Operator = "AND"
	OpOr     Operator = "OR"
	OpLike   Operator = "LIKE"
)

// Well known function names. Function names are matched case-insensitively.
const (
	FuncNow        = "now"
	FuncSubstring  = "substring"
	FuncLength     = "length"
	FuncCharLength = "char_length"
	FuncCount      = "count"
	FuncMax        = "max"
	FuncMin        = "min"
)

// Column references a column, optionally qualified by its table. Quote
// forces quoting of the column name.
type Column struct {
	Table string
	Name  string
	Quote bool
}

// Table references a table by name. Quote forces quoting of the name.
type Table struct {
	Name  string
	Quote bool
}

// Literal is a value rendered inline.
type Literal struct {
	Value any
}

// Bind is a positional parameter. Value is used when literal binds are requested.
type Bind struct {
	Value any
}

// Binary is "Left Op Right".
type Binary struct {
	Op    Operator
	Left  Node
	Right Node
}

// Func is a SQL function call.
type Func struct {
	Name string
	Args []Node
}

// NextValue fetches the next value of a sequence.
type NextValue struct {
	Sequence *Sequence
}

// Alias names a selectable or an expression.
type Alias struct {
	Element Node
	Name    string
}

// Raw is SQL text passed through untouched.
type Raw struct {
	SQL string
}

// Order is one ORDER BY term.
type Order struct {
	Expr Node
	Desc bool
}

// Select is a SELECT statement. Limit and Offset are optional row limiting
// expressions.
type Select struct {
	Distinct bool
	Columns  []Node
	From     []Node
	Where    Node
	GroupBy  []Node
	OrderBy  []Order
	Limit    Node
	Offset   Node
}

// Assignment is one SET term of an UPDATE.
type Assignment struct {
	Column string
	Value  Node
}

// Insert is an INSERT statement.
type Insert struct {
	Table   *Table
	Columns []string
	// Quoted holds the Columns whose names are case sensitive.
	Quoted    map[string]bool
	Values    []Node
	Returning []Node
}

// Update is an UPDATE statement.
type Update struct {
	Table     *Table
	Set       []Assignment
	Where     Node
	Returning []Node
}

// Delete is a DELETE statement.
type Delete struct {
	Table     *Table
	Where     Node
	Returning []Node
}

// EmptySet is a selectable that yields no rows.
type EmptySet struct{}

func (*Column) Kind() Kind    { return KindColumn }
func (*Table) Kind() Kind     { return KindTable }
func (*Literal) Kind() Kind   { return KindLiteral }
func (*Bind) Kind() Kind      { return KindBind }
func (*Binary) Kind() Kind    { return KindBinary }
func (*Func) Kind() Kind      { return KindFunc }
func (*NextValue) Kind() Kind { return KindNextValue }
func (*Alias) Kind() Kind     { return KindAlias }
func (*Raw) Kind() Kind       { return KindRaw }
func (*Select) Kind() Kind    { return KindSelect }
func (*Insert) Kind() Kind    { return KindInsert }
func (*Update) Kind() Kind    { return KindUpdate }
func (*Delete) Kind() Kind    { return KindDelete }
func (*EmptySet) Kind() Kind  { return KindEmptySet }

// C is shorthand for an unqualified column reference.
func C(name string) *Column { return &Column{Name: name} }

// T is shorthand for a table reference.
func T(name string) *Table { return &Table{Name: name} }

// Lit is shorthand for a literal.
func Lit(v any) *Literal { return &Literal{Value: v} }
