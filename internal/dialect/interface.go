package dialect

import "fb-dialect/internal/ast"

// Catalog abstracts the system catalog access used by reflection.
type Catalog interface {
	// Existence checks
	HasTableQuery() string
	HasSequenceQuery() string

	// Listing
	TableNamesQuery() string
	TempTableNamesQuery() string
	ViewNamesQuery() string
	SequenceNamesQuery() string

	// Per relation
	ViewDefinitionQuery() string
	PrimaryKeyQuery() string
	ColumnsQuery() string
	ColumnSequenceQuery() string
	ForeignKeysQuery() string
	IndexesQuery() string
	TableCommentQuery() string

	// Helpers
	Normalize(name string) string
	Denormalize(name string) string
	Identifier(raw string) Identifier
	CatalogName(id Identifier) string
	MaxIdentifierLength() int
	MapType(ct CatalogType) (ast.Type, bool)
	Logger() Logger
}
