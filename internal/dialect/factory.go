package dialect

import "strings"

// drivers are the database/sql driver names speaking to Firebird.
var drivers = map[string]bool{
	"firebirdsql": true,
	"firebird":    true,
}

// SupportsDriver reports whether a database/sql driver name is served by
// this dialect.
func SupportsDriver(driver string) bool {
	return drivers[strings.ToLower(driver)]
}

// Ensure interface implementation
var _ Catalog = (*Dialect)(nil)
