package dialect

import (
	"strings"
)

// trimName strips the blank padding of CHAR catalog columns.
func trimName(s string) string {
	return strings.TrimRight(s, " ")
}

// isUpper reports whether s has no lower case letters.
func isUpper(s string) bool {
	return strings.ToUpper(s) == s
}

// ParseOnCommit converts a table ON COMMIT option such as "preserve_rows"
// into its SQL form "PRESERVE ROWS".
func ParseOnCommit(opt string) string {
	return strings.ToUpper(strings.ReplaceAll(opt, "_", " "))
}
