package compiler

import (
	"regexp"
	"strings"
)

var legalCharacters = regexp.MustCompile(`^[A-Z0-9_$]+$`)

var ansiReserved = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "table": {}, "order": {},
	"group": {}, "user": {}, "insert": {}, "update": {}, "delete": {},
}

// DefaultPreparer quotes identifiers the ANSI way. Names are expected in
// their case-insensitive lower case form; anything else is quoted.
type DefaultPreparer struct{}

// Format implements Preparer.
func (DefaultPreparer) Format(name string, force bool) string {
	if force || requiresQuotes(name) {
		return QuoteIdentifier(name)
	}
	return name
}

func requiresQuotes(name string) bool {
	if name == "" {
		return true
	}
	lc := strings.ToLower(name)
	if _, ok := ansiReserved[lc]; ok {
		return true
	}
	if c := name[0]; (c >= '0' && c <= '9') || c == '$' {
		return true
	}
	return !legalCharacters.MatchString(strings.ToUpper(name)) || lc != name
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
