package dialect

import (
	"regexp"
	"strings"

	"fb-dialect/internal/compiler"
)

var legalCharacters = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// Identifier is a normalized name together with its quoting requirement.
// Quote is set when the catalog form is not all upper case, meaning the
// name was created quoted and is case sensitive.
type Identifier struct {
	Name  string
	Quote bool
}

// Preparer implements the Firebird identifier policy. Firebird folds unquoted
// identifiers to upper case, so the catalog form of a case-insensitive name
// is upper case while its canonical form is lower case.
type Preparer struct{}

var _ compiler.Preparer = Preparer{}

// Normalize converts a catalog name to its canonical form.
func (Preparer) Normalize(raw string) string {
	name := trimName(raw)
	if name == "" {
		return name
	}
	if isUpper(name) && !NeedsQuotes(strings.ToLower(name)) {
		return strings.ToLower(name)
	}
	return name
}

// Denormalize converts a canonical name to its catalog form.
func (Preparer) Denormalize(name string) string {
	if name == "" {
		return name
	}
	if lc := strings.ToLower(name); lc == name && !NeedsQuotes(lc) {
		return strings.ToUpper(name)
	}
	return name
}

// Identifier normalizes a catalog name and records whether it needs quoting
// to keep its case.
func (p Preparer) Identifier(raw string) Identifier {
	name := trimName(raw)
	return Identifier{Name: p.Normalize(name), Quote: !isUpper(name)}
}

// Canonical returns the Identifier of a canonical name, such as one given on a
// command line. A lower case name that is unsafe unquoted keeps its quotes.
func Canonical(name string) Identifier {
	return Identifier{Name: name, Quote: !isUpper(Preparer{}.Denormalize(name))}
}

func (id Identifier) String() string { return id.Name }

// Catalog returns the catalog form of id.
func (p Preparer) Catalog(id Identifier) string {
	if id.Quote {
		return id.Name
	}
	return p.Denormalize(id.Name)
}

// Quote wraps name in double quotes, doubling embedded ones.
func (Preparer) Quote(name string) string {
	return compiler.QuoteIdentifier(name)
}

// Format implements compiler.Preparer for canonical names.
func (Preparer) Format(name string, force bool) string {
	if force || NeedsQuotes(name) {
		return compiler.QuoteIdentifier(name)
	}
	return name
}

// RequiresQuoting reports whether a catalog-form name must be quoted when
// emitted: it contains lower case letters, is reserved, starts with an
// illegal character or contains one.
func RequiresQuoting(name string) bool {
	name = trimName(name)
	if name == "" {
		return true
	}
	return !isUpper(name) || unsafeName(name)
}

// NeedsQuotes reports whether a canonical-form name must be quoted. Canonical
// names are lower case; upper case letters mean the name is case sensitive.
func NeedsQuotes(name string) bool {
	if name == "" {
		return true
	}
	return strings.ToLower(name) != name || unsafeName(name)
}

func unsafeName(name string) bool {
	if IsReserved(name) {
		return true
	}
	if illegalInitial(name[0]) {
		return true
	}
	return !legalCharacters.MatchString(name)
}

// illegalInitial reports the characters an unquoted identifier cannot start
// with. Firebird adds the underscore to the usual digits and dollar sign.
func illegalInitial(c byte) bool {
	return (c >= '0' && c <= '9') || c == '$' || c == '_'
}
