package dialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Generation is the syntax and behaviour profile of the connected server.
type Generation int

const (
	// Legacy is SQL dialect 1, inherited from InterBase before 6.0.
	Legacy Generation = iota + 1
	// Modern is SQL dialect 3, introduced with InterBase 6.0.
	Modern
)

func (g Generation) String() string {
	switch g {
	case Legacy:
		return "legacy"
	case Modern:
		return "modern"
	}
	return "generation(" + strconv.Itoa(int(g)) + ")"
}

// Server products.
const (
	ProductFirebird  = "firebird"
	ProductInterBase = "interbase"
)

// engineVersionThreshold is the first engine with long identifiers.
const engineVersionThreshold = 4.0

const (
	shortIdentifierLength = 31
	longIdentifierLength  = 252
)

// ErrUnknownServer is returned when a server version string cannot be parsed.
var ErrUnknownServer = errors.New("unrecognized server version")

// ServerInfo is the connection metadata capability negotiation runs on.
type ServerInfo struct {
	// Product is ProductFirebird or ProductInterBase.
	Product string
	// Version is the product version, most significant first.
	Version []int
	// EngineVersion is the engine generation reported by the driver, e.g. 3.0.
	EngineVersion float64
}

// Major returns the major product version.
func (s ServerInfo) Major() int {
	if len(s.Version) == 0 {
		return 0
	}
	return s.Version[0]
}

// AtLeast reports whether the product version is at least the given one.
func (s ServerInfo) AtLeast(v ...int) bool {
	for i, want := range v {
		var have int
		if i < len(s.Version) {
			have = s.Version[i]
		}
		if have != want {
			return have > want
		}
	}
	return true
}

func (s ServerInfo) String() string {
	parts := make([]string, len(s.Version))
	for i, n := range s.Version {
		parts[i] = strconv.Itoa(n)
	}
	return s.Product + " " + strings.Join(parts, ".")
}

var (
	// WI-V6.3.1.538 Firebird 5.0
	implVersionRe = regexp.MustCompile(`^\w+-[VT](\d+)\.(\d+)\.(\d+)\.(\d+)(?: \w+ (\d+)\.(\d+))?`)
	// Firebird 3.0.7, InterBase 6.0
	productVersionRe = regexp.MustCompile(`(?i)^(firebird|interbase)\s+(\d+(?:\.\d+)*)`)
	// 3.0.7, as returned by rdb$get_context('SYSTEM', 'ENGINE_VERSION')
	bareVersionRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)$`)
)

// ParseServerVersion parses a server version string. Implementation strings
// carrying a product suffix describe Firebird; without it they describe the
// InterBase code base they were reported by.
func ParseServerVersion(s string) (ServerInfo, error) {
	s = strings.TrimSpace(s)
	if m := implVersionRe.FindStringSubmatch(s); m != nil {
		if m[5] != "" {
			return firebirdInfo(atoiAll(m[5], m[6], m[4])), nil
		}
		return ServerInfo{Product: ProductInterBase, Version: atoiAll(m[1], m[2], m[3])}, nil
	}
	if m := productVersionRe.FindStringSubmatch(s); m != nil {
		v := atoiAll(strings.Split(m[2], ".")...)
		if strings.EqualFold(m[1], ProductInterBase) {
			return ServerInfo{Product: ProductInterBase, Version: v}, nil
		}
		return firebirdInfo(v), nil
	}
	if m := bareVersionRe.FindStringSubmatch(s); m != nil {
		return firebirdInfo(atoiAll(strings.Split(m[1], ".")...)), nil
	}
	return ServerInfo{}, fmt.Errorf("%w: %q", ErrUnknownServer, s)
}

func firebirdInfo(v []int) ServerInfo {
	info := ServerInfo{Product: ProductFirebird, Version: v}
	if len(v) > 0 {
		info.EngineVersion = float64(v[0])
		if len(v) > 1 {
			info.EngineVersion += float64(v[1]) / 10
		}
	}
	return info
}

func atoiAll(parts ...string) []int {
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}

// Negotiate selects the generation of a server: modern for Firebird 2 and
// later or InterBase 6 and later, legacy otherwise.
func Negotiate(info ServerInfo) Generation {
	switch strings.ToLower(info.Product) {
	case ProductFirebird:
		if info.Major() >= 2 {
			return Modern
		}
	case ProductInterBase:
		if info.Major() >= 6 {
			return Modern
		}
	}
	return Legacy
}

// Capabilities are the per-connection feature flags.
type Capabilities struct {
	// InsertReturning is INSERT ... RETURNING, available from Firebird 2.0.
	InsertReturning bool
	// MutationReturning is UPDATE and DELETE ... RETURNING, from Firebird 2.1.
	MutationReturning bool
	// ImplicitReturning fetches generated primary keys with RETURNING.
	ImplicitReturning bool
	// MaxIdentifierLength is the longest name the catalog accepts.
	MaxIdentifierLength int
}

func negotiateCapabilities(info ServerInfo, g Generation, implicit bool) Capabilities {
	c := Capabilities{MaxIdentifierLength: longIdentifierLength}
	if info.EngineVersion < engineVersionThreshold {
		c.MaxIdentifierLength = shortIdentifierLength
	}
	if g != Modern {
		return c
	}
	c.InsertReturning = true
	c.MutationReturning = strings.EqualFold(info.Product, ProductFirebird) && info.AtLeast(2, 1)
	c.ImplicitReturning = implicit
	return c
}

// RowQuerier runs a single-row query.
type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const engineVersionQuery = `SELECT rdb$get_context('SYSTEM', 'ENGINE_VERSION') FROM rdb$database`

// ProbeServerInfo asks a connected server for its engine version. It needs
// Firebird 2.1 or later; older servers must be described by the caller.
func ProbeServerInfo(ctx context.Context, q RowQuerier) (ServerInfo, error) {
	var v sql.NullString
	if err := q.QueryRowContext(ctx, engineVersionQuery).Scan(&v); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to query engine version: %w", err)
	}
	if !v.Valid {
		return ServerInfo{}, fmt.Errorf("%w: empty engine version", ErrUnknownServer)
	}
	return ParseServerVersion(v.String)
}
