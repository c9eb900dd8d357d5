// Package schema reflects Firebird catalog metadata through the queries of
// a dialect.Catalog.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"fb-dialect/internal/dialect"
)

// ErrReflectionInconsistency is returned when catalog content does not have
// the shape reflection relies on.
var ErrReflectionInconsistency = errors.New("inconsistent catalog metadata")

// Querier runs catalog queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Inspector reflects catalog metadata. Relations are named by a
// dialect.Identifier so a case sensitive lower case name keeps its quotes;
// their catalog form is what gets bound. Other names returned are
// normalized. Nothing is cached.
type Inspector struct {
	q        Querier
	d        dialect.Catalog
	locator  SequenceLocator
	logger   dialect.Logger
	progress func(table string)
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithSequenceLocator replaces the trigger based sequence lookup.
func WithSequenceLocator(l SequenceLocator) Option {
	return func(in *Inspector) { in.locator = l }
}

// WithLogger overrides the dialect's logger.
func WithLogger(l dialect.Logger) Option {
	return func(in *Inspector) { in.logger = l }
}

// WithProgress registers a callback run after each table Analyze reflects.
// It may be called from several goroutines.
func WithProgress(fn func(table string)) Option {
	return func(in *Inspector) { in.progress = fn }
}

func NewInspector(q Querier, d dialect.Catalog, opts ...Option) *Inspector {
	in := &Inspector{q: q, d: d, logger: d.Logger()}
	for _, opt := range opts {
		opt(in)
	}
	if in.locator == nil {
		in.locator = NewTriggerSequenceLocator(q, d)
	}
	return in
}

// HasTable reports whether a table or view exists. Names longer than the
// server accepts cannot exist and are not looked up.
func (in *Inspector) HasTable(ctx context.Context, name string) (bool, error) {
	if utf8.RuneCountInString(name) > in.d.MaxIdentifierLength() {
		return false, nil
	}
	ok, err := in.exists(ctx, in.d.HasTableQuery(), in.d.Denormalize(name))
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return ok, nil
}

func (in *Inspector) HasSequence(ctx context.Context, name string) (bool, error) {
	ok, err := in.exists(ctx, in.d.HasSequenceQuery(), in.d.Denormalize(name))
	if err != nil {
		return false, fmt.Errorf("failed to check sequence %s: %w", name, err)
	}
	return ok, nil
}

func (in *Inspector) exists(ctx context.Context, query string, args ...any) (bool, error) {
	rows, err := in.q.QueryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}

// TableNames lists user tables, excluding views and temporary tables.
func (in *Inspector) TableNames(ctx context.Context) ([]dialect.Identifier, error) {
	names, err := in.identifiers(ctx, in.d.TableNamesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return names, nil
}

// TempTableNames lists global temporary tables.
func (in *Inspector) TempTableNames(ctx context.Context) ([]dialect.Identifier, error) {
	names, err := in.identifiers(ctx, in.d.TempTableNamesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query temporary tables: %w", err)
	}
	return names, nil
}

func (in *Inspector) ViewNames(ctx context.Context) ([]dialect.Identifier, error) {
	names, err := in.identifiers(ctx, in.d.ViewNamesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	return names, nil
}

func (in *Inspector) SequenceNames(ctx context.Context) ([]dialect.Identifier, error) {
	names, err := in.identifiers(ctx, in.d.SequenceNamesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	return names, nil
}

// identifiers runs a single column query and converts every row with
// dialect.Catalog.Identifier.
func (in *Inspector) identifiers(ctx context.Context, query string, args ...any) ([]dialect.Identifier, error) {
	rows, err := in.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []dialect.Identifier
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		ids = append(ids, in.d.Identifier(name))
	}
	return ids, rows.Err()
}

// ViewDefinition returns the source of a view. ok is false when the view
// does not exist or has no source.
func (in *Inspector) ViewDefinition(ctx context.Context, view dialect.Identifier) (string, bool, error) {
	src, ok, err := in.text(ctx, in.d.ViewDefinitionQuery(), in.d.CatalogName(view))
	if err != nil {
		return "", false, fmt.Errorf("failed to query view %s: %w", view, err)
	}
	return src, ok, nil
}

// TableComment returns the description of a table.
func (in *Inspector) TableComment(ctx context.Context, table dialect.Identifier) (string, bool, error) {
	c, ok, err := in.text(ctx, in.d.TableCommentQuery(), in.d.CatalogName(table))
	if err != nil {
		return "", false, fmt.Errorf("failed to query comment of %s: %w", table, err)
	}
	return c, ok, nil
}

func (in *Inspector) text(ctx context.Context, query string, args ...any) (string, bool, error) {
	rows, err := in.q.QueryContext(ctx, query, args...)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var s sql.NullString
	if err := rows.Scan(&s); err != nil {
		return "", false, err
	}
	return s.String, s.Valid, rows.Err()
}
