package schema

import (
	"context"
	"fmt"

	"fb-dialect/internal/dialect"
)

// SequenceLocator finds the generator that feeds a column. A nil Sequence
// with a nil error means none was found.
type SequenceLocator interface {
	Locate(ctx context.Context, table, column dialect.Identifier) (*Sequence, error)
}

// TriggerSequenceLocator recognizes the classic Firebird autoincrement
// idiom: a BEFORE INSERT trigger on the table that depends on the column
// and on exactly one generator. It is a heuristic; a trigger doing anything
// else with the same dependencies is reported as well.
type TriggerSequenceLocator struct {
	q Querier
	d dialect.Catalog
}

func NewTriggerSequenceLocator(q Querier, d dialect.Catalog) *TriggerSequenceLocator {
	return &TriggerSequenceLocator{q: q, d: d}
}

func (l *TriggerSequenceLocator) Locate(ctx context.Context, table, column dialect.Identifier) (*Sequence, error) {
	rows, err := l.q.QueryContext(ctx, l.d.ColumnSequenceQuery(), l.d.CatalogName(table), l.d.CatalogName(column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var gen string
	if err := rows.Scan(&gen); err != nil {
		return nil, fmt.Errorf("failed to scan generator name: %w", err)
	}
	id := l.d.Identifier(gen)
	return &Sequence{Name: id.Name, Quote: id.Quote}, nil
}
