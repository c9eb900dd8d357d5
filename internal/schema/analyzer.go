package schema

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"fb-dialect/internal/dialect"
)

// ---------------------------------------------------------------------
// Whole table reflection
// ---------------------------------------------------------------------

// Table reflects everything known about one table.
func (in *Inspector) Table(ctx context.Context, name dialect.Identifier) (*Table, error) {
	pk, err := in.PrimaryKey(ctx, name)
	if err != nil {
		return nil, err
	}
	cols, err := in.columns(ctx, name, pk)
	if err != nil {
		return nil, err
	}
	fks, err := in.ForeignKeys(ctx, name)
	if err != nil {
		return nil, err
	}
	idxs, err := in.Indexes(ctx, name)
	if err != nil {
		return nil, err
	}
	comment, _, err := in.TableComment(ctx, name)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Name:         name.Name,
		Quote:        name.Quote,
		Comment:      comment,
		Columns:      cols,
		ForeignKeys:  fks,
		Indexes:      idxs,
		Dependencies: []string{},
	}
	if len(pk.Columns) > 0 {
		t.PrimaryKey = pk
	}
	for _, fk := range fks {
		// self references do not constrain ordering
		if fk.RefTable != t.Name && !slices.Contains(t.Dependencies, fk.RefTable) {
			t.Dependencies = append(t.Dependencies, fk.RefTable)
		}
	}
	return t, nil
}

// Analyze reflects the named tables, all user tables when names is empty,
// with at most workers concurrent reflections, and returns them in
// dependency order. The Querier must be safe for concurrent use when
// workers is greater than one.
func (in *Inspector) Analyze(ctx context.Context, names []dialect.Identifier, workers int) ([]*Table, error) {
	if len(names) == 0 {
		var err error
		if names, err = in.TableNames(ctx); err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}

	tables := make([]*Table, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			t, err := in.Table(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to reflect table %s: %w", name, err)
			}
			tables[i] = t
			if in.progress != nil {
				in.progress(name.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Only tables in the set take part in ordering.
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t.Name] = true
	}
	for _, t := range tables {
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(dep string) bool { return !known[dep] })
	}
	return SortTablesByFKCount(tables, in.logger), nil
}

// ---------------------------------------------------------------------
// Sorting (topological, greedy cycle breaking)
// ---------------------------------------------------------------------

// SortTablesByFKCount orders tables so that referenced tables come first.
// Cycles are broken by emitting the table with the fewest unresolved
// references, preferring tables that take part in a two-table cycle.
func SortTablesByFKCount(tables []*Table, logger dialect.Logger) []*Table {
	if logger == nil {
		logger = dialect.NopLogger()
	}
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	sorted := make([]*Table, 0, len(tables))
	processed := make(map[string]bool)
	for len(sorted) < len(tables) {
		added := false
		for _, t := range tables {
			if processed[t.Name] || !resolved(t, processed) {
				continue
			}
			sorted = append(sorted, t)
			processed[t.Name] = true
			added = true
		}
		if added {
			continue
		}

		var best *Table
		bestScore := 0
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}
			score := -100 * unresolved(t, processed)
			if circular(t, byName, processed) {
				score += 500
			}
			if best == nil || score > bestScore || (score == bestScore && t.Name > best.Name) {
				best, bestScore = t, score
			}
		}
		if best == nil {
			logger.Printf("[Sort] remaining tables cannot be sorted")
			break
		}
		sorted = append(sorted, best)
		processed[best.Name] = true
		logger.Printf("[Sort] Breaking circular dependency: %s (score: %d)", best.Name, bestScore)
	}
	return sorted
}

func resolved(t *Table, processed map[string]bool) bool {
	return unresolved(t, processed) == 0
}

func unresolved(t *Table, processed map[string]bool) int {
	n := 0
	for _, dep := range t.Dependencies {
		if !processed[dep] {
			n++
		}
	}
	return n
}

// circular reports whether an unprocessed dependency of t refers back to t.
func circular(t *Table, byName map[string]*Table, processed map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if processed[dep] {
			continue
		}
		if d, ok := byName[dep]; ok && slices.Contains(d.Dependencies, t.Name) {
			return true
		}
	}
	return false
}
