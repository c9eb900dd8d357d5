package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
	"fb-dialect/internal/schema"
)

// Result reports what seeding did to one table.
type Result struct {
	Table  string
	Target int
	Actual int
	Status string
	Err    string
}

const (
	StatusOK      = "OK"
	StatusMissing = "MISSING DATA"
)

// Pumper inserts generated rows table by table. Tables must come in
// dependency order so parents are seeded before their children.
type Pumper struct {
	db     *sql.DB
	d      *dialect.Dialect
	gen    *Generator
	logger dialect.Logger
	// keys holds the primary key values known per table, fed to foreign keys.
	keys map[string][]any
	// base is the largest integer key present before seeding.
	base map[string]int
}

func NewPumper(db *sql.DB, d *dialect.Dialect, gen *Generator) *Pumper {
	return &Pumper{db: db, d: d, gen: gen, logger: d.Logger(), keys: make(map[string][]any), base: make(map[string]int)}
}

// Pump seeds count rows into every table. onProgress runs after each row.
func (p *Pumper) Pump(ctx context.Context, tables []*schema.Table, count int, onProgress func()) ([]Result, error) {
	var results []Result
	for _, t := range tables {
		before, err := p.rowCount(ctx, t)
		if err != nil {
			return results, err
		}
		inserted, err := p.pumpTable(ctx, t, count, onProgress)
		if err != nil {
			return results, err
		}
		after, err := p.rowCount(ctx, t)
		if err != nil {
			return results, err
		}

		res := Result{Table: t.Name, Target: count, Actual: after - before, Status: StatusOK}
		if res.Actual < count {
			res.Status = StatusMissing
			if inserted == 0 {
				res.Err = "failed to insert any rows, check logs for details"
			} else {
				res.Err = fmt.Sprintf("only inserted %d out of %d", res.Actual, count)
			}
		}
		results = append(results, res)

		if len(p.keys[t.Name]) == 0 {
			if err := p.collectKeys(ctx, t); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// plan is the insert statement of a table and the columns it binds.
type plan struct {
	query string
	binds []*schema.Column
	// key is the returned primary key column, empty when RETURNING is not used.
	key string
}

func (p *Pumper) plan(t *schema.Table) (*plan, error) {
	ins := &ast.Insert{Table: tableRef(t), Quoted: make(map[string]bool)}
	pl := &plan{}
	for _, c := range t.Columns {
		if c.Computed != nil {
			continue
		}
		ins.Columns = append(ins.Columns, c.Name)
		ins.Quoted[c.Name] = c.Quote
		if c.Sequence != nil {
			ins.Values = append(ins.Values, &ast.NextValue{Sequence: &ast.Sequence{Name: c.Sequence.Name, Quote: c.Sequence.Quote}})
			continue
		}
		ins.Values = append(ins.Values, &ast.Bind{})
		pl.binds = append(pl.binds, c)
	}
	caps := p.d.Capabilities()
	if pk := singleKey(t); pk != "" && caps.InsertReturning && caps.ImplicitReturning {
		ins.Returning = []ast.Node{columnRef(t, pk)}
		pl.key = pk
	}
	q, err := p.d.Compile(ins)
	if err != nil {
		return nil, fmt.Errorf("failed to render insert into %s: %w", t.Name, err)
	}
	pl.query = q
	return pl, nil
}

func (p *Pumper) pumpTable(ctx context.Context, t *schema.Table, count int, onProgress func()) (int, error) {
	pl, err := p.plan(t)
	if err != nil {
		return 0, err
	}
	if pk := p.generatedKey(t, pl); pk != nil {
		if p.base[t.Name], err = p.maxKey(ctx, t, pk); err != nil {
			return 0, err
		}
	}
	seen := newUniqueTracker(t)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", t.Name, err)
	}
	defer tx.Rollback()

	inserted, attempts := 0, 0
	for inserted < count && attempts < count*10 {
		attempts++
		values, ok := p.row(t, pl.binds, attempts)
		if !ok {
			p.logger.Printf("Table %s: foreign key cannot be satisfied, skipping", t.Name)
			break
		}
		if !seen.admit(pl.binds, values) {
			continue
		}

		if err := p.insert(ctx, tx, t, pl, values); err != nil {
			if attempts <= 3 {
				p.logger.Printf("Table %s attempt %d: %v (query: %s)", t.Name, attempts, err, pl.query)
			}
			continue
		}
		inserted++
		if onProgress != nil {
			onProgress()
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	return inserted, nil
}

// insert runs one row inside a savepoint, rolled back when the row fails.
func (p *Pumper) insert(ctx context.Context, tx *sql.Tx, t *schema.Table, pl *plan, values []any) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT seed_row"); err != nil {
		return err
	}
	var err error
	if pl.key != "" {
		var key any
		if err = tx.QueryRowContext(ctx, pl.query, values...).Scan(&key); err == nil {
			p.keys[t.Name] = append(p.keys[t.Name], key)
		}
	} else {
		_, err = tx.ExecContext(ctx, pl.query, values...)
	}
	if err != nil {
		_, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT seed_row")
		return errors.Join(err, rbErr)
	}
	_, err = tx.ExecContext(ctx, "RELEASE SAVEPOINT seed_row")
	return err
}

func (p *Pumper) row(t *schema.Table, cols []*schema.Column, index int) ([]any, bool) {
	values := make([]any, 0, len(cols))
	for _, c := range cols {
		v, ok := p.value(t, c, index)
		if !ok {
			return nil, false
		}
		values = append(values, p.d.Profile().BindValue(c.Type, v))
	}
	return values, true
}

// value picks a parent key for foreign key columns and generates the rest.
func (p *Pumper) value(t *schema.Table, c *schema.Column, index int) (any, bool) {
	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) != 1 || fk.Columns[0] != c.Name {
			continue
		}
		if keys := p.keys[fk.RefTable]; len(keys) > 0 {
			return keys[index%len(keys)], true
		}
		// Parent not seeded yet, as in a dependency cycle.
		if c.Nullable {
			return nil, true
		}
		return nil, false
	}
	if pk := singleKey(t); pk == c.Name && c.Type.IsInteger() {
		return p.base[t.Name] + index, true
	}
	return p.gen.Value(c), true
}

// collectKeys reads back the primary key values of a seeded table.
func (p *Pumper) collectKeys(ctx context.Context, t *schema.Table) error {
	pk := singleKey(t)
	if pk == "" {
		return nil
	}
	q, err := p.d.Compile(&ast.Select{Columns: []ast.Node{columnRef(t, pk)}, From: []ast.Node{tableRef(t)}})
	if err != nil {
		return err
	}
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to collect keys of %s: %w", t.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key any
		if err := rows.Scan(&key); err != nil {
			return err
		}
		p.keys[t.Name] = append(p.keys[t.Name], key)
	}
	return rows.Err()
}

// generatedKey returns the integer primary key column the client numbers
// itself, nil when there is none or a sequence feeds it.
func (p *Pumper) generatedKey(t *schema.Table, pl *plan) *schema.Column {
	pk := singleKey(t)
	for _, c := range pl.binds {
		if c.Name == pk && c.Type.IsInteger() {
			return c
		}
	}
	return nil
}

func (p *Pumper) maxKey(ctx context.Context, t *schema.Table, c *schema.Column) (int, error) {
	q, err := p.d.Compile(&ast.Select{
		Columns: []ast.Node{&ast.Func{Name: ast.FuncMax, Args: []ast.Node{&ast.Column{Name: c.Name, Quote: c.Quote}}}},
		From:    []ast.Node{tableRef(t)},
	})
	if err != nil {
		return 0, err
	}
	var n sql.NullInt64
	if err := p.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to read largest key of %s: %w", t.Name, err)
	}
	return int(n.Int64), nil
}

func (p *Pumper) rowCount(ctx context.Context, t *schema.Table) (int, error) {
	q, err := p.d.Compile(&ast.Select{
		Columns: []ast.Node{&ast.Func{Name: ast.FuncCount, Args: []ast.Node{&ast.Raw{SQL: "*"}}}},
		From:    []ast.Node{tableRef(t)},
	})
	if err != nil {
		return 0, err
	}
	var n int
	if err := p.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", t.Name, err)
	}
	return n, nil
}

// Clean deletes all rows, children first.
func (p *Pumper) Clean(ctx context.Context, tables []*schema.Table) error {
	for i := len(tables) - 1; i >= 0; i-- {
		q, err := p.d.Compile(&ast.Delete{Table: tableRef(tables[i])})
		if err != nil {
			return err
		}
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clean %s: %w", tables[i].Name, err)
		}
		p.logger.Printf("Cleaned %s", tables[i].Name)
	}
	return nil
}

func tableRef(t *schema.Table) *ast.Table {
	return &ast.Table{Name: t.Name, Quote: t.Quote}
}

// columnRef references a column of t, quoted when the reflected column is.
func columnRef(t *schema.Table, name string) *ast.Column {
	ref := &ast.Column{Name: name}
	for _, c := range t.Columns {
		if c.Name == name {
			ref.Quote = c.Quote
			break
		}
	}
	return ref
}

func singleKey(t *schema.Table) string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) != 1 {
		return ""
	}
	return t.PrimaryKey.Columns[0]
}

// uniqueTracker rejects rows repeating a value of a unique index or of the
// primary key.
type uniqueTracker struct {
	sets []keySet
}

type keySet struct {
	cols []string
	used map[string]bool
}

func newUniqueTracker(t *schema.Table) *uniqueTracker {
	u := &uniqueTracker{}
	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 1 {
		u.sets = append(u.sets, keySet{cols: t.PrimaryKey.Columns, used: map[string]bool{}})
	}
	for _, idx := range t.Indexes {
		if idx.Unique {
			u.sets = append(u.sets, keySet{cols: idx.Columns, used: map[string]bool{}})
		}
	}
	return u
}

func (u *uniqueTracker) admit(cols []*schema.Column, values []any) bool {
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		pos[c.Name] = i
	}
	keys := make([]string, len(u.sets))
	for i, s := range u.sets {
		parts := make([]string, 0, len(s.cols))
		for _, name := range s.cols {
			if j, ok := pos[name]; ok {
				parts = append(parts, fmt.Sprint(values[j]))
			}
		}
		// Sets with server generated columns are left to the server.
		if len(parts) != len(s.cols) {
			continue
		}
		keys[i] = strings.Join(parts, "|")
		if s.used[keys[i]] {
			return false
		}
	}
	for i, s := range u.sets {
		if keys[i] != "" {
			s.used[keys[i]] = true
		}
	}
	return true
}
