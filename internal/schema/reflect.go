package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
)

const (
	constraintPrimaryKey = "PRIMARY KEY"
	constraintForeignKey = "FOREIGN KEY"
)

// PrimaryKey returns the primary key columns of a table in key order. A
// table without a primary key yields an empty column list.
func (in *Inspector) PrimaryKey(ctx context.Context, table dialect.Identifier) (*PrimaryKey, error) {
	ids, err := in.identifiers(ctx, in.d.PrimaryKeyQuery(), constraintPrimaryKey, in.d.CatalogName(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key of %s: %w", table, err)
	}
	pk := &PrimaryKey{Columns: make([]string, 0, len(ids))}
	for _, id := range ids {
		pk.Columns = append(pk.Columns, id.Name)
	}
	return pk, nil
}

// columnRow is one row of the columns query.
type columnRow struct {
	name     string
	nullFlag sql.NullInt64
	typ      dialect.CatalogType
	def      sql.NullString
	computed sql.NullString
}

// Columns reflects the columns of a table in position order. The generator
// of a single column primary key is looked up through the SequenceLocator.
func (in *Inspector) Columns(ctx context.Context, table dialect.Identifier) ([]*Column, error) {
	pk, err := in.PrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}
	return in.columns(ctx, table, pk)
}

func (in *Inspector) columns(ctx context.Context, table dialect.Identifier, pk *PrimaryKey) ([]*Column, error) {
	raw, err := in.columnRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}

	cols := make([]*Column, 0, len(raw))
	for _, r := range raw {
		id := in.d.Identifier(r.name)
		name := id.Name
		typ, ok := in.d.MapType(r.typ)
		if !ok {
			in.logger.Printf("Did not recognize type '%s' of column '%s'", strings.TrimSpace(r.typ.Name), name)
			typ = ast.NullType
		}
		col := &Column{
			Name:          name,
			Type:          typ,
			Nullable:      !r.nullFlag.Valid || r.nullFlag.Int64 == 0,
			Autoincrement: "auto",
			Quote:         id.Quote,
		}
		if r.def.Valid {
			def, err := parseDefault(r.def.String)
			if err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", table, name, err)
			}
			col.Default = def
		}
		if r.computed.Valid && r.computed.String != "" {
			col.Computed = &Computed{SQLText: r.computed.String}
		}
		if len(pk.Columns) == 1 && pk.Columns[0] == name {
			seq, err := in.locator.Locate(ctx, table, id)
			if err != nil {
				return nil, fmt.Errorf("failed to locate sequence of %s.%s: %w", table, name, err)
			}
			col.Sequence = seq
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// columnRows reads the whole result before any follow-up query is issued on
// the same connection.
func (in *Inspector) columnRows(ctx context.Context, table dialect.Identifier) ([]columnRow, error) {
	rows, err := in.q.QueryContext(ctx, in.d.ColumnsQuery(), in.d.CatalogName(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []columnRow
	for rows.Next() {
		var (
			r     columnRow
			ftype sql.NullString
		)
		if err := rows.Scan(&r.name, &r.nullFlag, &ftype, &r.typ.SubType, &r.typ.Length,
			&r.typ.Precision, &r.typ.Scale, &r.def, &r.computed); err != nil {
			return nil, err
		}
		r.name = strings.TrimRight(r.name, " ")
		r.typ.Name = ftype.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseDefault extracts the expression of a "DEFAULT <expr>" source. A NULL
// default is no default.
func parseDefault(src string) (*string, error) {
	expr := strings.TrimLeft(src, " \t\r\n")
	n := min(8, len(expr))
	if strings.ToUpper(strings.TrimRight(expr[:n], " \t\r\n")) != "DEFAULT" {
		return nil, fmt.Errorf("%w: unrecognized default value %q", ErrReflectionInconsistency, src)
	}
	v := strings.TrimSpace(expr[n:])
	if v == "NULL" {
		return nil, nil
	}
	return &v, nil
}

// ColumnSequence returns the generator feeding a column, or nil.
func (in *Inspector) ColumnSequence(ctx context.Context, table, column dialect.Identifier) (*Sequence, error) {
	seq, err := in.locator.Locate(ctx, table, column)
	if err != nil {
		return nil, fmt.Errorf("failed to locate sequence of %s.%s: %w", table, column, err)
	}
	return seq, nil
}

// ForeignKeys returns the foreign keys of a table, in catalog order, with
// their columns aligned by position.
func (in *Inspector) ForeignKeys(ctx context.Context, table dialect.Identifier) ([]*ForeignKey, error) {
	rows, err := in.q.QueryContext(ctx, in.d.ForeignKeysQuery(), constraintForeignKey, in.d.CatalogName(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var fks []*ForeignKey
	byName := make(map[string]*ForeignKey)
	for rows.Next() {
		var cname, fname, rtable, rfname string
		if err := rows.Scan(&cname, &fname, &rtable, &rfname); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key of %s: %w", table, err)
		}
		name := in.d.Normalize(cname)
		fk, ok := byName[name]
		if !ok {
			ref := in.d.Identifier(rtable)
			fk = &ForeignKey{Name: name, RefTable: ref.Name, RefQuote: ref.Quote}
			byName[name] = fk
			fks = append(fks, fk)
		}
		fk.Columns = append(fk.Columns, in.d.Normalize(fname))
		rcol := in.d.Identifier(rfname)
		fk.RefColumns = append(fk.RefColumns, rcol.Name)
		if rcol.Quote {
			fk.RefQuoted = append(fk.RefQuoted, rcol.Name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys of %s: %w", table, err)
	}
	return fks, nil
}

// Indexes returns the plain indexes of a table. Indexes backing a
// constraint are left out.
func (in *Inspector) Indexes(ctx context.Context, table dialect.Identifier) ([]*Index, error) {
	rows, err := in.q.QueryContext(ctx, in.d.IndexesQuery(), in.d.CatalogName(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes of %s: %w", table, err)
	}
	defer rows.Close()

	var idxs []*Index
	byName := make(map[string]*Index)
	for rows.Next() {
		var (
			iname, fname string
			unique       sql.NullInt64
		)
		if err := rows.Scan(&iname, &unique, &fname); err != nil {
			return nil, fmt.Errorf("failed to scan index of %s: %w", table, err)
		}
		name := in.d.Normalize(iname)
		idx, ok := byName[name]
		if !ok {
			idx = &Index{Name: name, Unique: unique.Valid && unique.Int64 == 1}
			byName[name] = idx
			idxs = append(idxs, idx)
		}
		idx.Columns = append(idx.Columns, in.d.Normalize(fname))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating indexes of %s: %w", table, err)
	}
	return idxs, nil
}
