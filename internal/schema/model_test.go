package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
	"fb-dialect/internal/schema"
)

func TestDefinition(t *testing.T) {
	t.Parallel()

	tbl := &schema.Table{
		Name:    "lines",
		Comment: "order lines",
		Columns: []*schema.Column{
			{Name: "order_id", Type: ast.Integer(), Autoincrement: "auto"},
			{Name: "line_no", Type: ast.SmallInt(), Autoincrement: "auto", Sequence: &schema.Sequence{Name: "gen_line_no"}},
			{Name: "Qty", Quote: true, Type: ast.Integer(), Nullable: true, Default: strPtr("1")},
			{Name: "amount", Type: ast.Numeric(18, 2), Nullable: true, Computed: &schema.Computed{SQLText: "(qty * 2)"}},
		},
		PrimaryKey: &schema.PrimaryKey{Columns: []string{"order_id", "line_no"}},
		ForeignKeys: []*schema.ForeignKey{
			{Name: "fk_lines_order", Columns: []string{"order_id"}, RefTable: "orders", RefColumns: []string{"id"}},
		},
	}

	d := dialect.New(dialect.WithLogger(dialect.NopLogger()))
	def := tbl.Definition()
	got, err := d.Compile(&ast.CreateTable{Table: def})
	require.NoError(t, err)
	want := "CREATE TABLE lines (\n" +
		"\torder_id INTEGER NOT NULL,\n" +
		"\tline_no SMALLINT NOT NULL,\n" +
		"\t\"Qty\" INTEGER DEFAULT 1,\n" +
		"\tamount NUMERIC(18, 2) GENERATED ALWAYS AS ((qty * 2)),\n" +
		"\tPRIMARY KEY (order_id, line_no),\n" +
		"\tCONSTRAINT fk_lines_order FOREIGN KEY(order_id) REFERENCES orders (id)\n" +
		")"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTable mismatch (-want +got):\n%s", diff)
	}

	comment, err := d.CommentOnTable(def)
	require.NoError(t, err)
	require.Equal(t, "COMMENT ON TABLE lines IS 'order lines'", comment)
}

func TestDefinitionQuotedTable(t *testing.T) {
	t.Parallel()

	tbl := &schema.Table{
		Name:    "mytable",
		Quote:   true,
		Comment: "mixed",
		Columns: []*schema.Column{
			{Name: "code", Type: ast.Type{Kind: ast.TypeText, Length: 10, Charset: "UTF8"}, Autoincrement: "auto"},
			{Name: "parent", Quote: true, Type: ast.Type{Kind: ast.TypeText, Length: 10}, Nullable: true, Autoincrement: "auto"},
			{Name: "memo", Type: ast.Text(0), Nullable: true, Autoincrement: "auto"},
		},
		PrimaryKey: &schema.PrimaryKey{Columns: []string{"code"}},
		ForeignKeys: []*schema.ForeignKey{
			{Name: "fk_parent", Columns: []string{"parent"}, RefTable: "mytable", RefQuote: true, RefColumns: []string{"code"}},
		},
	}

	d := dialect.New(dialect.WithLogger(dialect.NopLogger()))
	def := tbl.Definition()
	got, err := d.Compile(&ast.CreateTable{Table: def})
	require.NoError(t, err)
	want := "CREATE TABLE \"mytable\" (\n" +
		"\tcode CHAR(10) CHARACTER SET UTF8 NOT NULL,\n" +
		"\t\"parent\" CHAR(10),\n" +
		"\tmemo BLOB SUB_TYPE 1,\n" +
		"\tPRIMARY KEY (code),\n" +
		"\tCONSTRAINT fk_parent FOREIGN KEY(\"parent\") REFERENCES \"mytable\" (code)\n" +
		")"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTable mismatch (-want +got):\n%s", diff)
	}
	// reflection output keeps the catalog type
	require.Equal(t, ast.TypeText, tbl.Columns[0].Type.Kind)

	comment, err := d.CommentOnTable(def)
	require.NoError(t, err)
	require.Equal(t, "COMMENT ON TABLE \"mytable\" IS 'mixed'", comment)
}
