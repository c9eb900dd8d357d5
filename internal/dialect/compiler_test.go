package dialect_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
)

func firebird(major, minor int) *dialect.Dialect {
	return dialect.Connect(dialect.ServerInfo{
		Product:       dialect.ProductFirebird,
		Version:       []int{major, minor},
		EngineVersion: float64(major) + float64(minor)/10,
	}, dialect.WithLogger(dialect.NopLogger()))
}

func requireUnsupported(t *testing.T, err error, construct string) {
	t.Helper()
	var unsupported *dialect.UnsupportedError
	require.True(t, errors.As(err, &unsupported), "want *UnsupportedError, got %v", err)
	assert.Equal(t, construct, unsupported.Construct)
}

func TestCompileStatements(t *testing.T) {
	t.Parallel()

	users := ast.T("users")
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{
			name: "first skip",
			node: &ast.Select{
				Columns: []ast.Node{ast.C("name")},
				From:    []ast.Node{users},
				OrderBy: []ast.Order{{Expr: ast.C("name")}},
				Limit:   ast.Lit(10),
				Offset:  ast.Lit(5),
			},
			want: "SELECT FIRST (10) SKIP (5) name FROM users ORDER BY name",
		},
		{
			name: "skip only",
			node: &ast.Select{Distinct: true, Columns: []ast.Node{ast.C("name")}, From: []ast.Node{users}, Offset: &ast.Bind{}},
			want: "SELECT DISTINCT SKIP (?) name FROM users",
		},
		{
			name: "default from",
			node: &ast.Select{Columns: []ast.Node{&ast.Func{Name: "now"}}},
			want: "SELECT CURRENT_TIMESTAMP FROM rdb$database",
		},
		{
			name: "mod",
			node: &ast.Select{Columns: []ast.Node{&ast.Binary{Op: ast.OpMod, Left: ast.C("id"), Right: ast.Lit(2)}}, From: []ast.Node{users}},
			want: "SELECT mod(id, 2) FROM users",
		},
		{
			name: "other operators",
			node: &ast.Select{From: []ast.Node{users}, Where: &ast.Binary{Op: ast.OpGt, Left: ast.C("id"), Right: ast.Lit(2)}},
			want: "SELECT * FROM users WHERE id > 2",
		},
		{
			name: "substring",
			node: &ast.Select{Columns: []ast.Node{
				&ast.Func{Name: "substring", Args: []ast.Node{ast.C("name"), ast.Lit(1), ast.Lit(3)}},
				&ast.Func{Name: "SUBSTRING", Args: []ast.Node{ast.C("name"), ast.Lit(2)}},
			}, From: []ast.Node{users}},
			want: "SELECT SUBSTRING(name FROM 1 FOR 3), SUBSTRING(name FROM 2) FROM users",
		},
		{
			name: "length",
			node: &ast.Select{Columns: []ast.Node{
				&ast.Func{Name: "length", Args: []ast.Node{ast.C("name")}},
				&ast.Func{Name: "char_length", Args: []ast.Node{ast.C("name")}},
			}, From: []ast.Node{users}},
			want: "SELECT char_length(name), char_length(name) FROM users",
		},
		{
			name: "function argspec",
			node: &ast.Select{Columns: []ast.Node{
				&ast.Func{Name: "current_user"},
				&ast.Func{Name: ast.FuncCount, Args: []ast.Node{ast.C("id")}},
			}, From: []ast.Node{users}},
			want: "SELECT current_user, count(id) FROM users",
		},
		{
			name: "next value",
			node: &ast.Select{Columns: []ast.Node{&ast.NextValue{Sequence: &ast.Sequence{Name: "gen_users"}}}},
			want: "SELECT gen_id(gen_users, 1) FROM rdb$database",
		},
		{
			name: "empty set",
			node: &ast.EmptySet{},
			want: "SELECT 1 FROM rdb$database WHERE 0=1",
		},
		{
			name: "modern alias",
			node: &ast.Select{Columns: []ast.Node{&ast.Column{Table: "u", Name: "id"}}, From: []ast.Node{&ast.Alias{Element: users, Name: "u"}}},
			want: "SELECT u.id FROM users AS u",
		},
		{
			name: "insert returning",
			node: &ast.Insert{Table: users, Columns: []string{"name"}, Returning: []ast.Node{&ast.Column{Table: "users", Name: "id"}}},
			want: "INSERT INTO users (name) VALUES (?) RETURNING users.id",
		},
		{
			name: "update returning",
			node: &ast.Update{
				Table:     users,
				Set:       []ast.Assignment{{Column: "name", Value: &ast.Bind{}}},
				Where:     &ast.Binary{Op: ast.OpEq, Left: ast.C("id"), Right: &ast.Bind{}},
				Returning: []ast.Node{ast.C("id"), ast.C("name")},
			},
			want: "UPDATE users SET name=? WHERE id = ? RETURNING id, name",
		},
		{
			name: "delete returning",
			node: &ast.Delete{Table: users, Returning: []ast.Node{ast.C("id")}},
			want: "DELETE FROM users RETURNING id",
		},
	}
	d := firebird(3, 0)
	for _, tt := range tests {
		got, err := d.Compile(tt.node)
		require.NoError(t, err, tt.name)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: Compile() mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestCompileLegacy(t *testing.T) {
	t.Parallel()

	d := firebird(1, 5)
	got, err := d.Compile(&ast.Select{
		Columns: []ast.Node{&ast.Alias{Element: &ast.Column{Table: "u", Name: "id"}, Name: "ident"}},
		From:    []ast.Node{&ast.Alias{Element: ast.T("users"), Name: "u"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.id FROM users u", got)

	got, err = d.Compile(&ast.CreateSequence{Sequence: &ast.Sequence{Name: "gen_users"}})
	require.NoError(t, err)
	assert.Equal(t, "CREATE GENERATOR gen_users", got)

	got, err = d.Compile(&ast.DropSequence{Sequence: &ast.Sequence{Name: "gen_users"}})
	require.NoError(t, err)
	assert.Equal(t, "DROP GENERATOR gen_users", got)

	_, err = d.Compile(&ast.Insert{Table: ast.T("users"), Columns: []string{"name"}, Returning: []ast.Node{ast.C("id")}})
	requireUnsupported(t, err, "RETURNING")
}

func TestCompileMutationReturning(t *testing.T) {
	t.Parallel()

	d := firebird(2, 0)
	got, err := d.Compile(&ast.Insert{Table: ast.T("users"), Columns: []string{"name"}, Returning: []ast.Node{ast.C("id")}})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name) VALUES (?) RETURNING id", got)

	_, err = d.Compile(&ast.Delete{Table: ast.T("users"), Returning: []ast.Node{ast.C("id")}})
	requireUnsupported(t, err, "RETURNING")

	_, err = d.Compile(&ast.Update{Table: ast.T("users"), Set: []ast.Assignment{{Column: "a", Value: ast.Lit(1)}}, Returning: []ast.Node{ast.C("id")}})
	requireUnsupported(t, err, "RETURNING")
}

func TestCompileSubstringArity(t *testing.T) {
	t.Parallel()

	_, err := dialect.New().Compile(&ast.Func{Name: "substring", Args: []ast.Node{ast.C("name")}})
	require.Error(t, err)
}

func TestCompileCreateTable(t *testing.T) {
	t.Parallel()

	tbl := ast.NewTable("orders",
		&ast.ColumnDef{Name: "id", Type: ast.Integer(), PrimaryKey: true},
		&ast.ColumnDef{Name: "code", Type: ast.Type{Kind: ast.TypeVarchar, Length: 20, Charset: "UTF8"}, Nullable: true},
		&ast.ColumnDef{Name: "Note", Quote: true, Type: ast.Text(0), Nullable: true},
		&ast.ColumnDef{Name: "data", Type: ast.Blob(), Nullable: true},
		&ast.ColumnDef{Name: "active", Type: ast.Boolean(), Default: "1"},
		&ast.ColumnDef{Name: "created", Type: ast.DateTime(), Nullable: true},
		&ast.ColumnDef{Name: "total", Type: ast.Numeric(10, 2), Nullable: true},
		&ast.ColumnDef{Name: "doubled", Type: ast.Numeric(10, 2), Nullable: true, Computed: &ast.Computed{
			Expr: &ast.Binary{Op: ast.OpMul, Left: &ast.Column{Table: "orders", Name: "total"}, Right: &ast.Bind{Value: 2}},
		}},
		&ast.ColumnDef{Name: "ref", Type: ast.Integer(), Nullable: true, Sequence: &ast.Sequence{Name: "gen_ref"}},
	)
	tbl.OnCommit = "preserve_rows"

	got, err := firebird(3, 0).Compile(&ast.CreateTable{Table: tbl})
	require.NoError(t, err)
	want := "CREATE TABLE orders (\n" +
		"\tid INTEGER GENERATED BY DEFAULT AS IDENTITY (START WITH 0) NOT NULL,\n" +
		"\tcode VARCHAR(20) CHARACTER SET UTF8,\n" +
		"\t\"Note\" BLOB SUB_TYPE 1,\n" +
		"\tdata BLOB SUB_TYPE 0,\n" +
		"\tactive SMALLINT DEFAULT 1 NOT NULL,\n" +
		"\tcreated TIMESTAMP,\n" +
		"\ttotal NUMERIC(10, 2),\n" +
		"\tdoubled NUMERIC(10, 2) GENERATED ALWAYS AS (total * 2),\n" +
		"\tref INTEGER NOT NULL,\n" +
		"\tPRIMARY KEY (id)\n" +
		")\n ON COMMIT PRESERVE ROWS"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTable mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIdentity(t *testing.T) {
	t.Parallel()

	tbl := ast.NewTable("lines",
		&ast.ColumnDef{Name: "order_id", Type: ast.Integer(), PrimaryKey: true},
		&ast.ColumnDef{Name: "line_no", Type: ast.Integer(), PrimaryKey: true, Autoincrement: ast.AutoincrementTrue, IdentityStart: 100},
		&ast.ColumnDef{Name: "qty", Type: ast.SmallInt(), Nullable: true, Default: "1"},
	)
	got, err := firebird(4, 0).Compile(&ast.CreateTable{Table: tbl})
	require.NoError(t, err)
	want := "CREATE TABLE lines (\n" +
		"\torder_id INTEGER NOT NULL,\n" +
		"\tline_no INTEGER GENERATED BY DEFAULT AS IDENTITY (START WITH 100) NOT NULL,\n" +
		"\tqty SMALLINT DEFAULT 1,\n" +
		"\tPRIMARY KEY (order_id, line_no)\n" +
		")"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTable mismatch (-want +got):\n%s", diff)
	}

	// a single integer key with a default is not an identity
	tbl = ast.NewTable("codes", &ast.ColumnDef{Name: "id", Type: ast.Integer(), PrimaryKey: true, Default: "0"})
	got, err = firebird(4, 0).Compile(&ast.CreateTable{Table: tbl})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE codes (\n\tid INTEGER DEFAULT 0 NOT NULL,\n\tPRIMARY KEY (id)\n)", got)
}

func TestCompileCreateTableDetachedColumns(t *testing.T) {
	t.Parallel()

	// columns built without NewTable do not know their table
	id := &ast.ColumnDef{Name: "id", Type: ast.Integer(), PrimaryKey: true}
	tbl := &ast.TableDef{Name: "tickets", Columns: []*ast.ColumnDef{id}}
	want := "CREATE TABLE tickets (\n" +
		"\tid INTEGER GENERATED BY DEFAULT AS IDENTITY (START WITH 0) NOT NULL,\n" +
		"\tPRIMARY KEY (id)\n" +
		")"
	for range 2 {
		got, err := firebird(4, 0).Compile(&ast.CreateTable{Table: tbl})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Nil(t, id.Table)
}

func TestCompileCreateTableQuotedNames(t *testing.T) {
	t.Parallel()

	tbl := ast.NewTable("mytable",
		&ast.ColumnDef{Name: "id", Quote: true, Type: ast.Integer(), PrimaryKey: true, Default: "0"},
		&ast.ColumnDef{Name: "parent", Quote: true, Type: ast.Integer(), Nullable: true},
	)
	tbl.Quote = true
	tbl.ForeignKeys = []*ast.ForeignKeyDef{{
		Name:       "fk_parent",
		Columns:    []string{"parent"},
		RefTable:   "mytable",
		RefQuote:   true,
		RefColumns: []string{"id"},
		RefQuoted:  map[string]bool{"id": true},
	}}
	got, err := firebird(3, 0).Compile(&ast.CreateTable{Table: tbl})
	require.NoError(t, err)
	want := "CREATE TABLE \"mytable\" (\n" +
		"\t\"id\" INTEGER DEFAULT 0 NOT NULL,\n" +
		"\t\"parent\" INTEGER,\n" +
		"\tPRIMARY KEY (\"id\"),\n" +
		"\tCONSTRAINT fk_parent FOREIGN KEY(\"parent\") REFERENCES \"mytable\" (\"id\")\n" +
		")"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateTable mismatch (-want +got):\n%s", diff)
	}

	got, err = firebird(3, 0).Compile(&ast.Insert{
		Table:   &ast.Table{Name: "mytable", Quote: true},
		Columns: []string{"id", "note"},
		Quoted:  map[string]bool{"id": true},
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "mytable" ("id", note) VALUES (?, ?)`, got)

	got, err = firebird(3, 0).Compile(&ast.Select{
		Columns: []ast.Node{&ast.Column{Name: "id", Quote: true}},
		From:    []ast.Node{&ast.Table{Name: "mytable", Quote: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "mytable"`, got)
}

func TestCompileDDLErrors(t *testing.T) {
	t.Parallel()

	d := firebird(3, 0)
	persisted := false
	tbl := ast.NewTable("t", &ast.ColumnDef{Name: "c", Type: ast.Integer(), Nullable: true, Computed: &ast.Computed{
		Expr: ast.Lit(1), Persisted: &persisted,
	}})
	_, err := d.Compile(&ast.CreateTable{Table: tbl})
	requireUnsupported(t, err, "computed column")

	tbl = ast.NewTable("t", &ast.ColumnDef{Name: "c", Type: ast.Varchar(0), Nullable: true})
	_, err = d.Compile(&ast.CreateTable{Table: tbl})
	requireUnsupported(t, err, "type")

	start, inc := int64(10), int64(2)
	_, err = d.Compile(&ast.CreateSequence{Sequence: &ast.Sequence{Name: "s", Start: &start}})
	requireUnsupported(t, err, "sequence")
	_, err = d.Compile(&ast.CreateSequence{Sequence: &ast.Sequence{Name: "s", Increment: &inc}})
	requireUnsupported(t, err, "sequence")

	got, err := d.Compile(&ast.CreateSequence{Sequence: &ast.Sequence{Name: "s"}})
	require.NoError(t, err)
	assert.Equal(t, "CREATE SEQUENCE s", got)
	got, err = d.Compile(&ast.DropSequence{Sequence: &ast.Sequence{Name: "s"}})
	require.NoError(t, err)
	assert.Equal(t, "DROP SEQUENCE s", got)
}

func TestCompileType(t *testing.T) {
	t.Parallel()

	d := dialect.New()
	for typ, want := range map[ast.Type]string{
		ast.Boolean():      "SMALLINT",
		ast.DateTime():     "TIMESTAMP",
		ast.Timestamp():    "TIMESTAMP",
		ast.Text(100):      "BLOB SUB_TYPE 1",
		ast.Blob():         "BLOB SUB_TYPE 0",
		ast.Varchar(30):    "VARCHAR(30)",
		ast.Char(2):        "CHAR(2)",
		ast.Numeric(18, 4): "NUMERIC(18, 4)",
		ast.BigInt():       "BIGINT",
		{Kind: ast.TypeChar, Length: 1, Charset: "OCTETS"}: "CHAR(1) CHARACTER SET OCTETS",
	} {
		got, err := d.CompileType(typ)
		require.NoError(t, err, typ.String())
		assert.Equal(t, want, got, typ.String())
	}

	_, err := d.CompileType(ast.NullType)
	requireUnsupported(t, err, "type")
}

func TestSupplementalStatements(t *testing.T) {
	t.Parallel()

	d := dialect.New()
	assert.Equal(t, "SELECT gen_id(gen_users, 1) FROM rdb$database", d.NextValueQuery(&ast.Sequence{Name: "gen_users"}))
	assert.Equal(t, `SELECT gen_id("Gen", 1) FROM rdb$database`, d.NextValueQuery(&ast.Sequence{Name: "Gen"}))

	tbl := ast.NewTable("users")
	tbl.Comment = "people's accounts"
	got, err := d.CommentOnTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, "COMMENT ON TABLE users IS 'people''s accounts'", got)
}
