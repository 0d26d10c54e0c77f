package parser

import (
	"testing"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

func TestParseSelect(t *testing.T) {
	tests := []struct {
		input    string
		wantCols int
	}{
		{"SELECT * FROM users", 1},
		{"SELECT id, name FROM users", 2},
		{"SELECT id, name, email FROM users WHERE id = 1", 3},
		{"SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id", 2},
		{"SELECT COUNT(*) FROM users", 1},
		{"SELECT DISTINCT name FROM users", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(tt.input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			sel, ok := stmt.(*ast.SelectStmt)
			if !ok {
				t.Fatalf("Expected SelectStmt, got %T", stmt)
			}
			if len(sel.Columns) != tt.wantCols {
				t.Errorf("Expected %d columns, got %d", tt.wantCols, len(sel.Columns))
			}
		})
	}
}

func TestParseDerivedTableColumnAliases(t *testing.T) {
	p := New("SELECT v.a, v.b FROM (VALUES (1, 2), (3, 4)) AS v (a, b)")
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		t.Fatalf("Expected SelectStmt, got %T", stmt)
	}
	aliased, ok := sel.From.(*ast.AliasedTableExpr)
	if !ok {
		t.Fatalf("Expected AliasedTableExpr, got %T", sel.From)
	}
	if aliased.Alias != "v" {
		t.Errorf("Expected alias %q, got %q", "v", aliased.Alias)
	}
	if want := []string{"a", "b"}; len(aliased.Columns) != len(want) || aliased.Columns[0] != want[0] || aliased.Columns[1] != want[1] {
		t.Errorf("Expected column aliases %v, got %v", want, aliased.Columns)
	}
	paren, ok := aliased.Expr.(*ast.ParenTableExpr)
	if !ok {
		t.Fatalf("Expected ParenTableExpr source, got %T", aliased.Expr)
	}
	if _, ok := paren.Expr.(*ast.ValuesStmt); !ok {
		t.Fatalf("Expected ValuesStmt inside parens, got %T", paren.Expr)
	}
}

func TestParseInsert(t *testing.T) {
	tests := []struct {
		input string
		want  int // expected number of value rows
	}{
		{"INSERT INTO users (id, name) VALUES (1, 'test')", 1},
		{"INSERT INTO users VALUES (1, 'test'), (2, 'test2')", 2},
		{"REPLACE INTO users (id) VALUES (1)", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(tt.input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			ins, ok := stmt.(*ast.InsertStmt)
			if !ok {
				t.Fatalf("Expected InsertStmt, got %T", stmt)
			}
			if len(ins.Values) != tt.want {
				t.Errorf("Expected %d value rows, got %d", tt.want, len(ins.Values))
			}
		})
	}
}

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		input    string
		wantSets int
	}{
		{"UPDATE users SET name = 'test' WHERE id = 1", 1},
		{"UPDATE users SET name = 'test', email = 'a@b.com'", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(tt.input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			upd, ok := stmt.(*ast.UpdateStmt)
			if !ok {
				t.Fatalf("Expected UpdateStmt, got %T", stmt)
			}
			if len(upd.Set) != tt.wantSets {
				t.Errorf("Expected %d SET expressions, got %d", tt.wantSets, len(upd.Set))
			}
		})
	}
}

func TestParseDelete(t *testing.T) {
	tests := []struct {
		input    string
		hasWhere bool
	}{
		{"DELETE FROM users WHERE id = 1", true},
		{"DELETE FROM users", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(tt.input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			del, ok := stmt.(*ast.DeleteStmt)
			if !ok {
				t.Fatalf("Expected DeleteStmt, got %T", stmt)
			}
			if (del.Where != nil) != tt.hasWhere {
				t.Errorf("Expected hasWhere=%v, got %v", tt.hasWhere, del.Where != nil)
			}
		})
	}
}

func TestParseCreateTable(t *testing.T) {
	input := `CREATE TABLE users (
		id INT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	p := New(input)
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	create, ok := stmt.(*ast.CreateTableStmt)
	if !ok {
		t.Fatalf("Expected CreateTableStmt, got %T", stmt)
	}

	if create.Table.Name() != "users" {
		t.Errorf("Expected table name 'users', got %s", create.Table.Name())
	}

	if len(create.Columns) != 4 {
		t.Errorf("Expected 4 columns, got %d", len(create.Columns))
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"SELECT 1 + 2"},
		{"SELECT a AND b OR c"},
		{"SELECT a = 1 AND b = 2"},
		{"SELECT a BETWEEN 1 AND 10"},
		{"SELECT a IN (1, 2, 3)"},
		{"SELECT a LIKE '%test%'"},
		{"SELECT a IS NULL"},
		{"SELECT a IS NOT NULL"},
		{"SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END"},
		{"SELECT CAST(a AS INT)"},
		{"SELECT COUNT(*)"},
		{"SELECT SUM(amount)"},
		{"SELECT a::int"},
		{"SELECT a || b"},
		{"SELECT COALESCE(a, b, c)"},
		{"SELECT NULLIF(a, b)"},
		{"SELECT EXISTS (SELECT 1 FROM t)"},
		{"SELECT * FROM t WHERE a IN (SELECT id FROM t2)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(tt.input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseJoins(t *testing.T) {
	tests := []string{
		"SELECT * FROM a JOIN b ON a.id = b.a_id",
		"SELECT * FROM a INNER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a LEFT JOIN b ON a.id = b.a_id",
		"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a RIGHT JOIN b ON a.id = b.a_id",
		"SELECT * FROM a FULL OUTER JOIN b ON a.id = b.a_id",
		"SELECT * FROM a CROSS JOIN b",
		"SELECT * FROM a NATURAL JOIN b",
		"SELECT * FROM a JOIN b USING (id)",
		"SELECT * FROM a, b WHERE a.id = b.a_id",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			p := New(input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseWithCTE(t *testing.T) {
	input := `WITH active_users AS (
		SELECT id, name FROM users WHERE status = 'active'
	)
	SELECT * FROM active_users WHERE name LIKE 'A%'`

	p := New(input)
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		t.Fatalf("Expected SelectStmt, got %T", stmt)
	}

	if sel.With == nil {
		t.Fatal("Expected WITH clause")
	}

	if len(sel.With.CTEs) != 1 {
		t.Errorf("Expected 1 CTE, got %d", len(sel.With.CTEs))
	}
}

func TestParseWindowFunctions(t *testing.T) {
	tests := []string{
		"SELECT ROW_NUMBER() OVER () FROM t",
		"SELECT ROW_NUMBER() OVER (ORDER BY id) FROM t",
		"SELECT ROW_NUMBER() OVER (PARTITION BY type ORDER BY id) FROM t",
		"SELECT SUM(amount) OVER (PARTITION BY user_id) FROM orders",
		"SELECT AVG(price) OVER (ORDER BY date ROWS BETWEEN 1 PRECEDING AND 1 FOLLOWING) FROM prices",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			p := New(input)
			stmt, err := p.Parse()
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if stmt == nil {
				t.Fatal("Expected statement, got nil")
			}
		})
	}
}

func TestParseMerge(t *testing.T) {
	p := New(`MERGE INTO users u USING staged s ON u.id = s.id
WHEN MATCHED AND s.version > u.version THEN UPDATE SET email = s.email
WHEN NOT MATCHED THEN INSERT (id, email) VALUES (s.id, s.email)
WHEN NOT MATCHED BY SOURCE THEN DELETE`)
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	m := stmt.(*ast.MergeStmt)
	if len(m.Whens) != 3 {
		t.Fatalf("expected 3 WHEN clauses, got %d", len(m.Whens))
	}
	if !m.Whens[0].Matched || m.Whens[0].Condition == nil {
		t.Error("first WHEN should be MATCHED with an AND condition")
	}
	if _, ok := m.Whens[1].Action.(*ast.MergeInsert); !ok {
		t.Errorf("second WHEN should be INSERT, got %T", m.Whens[1].Action)
	}
	if !m.Whens[2].BySource {
		t.Error("third WHEN should be NOT MATCHED BY SOURCE")
	}
	if _, ok := m.Whens[2].Action.(*ast.MergeDelete); !ok {
		t.Errorf("third WHEN should be DELETE, got %T", m.Whens[2].Action)
	}
}

func TestParseMergeRequiresWhenClause(t *testing.T) {
	p := New("MERGE INTO t USING s ON t.id = s.id")
	if _, err := p.Parse(); err == nil {
		t.Fatal("expected an error for MERGE with no WHEN clause")
	}
}

func TestBetweenBindsTighterThanAnd(t *testing.T) {
	p := New("SELECT 1 BETWEEN 0 AND 2 AND TRUE")
	stmt, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	sel := stmt.(*ast.SelectStmt)
	top, ok := sel.Columns[0].(*ast.AliasedExpr).Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected top-level AND, got %T", sel.Columns[0].(*ast.AliasedExpr).Expr)
	}
	if top.Op != token.AND {
		t.Fatalf("expected AND at the top, got %v", top.Op)
	}
	between, ok := top.Left.(*ast.BetweenExpr)
	if !ok {
		t.Fatalf("expected BETWEEN on the left of AND, got %T", top.Left)
	}
	if between.Low.(*ast.Literal).Value != "0" || between.High.(*ast.Literal).Value != "2" {
		t.Errorf("BETWEEN bounds wrong: low=%v high=%v", between.Low, between.High)
	}
	if lit, ok := top.Right.(*ast.Literal); !ok || lit.Type != ast.LiteralBool {
		t.Errorf("expected TRUE on the right of AND, got %T", top.Right)
	}
}

func TestWildcardAllowedPositions(t *testing.T) {
	tests := []string{
		"SELECT * FROM users",
		"SELECT u.* FROM users u",
		"SELECT COUNT(*) FROM users",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			p := New(input)
			if _, err := p.Parse(); err != nil {
				t.Fatalf("Parse error: %v", err)
			}
		})
	}
}

func TestWildcardMisusePositionsRejected(t *testing.T) {
	tests := []string{
		"SELECT foo(1, *) FROM users",
		"SELECT 1 + * FROM users",
		"SELECT id FROM users WHERE id = *",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			p := New(input)
			_, err := p.Parse()
			if err == nil {
				t.Fatalf("expected a wildcard misuse error for %q", input)
			}
			se, ok := err.(*sqlerr.Error)
			if !ok {
				t.Fatalf("expected *sqlerr.Error, got %T", err)
			}
			if se.Code != sqlerr.CodeWildcardMisuse {
				t.Fatalf("expected CodeWildcardMisuse, got %s", se.Code)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	input := `SELECT u.id, u.name, COUNT(o.id) as order_count
FROM users u
LEFT JOIN orders o ON u.id = o.user_id
WHERE u.status = 'active'
  AND u.created_at BETWEEN '2024-01-01' AND '2024-12-31'
GROUP BY u.id, u.name
HAVING COUNT(o.id) > 5
ORDER BY order_count DESC
LIMIT 100`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		p := New(input)
		_, err := p.Parse()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseSimple(b *testing.B) {
	input := "SELECT * FROM users WHERE id = 1"

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		p := New(input)
		_, err := p.Parse()
		if err != nil {
			b.Fatal(err)
		}
	}
}
