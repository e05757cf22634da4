package sqlval

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openMemDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecCreatesSchemaAcrossStatements(t *testing.T) {
	db := openMemDB(t)

	script := `
		CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT);
		CREATE TABLE gizmos (id INTEGER PRIMARY KEY, widget_id INTEGER);
	`
	if err := Exec(context.Background(), db, script, nil); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	for _, table := range []string{"widgets", "gizmos"} {
		var name string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestExecBindsNamedParamsPerStatement(t *testing.T) {
	db := openMemDB(t)

	if err := Exec(context.Background(), db, "CREATE TABLE t (a TEXT, b INTEGER)", nil); err != nil {
		t.Fatal(err)
	}

	script := "INSERT INTO t (a, b) VALUES (:a, :b)"
	params := map[string]Value{
		"a": Text("hello"),
		"b": Integer(42),
	}
	if err := Exec(context.Background(), db, script, params); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	var a string
	var b int64
	if err := db.QueryRow("SELECT a, b FROM t").Scan(&a, &b); err != nil {
		t.Fatal(err)
	}
	if a != "hello" || b != 42 {
		t.Errorf("got (%q, %d), want (\"hello\", 42)", a, b)
	}
}

func TestExecSkipsUnusedParams(t *testing.T) {
	db := openMemDB(t)

	script := `
		CREATE TABLE t (a TEXT);
		INSERT INTO t (a) VALUES (:a);
	`
	params := map[string]Value{
		"a": Text("only-used-here"),
		"b": Integer(999), // not referenced by any statement
	}
	if err := Exec(context.Background(), db, script, params); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
}

func TestExecStopsOnFirstFailure(t *testing.T) {
	db := openMemDB(t)

	script := `
		CREATE TABLE t (a TEXT);
		INSERT INTO nonexistent (a) VALUES ('x');
		CREATE TABLE never_reached (a TEXT);
	`
	err := Exec(context.Background(), db, script, nil)
	if err == nil {
		t.Fatal("expected error from failing statement")
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='never_reached'").Scan(&name)
	if err != sql.ErrNoRows {
		t.Errorf("expected never_reached table to not exist, got err=%v", err)
	}
}

func TestExecNullBlobBool(t *testing.T) {
	db := openMemDB(t)
	if err := Exec(context.Background(), db, "CREATE TABLE t (n TEXT, bl BLOB, bo INTEGER)", nil); err != nil {
		t.Fatal(err)
	}
	params := map[string]Value{
		"n":  Null(),
		"bl": Blob([]byte{0xde, 0xad, 0xbe, 0xef}),
		"bo": Bool(true),
	}
	if err := Exec(context.Background(), db, "INSERT INTO t (n, bl, bo) VALUES (:n, :bl, :bo)", params); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	var n sql.NullString
	var bl []byte
	var bo bool
	if err := db.QueryRow("SELECT n, bl, bo FROM t").Scan(&n, &bl, &bo); err != nil {
		t.Fatal(err)
	}
	if n.Valid {
		t.Errorf("expected NULL, got %q", n.String)
	}
	if len(bl) != 4 || bl[0] != 0xde {
		t.Errorf("blob mismatch: %x", bl)
	}
	if !bo {
		t.Error("expected bo = true")
	}
}
