package sqlval

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

var namedPlaceholder = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// execer is satisfied by both *sql.DB and *sql.Tx, letting Exec and ExecTx
// share one implementation.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Exec splits script into semicolon-separated statements and runs each in
// turn against db. For every statement it binds the named (":name")
// placeholders that appear in *that* statement from params; map entries
// with no matching placeholder in the statement are silently skipped.
// Any step result other than success stops execution immediately and
// returns an error that includes the offending statement with its
// parameters expanded for diagnostics.
func Exec(ctx context.Context, db *sql.DB, script string, params map[string]Value) error {
	return execScript(ctx, db, script, params)
}

// ExecTx is Exec run against an open transaction, for callers that need
// the statement group to commit atomically with other work (e.g. the HD
// root row and its four initial chain rows in a single transaction).
func ExecTx(ctx context.Context, tx *sql.Tx, script string, params map[string]Value) error {
	return execScript(ctx, tx, script, params)
}

func execScript(ctx context.Context, ex execer, script string, params map[string]Value) error {
	for _, stmt := range splitStatements(script) {
		args, names := bindArgs(stmt, params)
		if _, err := ex.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("sqlval: statement failed (%s): %w", expand(stmt, names, params), err)
		}
	}
	return nil
}

// splitStatements breaks a script into non-empty, semicolon-terminated
// statements. The wallet's schema and transaction scripts never embed a
// semicolon inside a string literal, so a plain split is sufficient.
func splitStatements(script string) []string {
	raw := strings.Split(script, ";")
	stmts := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts
}

// bindArgs finds the named placeholders present in stmt and returns the
// sql.NamedArg list bound from params, along with the ordered list of
// names used (for diagnostics).
func bindArgs(stmt string, params map[string]Value) ([]any, []string) {
	matches := namedPlaceholder.FindAllStringSubmatch(stmt, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	var args []any
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := params[name]
		if !ok {
			continue
		}
		names = append(names, name)
		args = append(args, sql.Named(name, v.Arg()))
	}
	return args, names
}

func expand(stmt string, names []string, params map[string]Value) string {
	expanded := stmt
	for _, name := range names {
		expanded = strings.ReplaceAll(expanded, ":"+name, params[name].String())
	}
	return expanded
}
