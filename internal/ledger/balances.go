package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webcash-project/walletcore/internal/hdkey"
	"github.com/webcash-project/walletcore/internal/webcash"
)

// Balance is one (category, spent) bucket's total, from a balance query
// that reads the output table joined to secret.
type Balance struct {
	Category string // hdkey.Category name, or "untracked" if the output's secret is unknown
	Spent    bool
	Total    webcash.Amount
	Count    int64
}

// Balances groups every output by its secret's category and spent flag,
// summing amounts per bucket. An output whose secret_id is NULL (tracked
// without the wallet holding the preimage) falls into "untracked".
func Balances(ctx context.Context, db *sql.DB) ([]Balance, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT s.mine, s.sweep, o.spent, COALESCE(SUM(o.amount), 0), COUNT(*)
		FROM output o
		LEFT JOIN secret s ON s.id = o.secret_id
		GROUP BY s.mine, s.sweep, o.spent
	`)
	if err != nil {
		return nil, fmt.Errorf("ledger: balances: %w", err)
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var mine, sweep sql.NullBool
		var spent bool
		var total int64
		var count int64
		if err := rows.Scan(&mine, &sweep, &spent, &total, &count); err != nil {
			return nil, fmt.Errorf("ledger: scan balance: %w", err)
		}
		category := "untracked"
		if mine.Valid && sweep.Valid {
			category = hdkey.CategoryOf(mine.Bool, sweep.Bool).Name()
		}
		balances = append(balances, Balance{
			Category: category,
			Spent:    spent,
			Total:    webcash.Amount(total),
			Count:    count,
		})
	}
	return balances, rows.Err()
}
