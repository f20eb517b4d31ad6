package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createLoyaltyWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE loyalty_wallets (
		id TEXT PRIMARY KEY,
		customer_id TEXT UNIQUE NOT NULL,
		points_balance INTEGER NOT NULL DEFAULT 0,
		lifetime_earned INTEGER NOT NULL DEFAULT 0,
		lifetime_redeemed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLoyaltyTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE loyalty_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		delta INTEGER NOT NULL,
		reason TEXT NOT NULL,
		order_id TEXT,
		note TEXT,
		created_at DATETIME
	);`)
}

// createLoyaltyTransactionTableLegacy mimics deployments that predate the
// note column migration.
func createLoyaltyTransactionTableLegacy(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE loyalty_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		delta INTEGER NOT NULL,
		reason TEXT NOT NULL,
		order_id TEXT,
		created_at DATETIME
	);`)
}

func createStoreCreditTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE store_credits (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		transaction_id TEXT UNIQUE NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		status TEXT NOT NULL,
		applied_order_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	createLoyaltyWalletTable(t, db)
	createLoyaltyTransactionTable(t, db)
}
