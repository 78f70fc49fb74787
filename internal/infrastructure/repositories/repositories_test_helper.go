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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		available_balance NUMERIC NOT NULL DEFAULT 0,
		pending_balance NUMERIC NOT NULL DEFAULT 0,
		pix_key TEXT,
		pix_key_type TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWalletTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		type TEXT NOT NULL,
		bucket TEXT NOT NULL,
		description TEXT,
		gateway_reference TEXT,
		invoice_id TEXT,
		participant_id TEXT,
		payout_id TEXT,
		reason TEXT,
		settled_at DATETIME,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX ux_wallet_gateway_ref
		ON wallet_transactions (wallet_id, gateway_reference, type);`)
}

func createPayoutTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payouts (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		pix_key TEXT NOT NULL,
		pix_key_type TEXT NOT NULL,
		status TEXT NOT NULL,
		proof_url TEXT,
		transfer_reference TEXT,
		rejection_reason TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'USER',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	createWalletTable(t, db)
	createWalletTransactionTable(t, db)
	createPayoutTable(t, db)
}
