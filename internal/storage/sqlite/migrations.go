package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Money and percentages are decimal TEXT, instants are unix seconds.
// Tables are ordered so every foreign key target exists first.
const schema = `
CREATE TABLE IF NOT EXISTS buyers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    dni TEXT NOT NULL DEFAULT '',
    is_admin INTEGER NOT NULL DEFAULT 0,
    balance TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS horses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    information TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    total_value TEXT NOT NULL,
    installment_count INTEGER NOT NULL CHECK (installment_count >= 0),
    billing_start_month INTEGER NOT NULL CHECK (billing_start_month BETWEEN 1 AND 12),
    billing_start_year INTEGER NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS shares (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    horse_id INTEGER NOT NULL,
    buyer_id INTEGER NOT NULL,
    percentage TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    balance TEXT NOT NULL DEFAULT '0',
    joined_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (horse_id, buyer_id),
    FOREIGN KEY (horse_id) REFERENCES horses(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES buyers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS installments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    horse_id INTEGER NOT NULL,
    number INTEGER NOT NULL,
    due_date INTEGER NOT NULL,
    amount TEXT NOT NULL,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (horse_id, number),
    FOREIGN KEY (horse_id) REFERENCES horses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS share_installments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    share_id INTEGER NOT NULL,
    installment_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    amount_paid TEXT NOT NULL DEFAULT '0',
    status TEXT NOT NULL CHECK (status IN ('PENDING', 'PARTIAL', 'PAID', 'OVERDUE')),
    last_payment_at INTEGER,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (share_id, installment_id),
    FOREIGN KEY (share_id) REFERENCES shares(id) ON DELETE CASCADE,
    FOREIGN KEY (installment_id) REFERENCES installments(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL CHECK (type IN ('INGRESO', 'EGRESO', 'PREMIO', 'PAGO')),
    concept TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    total_amount TEXT NOT NULL,
    horse_id INTEGER,
    buyer_id INTEGER,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    date INTEGER NOT NULL,
    payment_date INTEGER,
    effective_date INTEGER,
    applied_at INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (horse_id) REFERENCES horses(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES buyers(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    share_installment_id INTEGER NOT NULL,
    buyer_id INTEGER NOT NULL,
    transaction_id INTEGER,
    amount TEXT NOT NULL,
    paid_at INTEGER NOT NULL,
    FOREIGN KEY (share_installment_id) REFERENCES share_installments(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES buyers(id) ON DELETE CASCADE,
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS postings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_id INTEGER NOT NULL,
    share_id INTEGER NOT NULL,
    buyer_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE,
    FOREIGN KEY (share_id) REFERENCES shares(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES buyers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_marks (
    transaction_id INTEGER NOT NULL,
    buyer_id INTEGER NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (transaction_id, buyer_id),
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES buyers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS operators (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL,
    event_metadata TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shares_horse_id ON shares(horse_id);
CREATE INDEX IF NOT EXISTS idx_shares_buyer_id ON shares(buyer_id);
CREATE INDEX IF NOT EXISTS idx_installments_period ON installments(year, month);
CREATE INDEX IF NOT EXISTS idx_installments_due_date ON installments(due_date);
CREATE INDEX IF NOT EXISTS idx_share_installments_installment_id ON share_installments(installment_id);
CREATE INDEX IF NOT EXISTS idx_share_installments_status ON share_installments(status);
CREATE INDEX IF NOT EXISTS idx_payments_buyer_id ON payments(buyer_id);
CREATE INDEX IF NOT EXISTS idx_transactions_period ON transactions(year, month);
CREATE INDEX IF NOT EXISTS idx_transactions_horse_id ON transactions(horse_id);
CREATE INDEX IF NOT EXISTS idx_transactions_pending_prize ON transactions(type, applied_at);
CREATE INDEX IF NOT EXISTS idx_postings_transaction_id ON postings(transaction_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
