package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Buyer represents an investor holding shares of one or more horses.
type Buyer struct {
	// ID is the store-assigned identifier.
	ID int64

	// Name is the display name of the buyer.
	Name string

	// Email is unique across buyers.
	Email string

	// DNI is the optional national identity number.
	DNI string

	// IsAdmin allows the buyer to record PAGO transactions.
	IsAdmin bool

	// Balance is the running balance. Only the ledger changes it.
	// Positive = credit in favour of the buyer, negative = owes money.
	Balance decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Share is the ownership relation between one buyer and one horse.
type Share struct {
	ID      int64
	HorseID int64
	BuyerID int64

	// Percentage is in (0, 100].
	Percentage decimal.Decimal

	// Active shares take part in billing and transaction effects.
	// Inactive shares keep their history after a buyer leaves a horse.
	Active bool

	// Balance is the share's running balance, moved together with the buyer balance.
	Balance decimal.Decimal

	JoinedAt  time.Time
	UpdatedAt time.Time
}

// BuyerBalance summarizes one buyer's financial position.
type BuyerBalance struct {
	BuyerID int64

	// Current is the buyer's running balance.
	Current decimal.Decimal

	// Outstanding is the unpaid part of all PENDING, PARTIAL and OVERDUE rows.
	Outstanding decimal.Decimal

	// TotalPaid is the sum of every recorded installment payment.
	TotalPaid decimal.Decimal

	// Horses holds the per-share balance for each horse the buyer owns part of.
	Horses []HorseBalance
}

// HorseBalance is one share balance inside a BuyerBalance.
type HorseBalance struct {
	HorseID    int64
	ShareID    int64
	Percentage decimal.Decimal
	Active     bool
	Balance    decimal.Decimal
}
