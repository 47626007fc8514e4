package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of money-moving events.
type TransactionType string

const (
	// Income is a buyer's direct payment, credited to their share.
	Income TransactionType = "INGRESO"
	// Expense is a shared cost debited across the active shares.
	Expense TransactionType = "EGRESO"
	// Prize is income distributed across the active shares after the maturation window.
	Prize TransactionType = "PREMIO"
	// AdminPayment is recorded by an admin buyer and moves no balance.
	AdminPayment TransactionType = "PAGO"
)

// MaturationWindow is how long a PREMIO waits after its effective date.
const MaturationWindow = 31 * 24 * time.Hour

// Valid reports whether t is one of the four transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Prize, AdminPayment:
		return true
	}
	return false
}

// Transaction is one money-moving event.
type Transaction struct {
	ID   int64
	Type TransactionType

	Concept string
	Notes   string

	TotalAmount decimal.Decimal

	// HorseID and BuyerID are 0 when the type does not use them.
	HorseID int64
	BuyerID int64

	// Period is the billing month the transaction is reported under.
	Period BillingPeriod

	// Date is when the event happened.
	Date time.Time

	// PaymentDate is set on INGRESO.
	PaymentDate time.Time

	// EffectiveDate is set on PREMIO. Its effect starts MaturationWindow later.
	EffectiveDate time.Time

	// AppliedAt is set once a PREMIO's effect has been applied.
	AppliedAt time.Time

	// Paid is the per-buyer EGRESO acknowledgement, filled only by listings
	// that ask for a specific buyer.
	Paid bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaturesAt returns when a PREMIO's effect becomes due.
func (t *Transaction) MaturesAt() time.Time {
	return t.EffectiveDate.Add(MaturationWindow)
}

// Matured reports whether a PREMIO may be applied at now.
func (t *Transaction) Matured(now time.Time) bool {
	return !now.Before(t.MaturesAt())
}

// Applied reports whether a deferred effect has already been applied.
func (t *Transaction) Applied() bool {
	return !t.AppliedAt.IsZero()
}

// TransactionUpdate holds the fields an update may change. Nil means unchanged.
type TransactionUpdate struct {
	Type          *TransactionType
	Concept       *string
	Notes         *string
	TotalAmount   *decimal.Decimal
	HorseID       *int64
	BuyerID       *int64
	Period        *BillingPeriod
	Date          *time.Time
	PaymentDate   *time.Time
	EffectiveDate *time.Time

	// Paid with BuyerID on an EGRESO writes that buyer's ExpensePaidMark.
	Paid *bool
}

// Financial reports whether the update touches a field that changes the
// transaction's balance effect.
func (u TransactionUpdate) Financial() bool {
	return u.Type != nil || u.TotalAmount != nil || u.HorseID != nil ||
		u.BuyerID != nil || u.EffectiveDate != nil
}

// TransactionFilter narrows a transaction listing. Zero fields match everything.
type TransactionFilter struct {
	Month   time.Month
	Year    int
	HorseID int64
	Type    TransactionType
}

// Posting is the balance movement one transaction applied to one share.
// Amount is signed: positive credits, negative debits.
type Posting struct {
	ID            int64
	TransactionID int64
	ShareID       int64
	BuyerID       int64
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// ExpensePaidMark records whether a buyer has settled their part of an EGRESO.
type ExpensePaidMark struct {
	TransactionID int64
	BuyerID       int64
	Paid          bool
	UpdatedAt     time.Time
}
