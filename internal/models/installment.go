package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a ShareInstallment.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
	StatusOverdue PaymentStatus = "OVERDUE"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// DeriveStatus returns PAID when paid covers amount, PARTIAL when something was
// paid, PENDING otherwise. OVERDUE is only ever set by the overdue sweep.
func DeriveStatus(amount, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Installment is one billing period of a horse.
type Installment struct {
	ID      int64
	HorseID int64

	// Number is 1-based and unique per horse.
	Number int

	DueDate time.Time

	// Amount is TotalValue / InstallmentCount rounded to cents.
	Amount decimal.Decimal

	// Period is the month and year of DueDate.
	Period BillingPeriod

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Frozen reports whether the installment is already due at now. Frozen
// installments are never touched by reconciliation.
func (i *Installment) Frozen(now time.Time) bool {
	return i.DueDate.Before(now)
}

// ShareInstallment is one buyer's prorated part of an installment.
type ShareInstallment struct {
	ID            int64
	ShareID       int64
	InstallmentID int64

	Amount     decimal.Decimal
	AmountPaid decimal.Decimal
	Status     PaymentStatus

	// LastPaymentAt is zero until the first payment.
	LastPaymentAt time.Time

	Period BillingPeriod

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns the unpaid part of the row.
func (si *ShareInstallment) Remaining() decimal.Decimal {
	return si.Amount.Sub(si.AmountPaid)
}

// Refresh re-derives the status from Amount and AmountPaid.
func (si *ShareInstallment) Refresh() {
	si.Status = DeriveStatus(si.Amount, si.AmountPaid)
}

// Payment records one settlement against a ShareInstallment.
type Payment struct {
	ID                 int64
	ShareInstallmentID int64
	BuyerID            int64

	// TransactionID is 0 when the payment was not caused by a transaction.
	TransactionID int64

	Amount decimal.Decimal
	PaidAt time.Time
}
