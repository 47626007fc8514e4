package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BillingPeriod identifies a calendar month.
type BillingPeriod struct {
	Month time.Month
	Year  int
}

// String formats the period as YYYY-MM.
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Valid reports whether the month is in 1..12 and the year is positive.
func (p BillingPeriod) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.Year > 0
}

// Horse represents a shared-ownership asset billed in installments.
type Horse struct {
	ID int64

	Name        string
	Information string
	ImageURL    string

	// TotalValue is the price billed across all installments.
	TotalValue decimal.Decimal

	// InstallmentCount is the number of monthly installments.
	InstallmentCount int

	// BillingStart is the month billing is anchored to. The first installment
	// falls due in the month after it.
	BillingStart BillingPeriod

	// CreatedAt is the creation instant. Its day of month is the due day of
	// every installment, clamped to the length of the target month.
	CreatedAt time.Time

	// Archived hides the horse from listings without deleting its history.
	Archived bool

	UpdatedAt time.Time
}

// BuyerPercentage is one entry of a horse's buyer set.
type BuyerPercentage struct {
	BuyerID    int64
	Percentage decimal.Decimal
}

// HorseDetail is a horse together with its shares and schedule.
type HorseDetail struct {
	Horse        *Horse
	Shares       []*Share
	Installments []*Installment
	// Rows maps installment ID to its share rows.
	Rows map[int64][]*ShareInstallment
}
