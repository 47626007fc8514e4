// Package api holds the JSON messages of the horses.v1 RPC services.
//
// Amounts and percentages travel as decimal strings. Instants are RFC 3339 and
// omitted when unset.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Buyer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	DNI       string          `json:"dni,omitempty"`
	IsAdmin   bool            `json:"is_admin"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at,omitzero"`
}

type Share struct {
	ID         int64           `json:"id"`
	HorseID    int64           `json:"horse_id"`
	BuyerID    int64           `json:"buyer_id"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
	Balance    decimal.Decimal `json:"balance"`
	JoinedAt   time.Time       `json:"joined_at,omitzero"`
}

type Horse struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Information      string          `json:"information,omitempty"`
	ImageURL         string          `json:"image_url,omitempty"`
	TotalValue       decimal.Decimal `json:"total_value"`
	InstallmentCount int             `json:"installment_count"`
	BillingMonth     int             `json:"billing_month"`
	BillingYear      int             `json:"billing_year"`
	Archived         bool            `json:"archived"`
	CreatedAt        time.Time       `json:"created_at,omitzero"`
}

type Installment struct {
	ID      int64           `json:"id"`
	HorseID int64           `json:"horse_id"`
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Month   int             `json:"month"`
	Year    int             `json:"year"`
}

type ShareInstallment struct {
	ID            int64           `json:"id"`
	ShareID       int64           `json:"share_id"`
	InstallmentID int64           `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Status        string          `json:"status"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	LastPaymentAt time.Time       `json:"last_payment_at,omitzero"`
}

// InstallmentRows is one installment with its per-share rows.
type InstallmentRows struct {
	Installment *Installment        `json:"installment"`
	Rows        []*ShareInstallment `json:"rows"`
}

type Transaction struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Concept       string          `json:"concept,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	HorseID       int64           `json:"horse_id,omitempty"`
	BuyerID       int64           `json:"buyer_id,omitempty"`
	Month         int             `json:"month,omitempty"`
	Year          int             `json:"year,omitempty"`
	Date          time.Time       `json:"date,omitzero"`
	PaymentDate   time.Time       `json:"payment_date,omitzero"`
	EffectiveDate time.Time       `json:"effective_date,omitzero"`
	AppliedAt     time.Time       `json:"applied_at,omitzero"`
	Paid          bool            `json:"paid,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
}

type BuyerPercentage struct {
	BuyerID    int64           `json:"buyer_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

type HorseBalance struct {
	HorseID    int64           `json:"horse_id"`
	ShareID    int64           `json:"share_id"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
	Balance    decimal.Decimal `json:"balance"`
}

type BuyerBalance struct {
	BuyerID     int64           `json:"buyer_id"`
	Current     decimal.Decimal `json:"current"`
	Outstanding decimal.Decimal `json:"outstanding"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Horses      []*HorseBalance `json:"horses"`
}

type SweepResult struct {
	Selected  int `json:"selected"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type Operator struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}
