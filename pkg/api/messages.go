package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyerService

type CreateBuyerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	DNI     string `json:"dni,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

type CreateBuyerResponse struct {
	Buyer *Buyer `json:"buyer"`
}

type GetBuyerRequest struct {
	ID int64 `json:"id"`
}

type GetBuyerResponse struct {
	Buyer *Buyer `json:"buyer"`
}

type ListBuyersRequest struct{}

type ListBuyersResponse struct {
	Buyers []*Buyer `json:"buyers"`
}

// UpdateBuyerRequest changes the fields that are set.
type UpdateBuyerRequest struct {
	ID      int64   `json:"id"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	DNI     *string `json:"dni,omitempty"`
	IsAdmin *bool   `json:"is_admin,omitempty"`
}

type UpdateBuyerResponse struct {
	Buyer *Buyer `json:"buyer"`
}

type DeleteBuyerRequest struct {
	ID int64 `json:"id"`
}

type DeleteBuyerResponse struct{}

type GetBuyerBalanceRequest struct {
	ID int64 `json:"id"`
}

type GetBuyerBalanceResponse struct {
	Balance *BuyerBalance `json:"balance"`
}

// HorseService

type CreateHorseRequest struct {
	Name             string             `json:"name"`
	Information      string             `json:"information,omitempty"`
	ImageURL         string             `json:"image_url,omitempty"`
	TotalValue       decimal.Decimal    `json:"total_value"`
	InstallmentCount int                `json:"installment_count"`
	BillingMonth     int                `json:"billing_month"`
	BillingYear      int                `json:"billing_year"`
	Buyers           []*BuyerPercentage `json:"buyers"`
}

type CreateHorseResponse struct {
	Horse *Horse `json:"horse"`
}

type GetHorseRequest struct {
	ID int64 `json:"id"`
}

type GetHorseResponse struct {
	Horse        *Horse             `json:"horse"`
	Shares       []*Share           `json:"shares"`
	Installments []*InstallmentRows `json:"installments"`
}

type ListHorsesRequest struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type ListHorsesResponse struct {
	Horses []*Horse `json:"horses"`
}

// UpdateHorseRequest changes the fields that are set. Buyers, when present,
// replaces the whole buyer set; billing month and year must be sent together.
type UpdateHorseRequest struct {
	ID               int64              `json:"id"`
	Name             *string            `json:"name,omitempty"`
	Information      *string            `json:"information,omitempty"`
	ImageURL         *string            `json:"image_url,omitempty"`
	TotalValue       *decimal.Decimal   `json:"total_value,omitempty"`
	InstallmentCount *int               `json:"installment_count,omitempty"`
	BillingMonth     *int               `json:"billing_month,omitempty"`
	BillingYear      *int               `json:"billing_year,omitempty"`
	Archived         *bool              `json:"archived,omitempty"`
	Buyers           []*BuyerPercentage `json:"buyers,omitempty"`
}

type UpdateHorseResponse struct {
	Horse *Horse `json:"horse"`
}

type DeleteHorseRequest struct {
	ID int64 `json:"id"`
}

type DeleteHorseResponse struct {
	Deleted bool `json:"deleted"`
}

type AddShareRequest struct {
	HorseID    int64           `json:"horse_id"`
	BuyerID    int64           `json:"buyer_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

type AddShareResponse struct {
	Share *Share `json:"share"`
}

type UpdateShareRequest struct {
	ID         int64           `json:"id"`
	Percentage decimal.Decimal `json:"percentage"`
}

type UpdateShareResponse struct {
	Share *Share `json:"share"`
}

type RemoveShareRequest struct {
	ID int64 `json:"id"`
}

type RemoveShareResponse struct{}

// TransactionService

type CreateTransactionRequest struct {
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
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type GetTransactionRequest struct {
	ID int64 `json:"id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

// ListTransactionsRequest filters by the fields that are non-zero. BuyerID
// fills the paid flag of each EGRESO for that buyer.
type ListTransactionsRequest struct {
	Month   int    `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
	HorseID int64  `json:"horse_id,omitempty"`
	Type    string `json:"type,omitempty"`
	BuyerID int64  `json:"buyer_id,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// UpdateTransactionRequest changes the fields that are set. Financial fields
// need Revert. Paid with BuyerID sets that buyer's EGRESO mark.
type UpdateTransactionRequest struct {
	ID            int64            `json:"id"`
	Revert        bool             `json:"revert,omitempty"`
	Type          *string          `json:"type,omitempty"`
	Concept       *string          `json:"concept,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	HorseID       *int64           `json:"horse_id,omitempty"`
	BuyerID       *int64           `json:"buyer_id,omitempty"`
	Month         *int             `json:"month,omitempty"`
	Year          *int             `json:"year,omitempty"`
	Date          *time.Time       `json:"date,omitempty"`
	PaymentDate   *time.Time       `json:"payment_date,omitempty"`
	EffectiveDate *time.Time       `json:"effective_date,omitempty"`
	Paid          *bool            `json:"paid,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	ID int64 `json:"id"`
}

type DeleteTransactionResponse struct{}

type MarkExpensePaidRequest struct {
	TransactionID int64 `json:"transaction_id"`
	BuyerID       int64 `json:"buyer_id"`
}

type MarkExpensePaidResponse struct {
	Paid bool `json:"paid"`
}

type ProcessQueueRequest struct{}

type ProcessQueueResponse struct {
	Result *SweepResult `json:"result"`
}

// InstallmentService

type ListInstallmentsRequest struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type ListInstallmentsResponse struct {
	Installments []*Installment `json:"installments"`
}

type ListShareInstallmentsRequest struct {
	ShareID int64 `json:"share_id"`
	Month   int   `json:"month,omitempty"`
	Year    int   `json:"year,omitempty"`
}

type ListShareInstallmentsResponse struct {
	Rows []*ShareInstallment `json:"rows"`
}

type PayInstallmentRequest struct {
	ShareInstallmentID int64           `json:"share_installment_id"`
	Amount             decimal.Decimal `json:"amount"`
	CreditBalance      bool            `json:"credit_balance,omitempty"`
}

type PayInstallmentResponse struct {
	Row *ShareInstallment `json:"row"`
}

type CheckOverdueRequest struct{}

type CheckOverdueResponse struct {
	Result *SweepResult `json:"result"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Operator *Operator `json:"operator"`
	Token    string    `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Operator *Operator `json:"operator"`
	Token    string    `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentOperatorRequest struct{}

type GetCurrentOperatorResponse struct {
	Operator *Operator `json:"operator"`
}
