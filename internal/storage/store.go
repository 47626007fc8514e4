// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/models"
)

// Store is the handle the ledger works through.
// This abstraction allows swapping storage backends without changing the ledger.
type Store interface {
	// Atomic runs fn inside one all-or-nothing scope. The scope commits when fn
	// returns nil and rolls back otherwise. Failures that are not domain errors
	// come back as *apperr.StorageError.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	// Backup writes a consistent copy of the database to dest.
	Backup(ctx context.Context, dest string) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is an open atomic scope. It must not be used after the function that
// received it returns.
type Tx interface {
	// Atomic opens a nested scope. On success the nested writes are kept but
	// not committed; on failure only they are undone and the error is returned
	// so the enclosing scope can decide.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	BuyerRepository
	HorseRepository
	ShareRepository
	InstallmentRepository
	PaymentRepository
	TransactionRepository
}

// BuyerRepository stores buyers.
type BuyerRepository interface {
	// CreateBuyer persists a new buyer and sets buyer.ID.
	CreateBuyer(ctx context.Context, buyer *models.Buyer) error

	// GetBuyer returns *apperr.NotFoundError when the buyer does not exist.
	GetBuyer(ctx context.Context, id int64) (*models.Buyer, error)

	// GetBuyerByEmail returns nil, nil when no buyer has that email.
	GetBuyerByEmail(ctx context.Context, email string) (*models.Buyer, error)

	ListBuyers(ctx context.Context) ([]*models.Buyer, error)

	// UpdateBuyer writes the descriptive fields. The balance is not touched.
	UpdateBuyer(ctx context.Context, buyer *models.Buyer) error

	DeleteBuyer(ctx context.Context, id int64) error

	// AdjustBuyerBalance adds delta to the buyer's balance.
	AdjustBuyerBalance(ctx context.Context, id int64, delta decimal.Decimal) error
}

// HorseRepository stores horses.
type HorseRepository interface {
	CreateHorse(ctx context.Context, horse *models.Horse) error
	GetHorse(ctx context.Context, id int64) (*models.Horse, error)
	ListHorses(ctx context.Context, includeArchived bool) ([]*models.Horse, error)
	UpdateHorse(ctx context.Context, horse *models.Horse) error

	// DeleteHorse removes the horse together with its shares, installments,
	// share installments and payments.
	DeleteHorse(ctx context.Context, id int64) error
}

// ShareRepository stores ownership shares.
type ShareRepository interface {
	CreateShare(ctx context.Context, share *models.Share) error
	GetShare(ctx context.Context, id int64) (*models.Share, error)

	// FindShare returns nil, nil when the buyer never held a share of the horse.
	FindShare(ctx context.Context, horseID, buyerID int64) (*models.Share, error)

	// ListShares returns every share of a horse, active or not, ordered by ID.
	ListShares(ctx context.Context, horseID int64) ([]*models.Share, error)
	ListActiveShares(ctx context.Context, horseID int64) ([]*models.Share, error)
	ListSharesByBuyer(ctx context.Context, buyerID int64) ([]*models.Share, error)

	// UpdateShare writes percentage and active. The balance is not touched.
	UpdateShare(ctx context.Context, share *models.Share) error

	AdjustShareBalance(ctx context.Context, id int64, delta decimal.Decimal) error
}

// InstallmentRepository stores installments and their per-share rows.
type InstallmentRepository interface {
	CreateInstallment(ctx context.Context, inst *models.Installment) error
	GetInstallment(ctx context.Context, id int64) (*models.Installment, error)

	// ListInstallments returns a horse's installments ordered by number.
	ListInstallments(ctx context.Context, horseID int64) ([]*models.Installment, error)

	// ListInstallmentsByPeriod lists installments of every horse due in the
	// given period. A zero period matches all installments.
	ListInstallmentsByPeriod(ctx context.Context, period models.BillingPeriod) ([]*models.Installment, error)

	UpdateInstallment(ctx context.Context, inst *models.Installment) error
	DeleteInstallment(ctx context.Context, id int64) error

	CreateShareInstallment(ctx context.Context, si *models.ShareInstallment) error
	GetShareInstallment(ctx context.Context, id int64) (*models.ShareInstallment, error)
	ListShareInstallmentsByInstallment(ctx context.Context, installmentID int64) ([]*models.ShareInstallment, error)

	// ListShareInstallmentsByShare lists a share's rows, optionally narrowed to
	// one period. A zero period matches all rows.
	ListShareInstallmentsByShare(ctx context.Context, shareID int64, period models.BillingPeriod) ([]*models.ShareInstallment, error)
	ListShareInstallmentsByBuyer(ctx context.Context, buyerID int64) ([]*models.ShareInstallment, error)

	// UpdateShareInstallment writes amount, amount paid, status and last payment time.
	UpdateShareInstallment(ctx context.Context, si *models.ShareInstallment) error
	DeleteShareInstallment(ctx context.Context, id int64) error

	// ListOverdueCandidates returns the IDs of PENDING rows whose installment
	// is due before now.
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]int64, error)
}

// PaymentRepository stores installment payments.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPaymentsByBuyer(ctx context.Context, buyerID int64) ([]*models.Payment, error)
	ListPaymentsByShareInstallment(ctx context.Context, siID int64) ([]*models.Payment, error)
}

// TransactionRepository stores transactions, their postings and expense marks.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)

	// UpdateTransaction writes every field including AppliedAt.
	UpdateTransaction(ctx context.Context, t *models.Transaction) error

	// DeleteTransaction removes the transaction with its postings and marks.
	DeleteTransaction(ctx context.Context, id int64) error

	// ListMaturedPrizes returns the IDs of unapplied PREMIO transactions whose
	// effective date is at or before cutoff, oldest first.
	ListMaturedPrizes(ctx context.Context, cutoff time.Time) ([]int64, error)

	CreatePosting(ctx context.Context, p *models.Posting) error
	ListPostings(ctx context.Context, transactionID int64) ([]*models.Posting, error)
	DeletePostings(ctx context.Context, transactionID int64) error

	SetExpensePaid(ctx context.Context, mark *models.ExpensePaidMark) error
	DeleteExpenseMarks(ctx context.Context, transactionID int64) error

	// ExpensePaid returns false when no mark exists.
	ExpensePaid(ctx context.Context, transactionID, buyerID int64) (bool, error)
}
