package ledger

import (
	"context"
	"net/mail"
	"strings"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// BuyerUpdate holds buyer fields to change. Nil means unchanged.
type BuyerUpdate struct {
	Name    *string
	Email   *string
	DNI     *string
	IsAdmin *bool
}

func normalizeBuyer(b *models.Buyer) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.DNI = strings.TrimSpace(b.DNI)
	if b.Name == "" {
		return apperr.Validation("buyer name is required")
	}
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return apperr.Validation("invalid email %q", b.Email)
	}
	return nil
}

func ensureEmailFree(ctx context.Context, tx storage.Tx, email string, selfID int64) error {
	other, err := tx.GetBuyerByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return apperr.Validation("email %s is already registered", email)
	}
	return nil
}

// CreateBuyer registers a buyer with a zero balance.
func (e *Engine) CreateBuyer(ctx context.Context, b *models.Buyer) (*models.Buyer, error) {
	if err := normalizeBuyer(b); err != nil {
		return nil, err
	}
	b.CreatedAt = e.now()
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		if err := ensureEmailFree(ctx, tx, b.Email, 0); err != nil {
			return err
		}
		return tx.CreateBuyer(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBuyer returns one buyer with its current balance, or a NotFound error.
func (e *Engine) GetBuyer(ctx context.Context, id int64) (*models.Buyer, error) {
	var b *models.Buyer
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		b, err = tx.GetBuyer(ctx, id)
		return err
	})
	return b, err
}

// ListBuyers returns every buyer ordered by name.
func (e *Engine) ListBuyers(ctx context.Context) ([]*models.Buyer, error) {
	var out []*models.Buyer
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListBuyers(ctx)
		return err
	})
	return out, err
}

// UpdateBuyer changes a buyer's descriptive fields. The balance only moves
// through the ledger.
func (e *Engine) UpdateBuyer(ctx context.Context, id int64, upd BuyerUpdate) (*models.Buyer, error) {
	var b *models.Buyer
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		b, err = tx.GetBuyer(ctx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			b.Name = *upd.Name
		}
		if upd.Email != nil {
			b.Email = *upd.Email
		}
		if upd.DNI != nil {
			b.DNI = *upd.DNI
		}
		if upd.IsAdmin != nil {
			b.IsAdmin = *upd.IsAdmin
		}
		if err := normalizeBuyer(b); err != nil {
			return err
		}
		if err := ensureEmailFree(ctx, tx, b.Email, b.ID); err != nil {
			return err
		}
		return tx.UpdateBuyer(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBuyer removes a buyer that holds no active share.
func (e *Engine) DeleteBuyer(ctx context.Context, id int64) error {
	return e.store.Atomic(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetBuyer(ctx, id); err != nil {
			return err
		}
		shares, err := tx.ListSharesByBuyer(ctx, id)
		if err != nil {
			return err
		}
		for _, sh := range shares {
			if sh.Active {
				return apperr.Validation("buyer %d still holds an active share of horse %d", id, sh.HorseID)
			}
		}
		return tx.DeleteBuyer(ctx, id)
	})
}

// BuyerBalance summarizes a buyer's running balance, outstanding installments,
// payments and per-horse share balances.
func (e *Engine) BuyerBalance(ctx context.Context, id int64) (models.BuyerBalance, error) {
	var in calculator.BalanceInput
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		if in.Buyer, err = tx.GetBuyer(ctx, id); err != nil {
			return err
		}
		if in.Shares, err = tx.ListSharesByBuyer(ctx, id); err != nil {
			return err
		}
		if in.Rows, err = tx.ListShareInstallmentsByBuyer(ctx, id); err != nil {
			return err
		}
		in.Payments, err = tx.ListPaymentsByBuyer(ctx, id)
		return err
	})
	if err != nil {
		return models.BuyerBalance{}, err
	}
	return calculator.SummarizeBuyer(in), nil
}
