package ledger

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// HorseInput describes a new horse and its initial buyers.
type HorseInput struct {
	Name             string
	Information      string
	ImageURL         string
	TotalValue       decimal.Decimal
	InstallmentCount int
	BillingStart     models.BillingPeriod
	Buyers           []models.BuyerPercentage
}

// HorseUpdate holds the horse fields to change. Nil means unchanged; a nil
// Buyers leaves ownership alone.
type HorseUpdate struct {
	Name             *string
	Information      *string
	ImageURL         *string
	TotalValue       *decimal.Decimal
	InstallmentCount *int
	BillingStart     *models.BillingPeriod
	Archived         *bool
	Buyers           []models.BuyerPercentage
}

func validateTerms(total decimal.Decimal, count int, start models.BillingPeriod) error {
	if total.IsNegative() {
		return apperr.Validation("total value cannot be negative")
	}
	if !total.Equal(calculator.Round(total)) {
		return apperr.Validation("total value %s has more than two decimals", total)
	}
	if count < 0 {
		return apperr.Validation("installment count cannot be negative")
	}
	if !start.Valid() {
		return apperr.Validation("invalid billing start %s", start)
	}
	return nil
}

// CreateHorseWithBuyers creates a horse, its shares and its full schedule in
// one scope. The buyer percentages must total 100.
func (e *Engine) CreateHorseWithBuyers(ctx context.Context, in HorseInput) (*models.Horse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("horse name is required")
	}
	if err := validateTerms(in.TotalValue, in.InstallmentCount, in.BillingStart); err != nil {
		return nil, err
	}
	if err := calculator.ValidateBuyerSet(in.Buyers); err != nil {
		return nil, err
	}

	now := e.now()
	horse := &models.Horse{
		Name:             strings.TrimSpace(in.Name),
		Information:      in.Information,
		ImageURL:         in.ImageURL,
		TotalValue:       in.TotalValue,
		InstallmentCount: in.InstallmentCount,
		BillingStart:     in.BillingStart,
		CreatedAt:        now,
	}

	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		for _, b := range in.Buyers {
			if _, err := tx.GetBuyer(ctx, b.BuyerID); err != nil {
				return err
			}
		}
		if err := tx.CreateHorse(ctx, horse); err != nil {
			return err
		}
		for _, b := range in.Buyers {
			share := &models.Share{HorseID: horse.ID, BuyerID: b.BuyerID, Percentage: b.Percentage, Active: true, JoinedAt: now}
			if err := tx.CreateShare(ctx, share); err != nil {
				return err
			}
		}
		return tx.Atomic(ctx, func(inner storage.Tx) error {
			return generateSchedule(ctx, inner, horse)
		})
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.HorseCreated, horse, "name", horse.Name)
	return horse, nil
}

// UpdateHorseAndBuyers changes a horse and, when Buyers is set, replaces its
// buyer set. The not-yet-due schedule is reconciled afterwards.
func (e *Engine) UpdateHorseAndBuyers(ctx context.Context, id int64, upd HorseUpdate) (*models.Horse, error) {
	if upd.Buyers != nil {
		if err := calculator.ValidateBuyerSet(upd.Buyers); err != nil {
			return nil, err
		}
	}

	now := e.now()
	var horse *models.Horse
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		horse, err = tx.GetHorse(ctx, id)
		if err != nil {
			return err
		}

		startChanged := upd.BillingStart != nil && *upd.BillingStart != horse.BillingStart
		termsChanged := startChanged ||
			(upd.TotalValue != nil && !upd.TotalValue.Equal(horse.TotalValue)) ||
			(upd.InstallmentCount != nil && *upd.InstallmentCount != horse.InstallmentCount)

		if upd.Name != nil {
			if strings.TrimSpace(*upd.Name) == "" {
				return apperr.Validation("horse name is required")
			}
			horse.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Information != nil {
			horse.Information = *upd.Information
		}
		if upd.ImageURL != nil {
			horse.ImageURL = *upd.ImageURL
		}
		if upd.Archived != nil {
			horse.Archived = *upd.Archived
		}
		if upd.TotalValue != nil {
			horse.TotalValue = *upd.TotalValue
		}
		if upd.InstallmentCount != nil {
			horse.InstallmentCount = *upd.InstallmentCount
		}
		if upd.BillingStart != nil {
			horse.BillingStart = *upd.BillingStart
		}
		if err := validateTerms(horse.TotalValue, horse.InstallmentCount, horse.BillingStart); err != nil {
			return err
		}

		if startChanged {
			installments, err := tx.ListInstallments(ctx, id)
			if err != nil {
				return err
			}
			for _, inst := range installments {
				if inst.Frozen(now) {
					return apperr.Validation("billing start cannot change once installment %d is due", inst.Number)
				}
			}
		}

		if err := tx.UpdateHorse(ctx, horse); err != nil {
			return err
		}

		if upd.Buyers != nil {
			if err := syncShares(ctx, tx, id, upd.Buyers, now); err != nil {
				return err
			}
		}
		if upd.Buyers == nil && !termsChanged {
			return nil
		}
		return tx.Atomic(ctx, func(inner storage.Tx) error {
			return reconcile(ctx, inner, id, now)
		})
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.HorseUpdated, horse, "buyers_changed", strconv.FormatBool(upd.Buyers != nil))
	return horse, nil
}

// DeleteHorseCascade reverts every transaction of the horse and deletes it with
// its shares, schedule and transactions. It returns false when the horse does
// not exist.
func (e *Engine) DeleteHorseCascade(ctx context.Context, id int64) (bool, error) {
	var reverted int
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetHorse(ctx, id); err != nil {
			return err
		}

		txs, err := tx.ListTransactions(ctx, models.TransactionFilter{HorseID: id})
		if err != nil {
			return err
		}
		for _, t := range txs {
			if err := revertEffect(ctx, tx, t); err != nil {
				return err
			}
			if err := tx.DeleteTransaction(ctx, t.ID); err != nil {
				return err
			}
			reverted++
		}

		// What is left on the shares came from installment credits. It
		// leaves the buyers together with the shares.
		shares, err := tx.ListShares(ctx, id)
		if err != nil {
			return err
		}
		for _, sh := range shares {
			if sh.Balance.IsZero() {
				continue
			}
			if err := tx.AdjustBuyerBalance(ctx, sh.BuyerID, sh.Balance.Neg()); err != nil {
				return err
			}
		}

		return tx.DeleteHorse(ctx, id)
	})
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	e.emit(audit.HorseDeleted, map[string]int64{"horse_id": id, "transactions": int64(reverted)})
	return true, nil
}

// GetHorse returns a horse with its shares and schedule.
func (e *Engine) GetHorse(ctx context.Context, id int64) (*models.HorseDetail, error) {
	detail := &models.HorseDetail{Rows: make(map[int64][]*models.ShareInstallment)}
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		if detail.Horse, err = tx.GetHorse(ctx, id); err != nil {
			return err
		}
		if detail.Shares, err = tx.ListShares(ctx, id); err != nil {
			return err
		}
		if detail.Installments, err = tx.ListInstallments(ctx, id); err != nil {
			return err
		}
		for _, inst := range detail.Installments {
			rows, err := tx.ListShareInstallmentsByInstallment(ctx, inst.ID)
			if err != nil {
				return err
			}
			detail.Rows[inst.ID] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListHorses lists horses, leaving out archived ones unless asked.
func (e *Engine) ListHorses(ctx context.Context, includeArchived bool) ([]*models.Horse, error) {
	var out []*models.Horse
	err := e.read(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ListHorses(ctx, includeArchived)
		return err
	})
	return out, err
}
