package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/audit"
	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// activeSum returns the sum of active percentages of a horse, skipping one share.
func activeSum(shares []*models.Share, skipID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, sh := range shares {
		if sh.Active && sh.ID != skipID {
			sum = sum.Add(sh.Percentage)
		}
	}
	return sum
}

// addShare gives buyer pct of horse. An inactive share of the same buyer is
// reactivated so the (horse, buyer) pair stays unique.
func addShare(ctx context.Context, tx storage.Tx, horseID, buyerID int64, pct decimal.Decimal, now time.Time) (*models.Share, error) {
	if err := calculator.ValidatePercentage(pct); err != nil {
		return nil, err
	}
	if _, err := tx.GetHorse(ctx, horseID); err != nil {
		return nil, err
	}
	if _, err := tx.GetBuyer(ctx, buyerID); err != nil {
		return nil, err
	}

	shares, err := tx.ListShares(ctx, horseID)
	if err != nil {
		return nil, err
	}
	if total := activeSum(shares, 0).Add(pct); calculator.Exceeds(total) {
		return nil, apperr.Validation("adding %s%% would bring horse %d to %s%%", pct, horseID, total)
	}

	existing, err := tx.FindShare(ctx, horseID, buyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Active {
			return nil, apperr.Validation("buyer %d already holds a share of horse %d", buyerID, horseID)
		}
		existing.Percentage = pct
		existing.Active = true
		if err := tx.UpdateShare(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	share := &models.Share{HorseID: horseID, BuyerID: buyerID, Percentage: pct, Active: true, JoinedAt: now}
	if err := tx.CreateShare(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// updateSharePercentage sets a new percentage; the horse must still total 100.
func updateSharePercentage(ctx context.Context, tx storage.Tx, shareID int64, pct decimal.Decimal) (*models.Share, error) {
	if err := calculator.ValidatePercentage(pct); err != nil {
		return nil, err
	}
	share, err := tx.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if !share.Active {
		return nil, apperr.Validation("share %d is not active", shareID)
	}

	shares, err := tx.ListShares(ctx, share.HorseID)
	if err != nil {
		return nil, err
	}
	if total := activeSum(shares, share.ID).Add(pct); !calculator.Complete(total) {
		return nil, apperr.Validation("percentages of horse %d would total %s%%, must be 100", share.HorseID, total)
	}

	share.Percentage = pct
	if err := tx.UpdateShare(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// removeShare deactivates a share and scales the remaining ones back to 100.
func removeShare(ctx context.Context, tx storage.Tx, shareID int64) (*models.Share, error) {
	share, err := tx.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if !share.Active {
		return nil, apperr.Validation("share %d is not active", shareID)
	}

	active, err := tx.ListActiveShares(ctx, share.HorseID)
	if err != nil {
		return nil, err
	}

	remaining := make(map[int64]decimal.Decimal, len(active))
	byID := make(map[int64]*models.Share, len(active))
	for _, sh := range active {
		if sh.ID == share.ID {
			continue
		}
		remaining[sh.ID] = sh.Percentage
		byID[sh.ID] = sh
	}

	scaled, err := calculator.Redistribute(remaining)
	if err != nil {
		return nil, err
	}
	for id, pct := range scaled {
		sh := byID[id]
		sh.Percentage = pct
		if err := tx.UpdateShare(ctx, sh); err != nil {
			return nil, err
		}
	}

	share.Active = false
	if err := tx.UpdateShare(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// syncShares makes the active shares of a horse match buyers exactly. Buyers
// that left keep their share row, inactive.
func syncShares(ctx context.Context, tx storage.Tx, horseID int64, buyers []models.BuyerPercentage, now time.Time) error {
	shares, err := tx.ListShares(ctx, horseID)
	if err != nil {
		return err
	}
	byBuyer := make(map[int64]*models.Share, len(shares))
	for _, sh := range shares {
		byBuyer[sh.BuyerID] = sh
	}

	wanted := make(map[int64]bool, len(buyers))
	for _, b := range buyers {
		wanted[b.BuyerID] = true
		if _, err := tx.GetBuyer(ctx, b.BuyerID); err != nil {
			return err
		}

		if sh, ok := byBuyer[b.BuyerID]; ok {
			if sh.Active && sh.Percentage.Equal(b.Percentage) {
				continue
			}
			sh.Percentage = b.Percentage
			sh.Active = true
			if err := tx.UpdateShare(ctx, sh); err != nil {
				return err
			}
			continue
		}

		sh := &models.Share{HorseID: horseID, BuyerID: b.BuyerID, Percentage: b.Percentage, Active: true, JoinedAt: now}
		if err := tx.CreateShare(ctx, sh); err != nil {
			return err
		}
	}

	for _, sh := range shares {
		if sh.Active && !wanted[sh.BuyerID] {
			sh.Active = false
			if err := tx.UpdateShare(ctx, sh); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddShare adds a buyer to a horse and reconciles its schedule.
func (e *Engine) AddShare(ctx context.Context, horseID, buyerID int64, pct decimal.Decimal) (*models.Share, error) {
	now := e.now()
	var share *models.Share
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		share, err = addShare(ctx, tx, horseID, buyerID, pct, now)
		if err != nil {
			return err
		}
		return tx.Atomic(ctx, func(inner storage.Tx) error {
			return reconcile(ctx, inner, horseID, now)
		})
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.ShareChanged, share, "action", "add")
	return share, nil
}

// UpdateShare changes a share's percentage and reconciles the horse.
func (e *Engine) UpdateShare(ctx context.Context, shareID int64, pct decimal.Decimal) (*models.Share, error) {
	now := e.now()
	var share *models.Share
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		share, err = updateSharePercentage(ctx, tx, shareID, pct)
		if err != nil {
			return err
		}
		return tx.Atomic(ctx, func(inner storage.Tx) error {
			return reconcile(ctx, inner, share.HorseID, now)
		})
	})
	if err != nil {
		return nil, err
	}

	e.emit(audit.ShareChanged, share, "action", "update")
	return share, nil
}

// RemoveShare takes a buyer out of a horse, redistributes the percentage
// among the others and reconciles the horse.
func (e *Engine) RemoveShare(ctx context.Context, shareID int64) error {
	now := e.now()
	var share *models.Share
	err := e.store.Atomic(ctx, func(tx storage.Tx) error {
		var err error
		share, err = removeShare(ctx, tx, shareID)
		if err != nil {
			return err
		}
		return tx.Atomic(ctx, func(inner storage.Tx) error {
			return reconcile(ctx, inner, share.HorseID, now)
		})
	})
	if err != nil {
		return err
	}

	e.emit(audit.ShareChanged, share, "action", "remove")
	return nil
}
