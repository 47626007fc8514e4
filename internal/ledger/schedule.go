package ledger

import (
	"context"

	"github.com/linqfy/horsesShit/internal/calculator"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/storage"
)

// generateSchedule creates every installment of a new horse and one PENDING
// row per active share in each of them.
func generateSchedule(ctx context.Context, tx storage.Tx, horse *models.Horse) error {
	shares, err := tx.ListActiveShares(ctx, horse.ID)
	if err != nil {
		return err
	}

	for _, entry := range calculator.Schedule(horse) {
		inst := &models.Installment{
			HorseID: horse.ID,
			Number:  entry.Number,
			DueDate: entry.DueDate,
			Amount:  entry.Amount,
			Period:  entry.Period,
		}
		if err := tx.CreateInstallment(ctx, inst); err != nil {
			return err
		}
		for _, sh := range shares {
			if err := createRow(ctx, tx, inst, sh); err != nil {
				return err
			}
		}
	}
	return nil
}

// createRow adds an unpaid share row to an installment.
func createRow(ctx context.Context, tx storage.Tx, inst *models.Installment, sh *models.Share) error {
	row := &models.ShareInstallment{
		ShareID:       sh.ID,
		InstallmentID: inst.ID,
		Amount:        calculator.Prorate(inst.Amount, sh.Percentage),
		Status:        models.StatusPending,
		Period:        inst.Period,
	}
	return tx.CreateShareInstallment(ctx, row)
}
