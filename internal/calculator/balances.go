package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/models"
)

// BalanceInput holds everything needed to summarize one buyer.
type BalanceInput struct {
	Buyer    *models.Buyer
	Shares   []*models.Share
	Rows     []*models.ShareInstallment
	Payments []*models.Payment
}

// SummarizeBuyer computes a buyer's balance detail.
//
// Outstanding is the unpaid remainder of every row that is not PAID.
// TotalPaid sums the recorded payments. Horses lists the buyer's shares by horse ID.
func SummarizeBuyer(in BalanceInput) models.BuyerBalance {
	out := models.BuyerBalance{
		BuyerID:     in.Buyer.ID,
		Current:     in.Buyer.Balance,
		Outstanding: decimal.Zero,
		TotalPaid:   decimal.Zero,
	}

	for _, row := range in.Rows {
		if row.Status == models.StatusPaid {
			continue
		}
		out.Outstanding = out.Outstanding.Add(row.Remaining())
	}

	for _, p := range in.Payments {
		out.TotalPaid = out.TotalPaid.Add(p.Amount)
	}

	for _, sh := range in.Shares {
		out.Horses = append(out.Horses, models.HorseBalance{
			HorseID:    sh.HorseID,
			ShareID:    sh.ID,
			Percentage: sh.Percentage,
			Active:     sh.Active,
			Balance:    sh.Balance,
		})
	}
	sort.Slice(out.Horses, func(i, j int) bool { return out.Horses[i].HorseID < out.Horses[j].HorseID })

	return out
}
