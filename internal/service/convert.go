package service

import (
	"time"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/pkg/api"
)

func period(month, year int) models.BillingPeriod {
	return models.BillingPeriod{Month: time.Month(month), Year: year}
}

func toAPIBuyer(b *models.Buyer) *api.Buyer {
	return &api.Buyer{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		DNI:       b.DNI,
		IsAdmin:   b.IsAdmin,
		Balance:   b.Balance,
		CreatedAt: b.CreatedAt,
	}
}

func toAPIShare(sh *models.Share) *api.Share {
	return &api.Share{
		ID:         sh.ID,
		HorseID:    sh.HorseID,
		BuyerID:    sh.BuyerID,
		Percentage: sh.Percentage,
		Active:     sh.Active,
		Balance:    sh.Balance,
		JoinedAt:   sh.JoinedAt,
	}
}

func toAPIHorse(h *models.Horse) *api.Horse {
	return &api.Horse{
		ID:               h.ID,
		Name:             h.Name,
		Information:      h.Information,
		ImageURL:         h.ImageURL,
		TotalValue:       h.TotalValue,
		InstallmentCount: h.InstallmentCount,
		BillingMonth:     int(h.BillingStart.Month),
		BillingYear:      h.BillingStart.Year,
		Archived:         h.Archived,
		CreatedAt:        h.CreatedAt,
	}
}

func toAPIInstallment(inst *models.Installment) *api.Installment {
	return &api.Installment{
		ID:      inst.ID,
		HorseID: inst.HorseID,
		Number:  inst.Number,
		DueDate: inst.DueDate,
		Amount:  inst.Amount,
		Month:   int(inst.Period.Month),
		Year:    inst.Period.Year,
	}
}

func toAPIShareInstallment(si *models.ShareInstallment) *api.ShareInstallment {
	return &api.ShareInstallment{
		ID:            si.ID,
		ShareID:       si.ShareID,
		InstallmentID: si.InstallmentID,
		Amount:        si.Amount,
		AmountPaid:    si.AmountPaid,
		Status:        string(si.Status),
		Month:         int(si.Period.Month),
		Year:          si.Period.Year,
		LastPaymentAt: si.LastPaymentAt,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:            t.ID,
		Type:          string(t.Type),
		Concept:       t.Concept,
		Notes:         t.Notes,
		TotalAmount:   t.TotalAmount,
		HorseID:       t.HorseID,
		BuyerID:       t.BuyerID,
		Month:         int(t.Period.Month),
		Year:          t.Period.Year,
		Date:          t.Date,
		PaymentDate:   t.PaymentDate,
		EffectiveDate: t.EffectiveDate,
		AppliedAt:     t.AppliedAt,
		Paid:          t.Paid,
		CreatedAt:     t.CreatedAt,
	}
}

func toAPISweep(res ledger.SweepResult) *api.SweepResult {
	return &api.SweepResult{
		Selected:  res.Selected,
		Processed: res.Processed,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
	}
}

func toBuyerPercentages(in []*api.BuyerPercentage) []models.BuyerPercentage {
	if in == nil {
		return nil
	}
	out := make([]models.BuyerPercentage, 0, len(in))
	for _, b := range in {
		if b == nil {
			continue
		}
		out = append(out, models.BuyerPercentage{BuyerID: b.BuyerID, Percentage: b.Percentage})
	}
	return out
}
