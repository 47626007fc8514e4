package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/models"
)

var (
	// Hundred is a full horse expressed as a percentage.
	Hundred = decimal.NewFromInt(100)

	// PercentTolerance is how far the active percentages of a horse may drift from 100.
	PercentTolerance = decimal.RequireFromString("0.01")
)

// Round rounds a money amount to cents, half to even.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Prorate returns amount × pct / 100 rounded to cents.
func Prorate(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(Hundred))
}

// ValidatePercentage checks that pct is in (0, 100].
func ValidatePercentage(pct decimal.Decimal) error {
	if !pct.IsPositive() || pct.GreaterThan(Hundred) {
		return apperr.Validation("percentage must be greater than 0 and at most 100, got %s", pct)
	}
	return nil
}

// Complete reports whether sum is 100 within PercentTolerance.
func Complete(sum decimal.Decimal) bool {
	return sum.Sub(Hundred).Abs().LessThanOrEqual(PercentTolerance)
}

// Exceeds reports whether sum is above 100 by more than PercentTolerance.
func Exceeds(sum decimal.Decimal) bool {
	return sum.GreaterThan(Hundred.Add(PercentTolerance))
}

// ValidateBuyerSet checks a full buyer set for a horse: at least one buyer,
// no buyer twice, every percentage in range and a total of 100 ± 0.01.
func ValidateBuyerSet(buyers []models.BuyerPercentage) error {
	if len(buyers) == 0 {
		return apperr.Validation("a horse needs at least one buyer")
	}

	seen := make(map[int64]bool, len(buyers))
	sum := decimal.Zero
	for _, b := range buyers {
		if b.BuyerID <= 0 {
			return apperr.Validation("invalid buyer id %d", b.BuyerID)
		}
		if seen[b.BuyerID] {
			return apperr.Validation("buyer %d appears more than once", b.BuyerID)
		}
		seen[b.BuyerID] = true
		if err := ValidatePercentage(b.Percentage); err != nil {
			return err
		}
		sum = sum.Add(b.Percentage)
	}

	if !Complete(sum) {
		return apperr.Validation("buyer percentages must sum to 100, got %s", sum)
	}
	return nil
}

// Redistribute scales the remaining percentages so they sum to 100 again:
// pct *= 100 / sum(remaining). Results keep four decimal places.
func Redistribute(remaining map[int64]decimal.Decimal) (map[int64]decimal.Decimal, error) {
	if len(remaining) == 0 {
		return nil, apperr.Validation("cannot delete the last buyer")
	}

	sum := decimal.Zero
	for _, pct := range remaining {
		sum = sum.Add(pct)
	}
	if !sum.IsPositive() {
		return nil, apperr.Validation("remaining percentages sum to %s", sum)
	}

	out := make(map[int64]decimal.Decimal, len(remaining))
	for id, pct := range remaining {
		out[id] = pct.Mul(Hundred).Div(sum).RoundBank(4)
	}
	return out, nil
}

// SplitByShare divides amount across shares by percentage, each part rounded
// to cents. Residuals are not redistributed. The result is ordered by share ID.
func SplitByShare(amount decimal.Decimal, shares []*models.Share) []ShareAmount {
	parts := make([]ShareAmount, 0, len(shares))
	for _, sh := range shares {
		parts = append(parts, ShareAmount{
			ShareID: sh.ID,
			BuyerID: sh.BuyerID,
			Amount:  Prorate(amount, sh.Percentage),
		})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].ShareID < parts[j].ShareID })
	return parts
}

// ShareAmount is one share's part of a split amount.
type ShareAmount struct {
	ShareID int64
	BuyerID int64
	Amount  decimal.Decimal
}
