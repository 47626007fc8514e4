package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/models"
)

// Entry is one computed installment of a horse's schedule.
type Entry struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
	Period  models.BillingPeriod
}

// InstallmentAmount returns total / count rounded to cents. A count of zero
// yields zero.
func InstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return Round(total.Div(decimal.NewFromInt(int64(count))))
}

// DueDate returns the due date of installment number n (1-based).
//
// Installment 1 falls in the month after start; each later one a month after
// the previous. The day of month and clock time come from created, with the
// day clamped to the last day of the target month.
func DueDate(start models.BillingPeriod, created time.Time, n int) time.Time {
	// idx counts months from January of start.Year, zero-based.
	idx := int(start.Month) - 1 + n
	year := start.Year + idx/12
	month := time.Month(idx%12 + 1)

	day := created.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}

	h, m, s := created.Clock()
	return time.Date(year, month, day, h, m, s, 0, created.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodOf returns the billing period a date falls in.
func PeriodOf(t time.Time) models.BillingPeriod {
	return models.BillingPeriod{Month: t.Month(), Year: t.Year()}
}

// Schedule computes the full installment timeline of a horse.
func Schedule(h *models.Horse) []Entry {
	amount := InstallmentAmount(h.TotalValue, h.InstallmentCount)

	entries := make([]Entry, 0, h.InstallmentCount)
	for n := 1; n <= h.InstallmentCount; n++ {
		due := DueDate(h.BillingStart, h.CreatedAt, n)
		entries = append(entries, Entry{
			Number:  n,
			DueDate: due,
			Amount:  amount,
			Period:  PeriodOf(due),
		})
	}
	return entries
}
