package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/apperr"
	"github.com/linqfy/horsesShit/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundIsHalfToEven(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.125", "0.12"},
		{"0.135", "0.14"},
		{"1000", "1000"},
		{"333.335", "333.34"},
		{"-0.125", "-0.12"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, d(tt.want).Equal(Round(d(tt.in))), "Round(%s) = %s", tt.in, Round(d(tt.in)))
		})
	}
}

func TestValidateBuyerSet(t *testing.T) {
	tests := []struct {
		name    string
		buyers  []models.BuyerPercentage
		wantErr bool
	}{
		{
			name:   "sixty forty",
			buyers: []models.BuyerPercentage{{BuyerID: 1, Percentage: d("60")}, {BuyerID: 2, Percentage: d("40")}},
		},
		{
			name:   "thirds within tolerance",
			buyers: []models.BuyerPercentage{{BuyerID: 1, Percentage: d("33.33")}, {BuyerID: 2, Percentage: d("33.33")}, {BuyerID: 3, Percentage: d("33.33")}},
		},
		{
			name:    "empty",
			buyers:  nil,
			wantErr: true,
		},
		{
			name:    "short of one hundred",
			buyers:  []models.BuyerPercentage{{BuyerID: 1, Percentage: d("60")}, {BuyerID: 2, Percentage: d("39")}},
			wantErr: true,
		},
		{
			name:    "duplicate buyer",
			buyers:  []models.BuyerPercentage{{BuyerID: 1, Percentage: d("50")}, {BuyerID: 1, Percentage: d("50")}},
			wantErr: true,
		},
		{
			name:    "zero percentage",
			buyers:  []models.BuyerPercentage{{BuyerID: 1, Percentage: d("100")}, {BuyerID: 2, Percentage: d("0")}},
			wantErr: true,
		},
		{
			name:    "above one hundred",
			buyers:  []models.BuyerPercentage{{BuyerID: 1, Percentage: d("100.5")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuyerSet(tt.buyers)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRedistribute(t *testing.T) {
	t.Run("scales remaining to one hundred", func(t *testing.T) {
		// A 20% share was removed from 50/30/20.
		out, err := Redistribute(map[int64]decimal.Decimal{1: d("50"), 2: d("30")})
		require.NoError(t, err)
		assert.True(t, d("62.5").Equal(out[1]), "got %s", out[1])
		assert.True(t, d("37.5").Equal(out[2]), "got %s", out[2])
	})

	t.Run("uneven split stays within tolerance", func(t *testing.T) {
		out, err := Redistribute(map[int64]decimal.Decimal{1: d("10"), 2: d("10"), 3: d("10")})
		require.NoError(t, err)
		sum := out[1].Add(out[2]).Add(out[3])
		assert.True(t, Complete(sum), "sum %s", sum)
	})

	t.Run("nothing left", func(t *testing.T) {
		_, err := Redistribute(nil)
		require.Error(t, err)
		assert.Equal(t, "cannot delete the last buyer", err.Error())
	})
}

func TestSplitByShare(t *testing.T) {
	shares := []*models.Share{
		{ID: 2, BuyerID: 20, Percentage: d("40")},
		{ID: 1, BuyerID: 10, Percentage: d("60")},
	}

	parts := SplitByShare(d("500"), shares)
	require.Len(t, parts, 2)
	assert.Equal(t, int64(1), parts[0].ShareID)
	assert.True(t, d("300").Equal(parts[0].Amount))
	assert.True(t, d("200").Equal(parts[1].Amount))
}

func TestDueDate(t *testing.T) {
	created := time.Date(2024, time.January, 31, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start models.BillingPeriod
		n     int
		want  time.Time
	}{
		{
			name:  "first installment falls in the following month, clamped to leap february",
			start: models.BillingPeriod{Month: time.January, Year: 2024},
			n:     1,
			want:  time.Date(2024, time.February, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "thirty day month",
			start: models.BillingPeriod{Month: time.January, Year: 2024},
			n:     3,
			want:  time.Date(2024, time.April, 30, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "year rollover",
			start: models.BillingPeriod{Month: time.November, Year: 2024},
			n:     2,
			want:  time.Date(2025, time.January, 31, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "december start",
			start: models.BillingPeriod{Month: time.December, Year: 2024},
			n:     1,
			want:  time.Date(2025, time.January, 31, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueDate(tt.start, created, tt.n))
		})
	}
}

func TestSchedule(t *testing.T) {
	h := &models.Horse{
		TotalValue:       d("12000"),
		InstallmentCount: 12,
		BillingStart:     models.BillingPeriod{Month: time.March, Year: 2024},
		CreatedAt:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	}

	entries := Schedule(h)
	require.Len(t, entries, 12)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Number)
		assert.True(t, d("1000").Equal(e.Amount))
		assert.Equal(t, 15, e.DueDate.Day())
	}
	assert.Equal(t, models.BillingPeriod{Month: time.April, Year: 2024}, entries[0].Period)
	assert.Equal(t, models.BillingPeriod{Month: time.March, Year: 2025}, entries[11].Period)

	assert.True(t, d("600").Equal(Prorate(entries[0].Amount, d("60"))))
	assert.True(t, d("400").Equal(Prorate(entries[0].Amount, d("40"))))

	t.Run("zero installments", func(t *testing.T) {
		empty := *h
		empty.InstallmentCount = 0
		assert.Empty(t, Schedule(&empty))
		assert.True(t, InstallmentAmount(d("100"), 0).IsZero())
	})

	t.Run("uneven total", func(t *testing.T) {
		assert.True(t, d("333.33").Equal(InstallmentAmount(d("1000"), 3)))
	})
}

func TestSummarizeBuyer(t *testing.T) {
	in := BalanceInput{
		Buyer: &models.Buyer{ID: 7, Balance: d("-150")},
		Shares: []*models.Share{
			{ID: 2, HorseID: 9, Percentage: d("40"), Active: true, Balance: d("-100")},
			{ID: 1, HorseID: 3, Percentage: d("50"), Active: false, Balance: d("-50")},
		},
		Rows: []*models.ShareInstallment{
			{Amount: d("400"), AmountPaid: d("400"), Status: models.StatusPaid},
			{Amount: d("400"), AmountPaid: d("150"), Status: models.StatusPartial},
			{Amount: d("400"), AmountPaid: d("0"), Status: models.StatusOverdue},
			{Amount: d("400"), AmountPaid: d("0"), Status: models.StatusPending},
		},
		Payments: []*models.Payment{{Amount: d("400")}, {Amount: d("150")}},
	}

	got := SummarizeBuyer(in)
	assert.Equal(t, int64(7), got.BuyerID)
	assert.True(t, d("-150").Equal(got.Current))
	assert.True(t, d("1050").Equal(got.Outstanding), "outstanding %s", got.Outstanding)
	assert.True(t, d("550").Equal(got.TotalPaid))
	require.Len(t, got.Horses, 2)
	assert.Equal(t, int64(3), got.Horses[0].HorseID)
	assert.False(t, got.Horses[0].Active)
}
