package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/models"
)

func TestFormat(t *testing.T) {
	f, err := NewFormatter("USD")
	require.NoError(t, err)

	assert.Equal(t, "$1,234.50", f.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", f.Format(decimal.Zero))
	assert.Equal(t, "$12,000.00", f.Format(decimal.NewFromInt(12000)))

	_, err = NewFormatter("NOPE")
	assert.Error(t, err)
}

func TestWriteBalances(t *testing.T) {
	f, err := NewFormatter("USD")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = f.WriteBalances(&buf, []Line{{
		Buyer: &models.Buyer{ID: 1, Name: "ana"},
		Balance: models.BuyerBalance{
			BuyerID:     1,
			Current:     decimal.NewFromInt(600),
			Outstanding: decimal.NewFromInt(6600),
			TotalPaid:   decimal.NewFromInt(600),
			Horses: []models.HorseBalance{
				{HorseID: 7, Percentage: decimal.NewFromInt(60), Active: true, Balance: decimal.NewFromInt(600)},
				{HorseID: 8, Percentage: decimal.NewFromInt(100), Active: true, Balance: decimal.Zero},
			},
		},
		HorseNames: map[int64]string{7: "Relámpago"},
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "$6,600.00")
	assert.Contains(t, out, "Relámpago (60%)")
	assert.Contains(t, out, "#8 (100%)")
}
