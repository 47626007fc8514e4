package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/internal/report"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
)

func TestWriteBalances(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ctl.db"))
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	engine := ledger.New(store, ledger.WithClock(func() time.Time { return now }))

	ana, err := engine.CreateBuyer(ctx, &models.Buyer{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = engine.CreateHorseWithBuyers(ctx, ledger.HorseInput{
		Name:             "Trueno",
		TotalValue:       decimal.NewFromInt(1200),
		InstallmentCount: 12,
		BillingStart:     models.BillingPeriod{Month: time.January, Year: 2024},
		Buyers:           []models.BuyerPercentage{{BuyerID: ana.ID, Percentage: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	formatter, err := report.NewFormatter("USD")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeBalances(ctx, &buf, engine, formatter))

	out := buf.String()
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Trueno (100%)")
	assert.Contains(t, out, "$1,200.00")
}
