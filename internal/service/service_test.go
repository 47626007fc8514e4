package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/auth"
	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/middleware"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
	"github.com/linqfy/horsesShit/pkg/api"
	"github.com/linqfy/horsesShit/pkg/api/apiconnect"
)

var testNow = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

type clients struct {
	buyers       apiconnect.BuyerServiceClient
	horses       apiconnect.HorseServiceClient
	transactions apiconnect.TransactionServiceClient
	installments apiconnect.InstallmentServiceClient
	auth         apiconnect.AuthServiceClient
	authn        *auth.PasswordAuthenticator
}

// setupTestServer serves every service over httptest. With secret set, the
// ledger services require a token.
func setupTestServer(t *testing.T, secret string) *clients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := ledger.New(store, ledger.WithClock(func() time.Time { return testNow }))
	authn := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	ledgerOpts := []connect.HandlerOption{connect.WithInterceptors(middleware.LoggingInterceptor(nil))}
	if secret != "" {
		ledgerOpts = []connect.HandlerOption{connect.WithInterceptors(
			middleware.LoggingInterceptor(nil),
			middleware.RequireAuth(jwtManager),
		)}
	}
	authOpts := connect.WithInterceptors(middleware.LoggingInterceptor(nil), middleware.OptionalAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewBuyerServiceHandler(NewBuyerService(engine), ledgerOpts...))
	mux.Handle(apiconnect.NewHorseServiceHandler(NewHorseService(engine), ledgerOpts...))
	mux.Handle(apiconnect.NewTransactionServiceHandler(NewTransactionService(engine), ledgerOpts...))
	mux.Handle(apiconnect.NewInstallmentServiceHandler(NewInstallmentService(engine), ledgerOpts...))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authn, authn, jwtManager, slog.Default()), authOpts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &clients{
		buyers:       apiconnect.NewBuyerServiceClient(http.DefaultClient, server.URL),
		horses:       apiconnect.NewHorseServiceClient(http.DefaultClient, server.URL),
		transactions: apiconnect.NewTransactionServiceClient(http.DefaultClient, server.URL),
		installments: apiconnect.NewInstallmentServiceClient(http.DefaultClient, server.URL),
		auth:         apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		authn:        authn,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (c *clients) createBuyer(t *testing.T, name string, admin bool) *api.Buyer {
	t.Helper()
	resp, err := c.buyers.CreateBuyer(context.Background(), connect.NewRequest(&api.CreateBuyerRequest{
		Name: name, Email: name + "@example.com", IsAdmin: admin,
	}))
	require.NoError(t, err)
	return resp.Msg.Buyer
}

func (c *clients) createHorse(t *testing.T, buyers ...*api.BuyerPercentage) *api.Horse {
	t.Helper()
	resp, err := c.horses.CreateHorse(context.Background(), connect.NewRequest(&api.CreateHorseRequest{
		Name:             "Relámpago",
		TotalValue:       dec("12000"),
		InstallmentCount: 12,
		BillingMonth:     1,
		BillingYear:      2024,
		Buyers:           buyers,
	}))
	require.NoError(t, err)
	return resp.Msg.Horse
}

func TestHorseLifecycle(t *testing.T) {
	ctx := context.Background()
	c := setupTestServer(t, "")
	ana, bruno := c.createBuyer(t, "ana", false), c.createBuyer(t, "bruno", false)
	horse := c.createHorse(t,
		&api.BuyerPercentage{BuyerID: ana.ID, Percentage: dec("60")},
		&api.BuyerPercentage{BuyerID: bruno.ID, Percentage: dec("40")},
	)

	detail, err := c.horses.GetHorse(ctx, connect.NewRequest(&api.GetHorseRequest{ID: horse.ID}))
	require.NoError(t, err)
	require.Len(t, detail.Msg.Shares, 2)
	require.Len(t, detail.Msg.Installments, 12)
	first := detail.Msg.Installments[0]
	assert.True(t, dec("1000").Equal(first.Installment.Amount))
	assert.Equal(t, 2, first.Installment.Month)
	assert.Equal(t, time.February, first.Installment.DueDate.Month())
	require.Len(t, first.Rows, 2)
	assert.True(t, dec("600").Equal(first.Rows[0].Amount))
	assert.Equal(t, "PENDING", first.Rows[0].Status)

	_, err = c.transactions.CreateTransaction(ctx, connect.NewRequest(&api.CreateTransactionRequest{
		Type: "egreso", TotalAmount: dec("500"), HorseID: horse.ID, Concept: "veterinario",
	}))
	require.NoError(t, err)

	paid, err := c.installments.PayInstallment(ctx, connect.NewRequest(&api.PayInstallmentRequest{
		ShareInstallmentID: first.Rows[0].ID, Amount: dec("600"), CreditBalance: true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Msg.Row.Status)

	bal, err := c.buyers.GetBuyerBalance(ctx, connect.NewRequest(&api.GetBuyerBalanceRequest{ID: ana.ID}))
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(bal.Msg.Balance.Current), bal.Msg.Balance.Current.String())
	assert.True(t, dec("600").Equal(bal.Msg.Balance.TotalPaid))
	assert.True(t, dec("6600").Equal(bal.Msg.Balance.Outstanding))
	require.Len(t, bal.Msg.Balance.Horses, 1)

	list, err := c.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{
		Month: 1, Year: 2024, BuyerID: bruno.ID,
	}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Transactions, 1)
	assert.Equal(t, "EGRESO", list.Msg.Transactions[0].Type)
	assert.False(t, list.Msg.Transactions[0].Paid)

	marked, err := c.transactions.MarkExpensePaid(ctx, connect.NewRequest(&api.MarkExpensePaidRequest{
		TransactionID: list.Msg.Transactions[0].ID, BuyerID: bruno.ID,
	}))
	require.NoError(t, err)
	assert.True(t, marked.Msg.Paid)

	insts, err := c.installments.ListInstallments(ctx, connect.NewRequest(&api.ListInstallmentsRequest{Month: 3, Year: 2024}))
	require.NoError(t, err)
	require.Len(t, insts.Msg.Installments, 1)
	assert.Equal(t, 2, insts.Msg.Installments[0].Number)

	sweep, err := c.installments.CheckOverdue(ctx, connect.NewRequest(&api.CheckOverdueRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 0, sweep.Msg.Result.Processed)

	del, err := c.horses.DeleteHorse(ctx, connect.NewRequest(&api.DeleteHorseRequest{ID: horse.ID}))
	require.NoError(t, err)
	assert.True(t, del.Msg.Deleted)

	del, err = c.horses.DeleteHorse(ctx, connect.NewRequest(&api.DeleteHorseRequest{ID: horse.ID}))
	require.NoError(t, err)
	assert.False(t, del.Msg.Deleted)

	got, err := c.buyers.GetBuyer(ctx, connect.NewRequest(&api.GetBuyerRequest{ID: ana.ID}))
	require.NoError(t, err)
	assert.True(t, got.Msg.Buyer.Balance.IsZero(), got.Msg.Buyer.Balance.String())
}

func TestErrorCodes(t *testing.T) {
	ctx := context.Background()
	c := setupTestServer(t, "")
	ana, bruno := c.createBuyer(t, "ana", false), c.createBuyer(t, "bruno", false)

	_, err := c.horses.CreateHorse(ctx, connect.NewRequest(&api.CreateHorseRequest{
		Name: "Mal", TotalValue: dec("1000"), InstallmentCount: 2, BillingMonth: 3, BillingYear: 2024,
		Buyers: []*api.BuyerPercentage{
			{BuyerID: ana.ID, Percentage: dec("60")},
			{BuyerID: bruno.ID, Percentage: dec("39")},
		},
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = c.horses.GetHorse(ctx, connect.NewRequest(&api.GetHorseRequest{ID: 404}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = c.transactions.CreateTransaction(ctx, connect.NewRequest(&api.CreateTransactionRequest{
		Type: "PAGO", TotalAmount: dec("10"), BuyerID: ana.ID,
	}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	horse := c.createHorse(t, &api.BuyerPercentage{BuyerID: ana.ID, Percentage: dec("100")})
	month := 5
	_, err = c.horses.UpdateHorse(ctx, connect.NewRequest(&api.UpdateHorseRequest{ID: horse.ID, BillingMonth: &month}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = c.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{Type: "REGALO"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = c.installments.PayInstallment(ctx, connect.NewRequest(&api.PayInstallmentRequest{ShareInstallmentID: 9999, Amount: dec("1")}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestUpdateHorseBuyers(t *testing.T) {
	ctx := context.Background()
	c := setupTestServer(t, "")
	ana, bruno := c.createBuyer(t, "ana", false), c.createBuyer(t, "bruno", false)
	horse := c.createHorse(t, &api.BuyerPercentage{BuyerID: ana.ID, Percentage: dec("100")})

	_, err := c.horses.UpdateHorse(ctx, connect.NewRequest(&api.UpdateHorseRequest{
		ID: horse.ID,
		Buyers: []*api.BuyerPercentage{
			{BuyerID: ana.ID, Percentage: dec("75")},
			{BuyerID: bruno.ID, Percentage: dec("25")},
		},
	}))
	require.NoError(t, err)

	detail, err := c.horses.GetHorse(ctx, connect.NewRequest(&api.GetHorseRequest{ID: horse.ID}))
	require.NoError(t, err)
	require.Len(t, detail.Msg.Installments[0].Rows, 2)
	assert.True(t, dec("750").Equal(detail.Msg.Installments[0].Rows[0].Amount))
	assert.True(t, dec("250").Equal(detail.Msg.Installments[0].Rows[1].Amount))

	var brunoShare int64
	for _, sh := range detail.Msg.Shares {
		if sh.BuyerID == bruno.ID {
			brunoShare = sh.ID
		}
	}
	_, err = c.horses.RemoveShare(ctx, connect.NewRequest(&api.RemoveShareRequest{ID: brunoShare}))
	require.NoError(t, err)

	rows, err := c.installments.ListShareInstallments(ctx, connect.NewRequest(&api.ListShareInstallmentsRequest{ShareID: brunoShare}))
	require.NoError(t, err)
	assert.Empty(t, rows.Msg.Rows)
}

func TestAuthRequired(t *testing.T) {
	ctx := context.Background()
	c := setupTestServer(t, "on")

	_, err := c.buyers.ListBuyers(ctx, connect.NewRequest(&api.ListBuyersRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = c.authn.Register(ctx, "admin@example.com", "Admin", "caballo123")
	require.NoError(t, err)

	_, err = c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "admin@example.com", Password: "nope-nope"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	login, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "admin@example.com", Password: "caballo123"}))
	require.NoError(t, err)
	require.NotEmpty(t, login.Msg.Token)

	withToken := func(req interface{ Header() http.Header }) {
		req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	}

	list := connect.NewRequest(&api.ListBuyersRequest{})
	withToken(list)
	_, err = c.buyers.ListBuyers(ctx, list)
	require.NoError(t, err)

	me := connect.NewRequest(&api.GetCurrentOperatorRequest{})
	withToken(me)
	current, err := c.auth.GetCurrentOperator(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", current.Msg.Operator.Email)

	_, err = c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "second@example.com", DisplayName: "Second", Password: "caballo123",
	}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	reg := connect.NewRequest(&api.RegisterRequest{Email: "second@example.com", DisplayName: "Second", Password: "caballo123"})
	withToken(reg)
	registered, err := c.auth.Register(ctx, reg)
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Msg.Token)
}
