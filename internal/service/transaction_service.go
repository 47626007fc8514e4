package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/models"
	"github.com/linqfy/horsesShit/pkg/api"
)

// TransactionService implements the Connect TransactionService.
type TransactionService struct {
	engine *ledger.Engine
}

// NewTransactionService creates a TransactionService backed by engine.
func NewTransactionService(engine *ledger.Engine) *TransactionService {
	return &TransactionService{engine: engine}
}

func transactionType(s string) models.TransactionType {
	return models.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
}

// CreateTransaction records a transaction and applies its effect. PREMIO
// transactions are queued until they mature.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	msg := req.Msg
	t, err := s.engine.CreateTransaction(ctx, &models.Transaction{
		Type:          transactionType(msg.Type),
		Concept:       msg.Concept,
		Notes:         msg.Notes,
		TotalAmount:   msg.TotalAmount,
		HorseID:       msg.HorseID,
		BuyerID:       msg.BuyerID,
		Period:        period(msg.Month, msg.Year),
		Date:          msg.Date,
		PaymentDate:   msg.PaymentDate,
		EffectiveDate: msg.EffectiveDate,
	})
	if err != nil {
		return nil, connectError("CreateTransaction", err)
	}
	slog.Info("transaction created",
		"transaction_id", t.ID,
		"type", t.Type,
		"amount", t.TotalAmount.String(),
		"applied", t.Type != models.Prize || t.Applied(),
	)
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	t, err := s.engine.GetTransaction(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetTransaction", err)
	}
	return connect.NewResponse(&api.GetTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	msg := req.Msg
	filter := models.TransactionFilter{
		Month:   time.Month(msg.Month),
		Year:    msg.Year,
		HorseID: msg.HorseID,
	}
	if msg.Type != "" {
		filter.Type = transactionType(msg.Type)
		if !filter.Type.Valid() {
			return nil, invalidArgument("unknown transaction type %q", msg.Type)
		}
	}
	if msg.Month < 0 || msg.Month > 12 {
		return nil, invalidArgument("invalid month %d", msg.Month)
	}

	txs, err := s.engine.ListTransactions(ctx, filter, msg.BuyerID)
	if err != nil {
		return nil, connectError("ListTransactions", err)
	}
	out := make([]*api.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, toAPITransaction(t))
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// UpdateTransaction changes a transaction. Financial fields need revert.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	msg := req.Msg
	upd := models.TransactionUpdate{
		Concept:       msg.Concept,
		Notes:         msg.Notes,
		TotalAmount:   msg.TotalAmount,
		HorseID:       msg.HorseID,
		BuyerID:       msg.BuyerID,
		Date:          msg.Date,
		PaymentDate:   msg.PaymentDate,
		EffectiveDate: msg.EffectiveDate,
		Paid:          msg.Paid,
	}
	if msg.Type != nil {
		typ := transactionType(*msg.Type)
		upd.Type = &typ
	}
	switch {
	case msg.Month != nil && msg.Year != nil:
		p := period(*msg.Month, *msg.Year)
		upd.Period = &p
	case msg.Month != nil || msg.Year != nil:
		return nil, invalidArgument("month and year must be set together")
	}

	t, err := s.engine.UpdateTransaction(ctx, msg.ID, upd, msg.Revert)
	if err != nil {
		return nil, connectError("UpdateTransaction", err)
	}
	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	if err := s.engine.DeleteTransaction(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteTransaction", err)
	}
	slog.Info("transaction deleted", "transaction_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

func (s *TransactionService) MarkExpensePaid(ctx context.Context, req *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error) {
	paid, err := s.engine.MarkExpensePaid(ctx, req.Msg.TransactionID, req.Msg.BuyerID)
	if err != nil {
		return nil, connectError("MarkExpensePaid", err)
	}
	return connect.NewResponse(&api.MarkExpensePaidResponse{Paid: paid}), nil
}

// ProcessQueue applies matured PREMIO transactions now instead of waiting for
// the next scheduled run.
func (s *TransactionService) ProcessQueue(ctx context.Context, req *connect.Request[api.ProcessQueueRequest]) (*connect.Response[api.ProcessQueueResponse], error) {
	res, err := s.engine.ProcessQueuedTransactions(ctx)
	if err != nil {
		return nil, connectError("ProcessQueue", err)
	}
	return connect.NewResponse(&api.ProcessQueueResponse{Result: toAPISweep(res)}), nil
}
