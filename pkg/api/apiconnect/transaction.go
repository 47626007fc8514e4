package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/pkg/api"
)

// TransactionServiceName is the fully-qualified name of the TransactionService.
const TransactionServiceName = "horses.v1.TransactionService"

const (
	TransactionServiceCreateTransactionProcedure = "/" + TransactionServiceName + "/CreateTransaction"
	TransactionServiceGetTransactionProcedure    = "/" + TransactionServiceName + "/GetTransaction"
	TransactionServiceListTransactionsProcedure  = "/" + TransactionServiceName + "/ListTransactions"
	TransactionServiceUpdateTransactionProcedure = "/" + TransactionServiceName + "/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure = "/" + TransactionServiceName + "/DeleteTransaction"
	TransactionServiceMarkExpensePaidProcedure   = "/" + TransactionServiceName + "/MarkExpensePaid"
	TransactionServiceProcessQueueProcedure      = "/" + TransactionServiceName + "/ProcessQueue"
)

// TransactionServiceHandler records INGRESO, EGRESO, PREMIO and PAGO transactions.
type TransactionServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	MarkExpensePaid(context.Context, *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error)
	ProcessQueue(context.Context, *connect.Request[api.ProcessQueueRequest]) (*connect.Response[api.ProcessQueueResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + TransactionServiceName + "/", route(map[string]http.Handler{
		TransactionServiceCreateTransactionProcedure: unary(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts),
		TransactionServiceGetTransactionProcedure:    unary(TransactionServiceGetTransactionProcedure, svc.GetTransaction, opts),
		TransactionServiceListTransactionsProcedure:  unary(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts),
		TransactionServiceUpdateTransactionProcedure: unary(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts),
		TransactionServiceDeleteTransactionProcedure: unary(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts),
		TransactionServiceMarkExpensePaidProcedure:   unary(TransactionServiceMarkExpensePaidProcedure, svc.MarkExpensePaid, opts),
		TransactionServiceProcessQueueProcedure:      unary(TransactionServiceProcessQueueProcedure, svc.ProcessQueue, opts),
	})
}

// TransactionServiceClient is a client for the TransactionService.
type TransactionServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	MarkExpensePaid(context.Context, *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error)
	ProcessQueue(context.Context, *connect.Request[api.ProcessQueueRequest]) (*connect.Response[api.ProcessQueueResponse], error)
}

// NewTransactionServiceClient creates a client for the TransactionService served at baseURL.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	return &transactionServiceClient{
		createTransaction: newClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL, TransactionServiceCreateTransactionProcedure, opts),
		getTransaction:    newClient[api.GetTransactionRequest, api.GetTransactionResponse](httpClient, baseURL, TransactionServiceGetTransactionProcedure, opts),
		listTransactions:  newClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL, TransactionServiceListTransactionsProcedure, opts),
		updateTransaction: newClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL, TransactionServiceUpdateTransactionProcedure, opts),
		deleteTransaction: newClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL, TransactionServiceDeleteTransactionProcedure, opts),
		markExpensePaid:   newClient[api.MarkExpensePaidRequest, api.MarkExpensePaidResponse](httpClient, baseURL, TransactionServiceMarkExpensePaidProcedure, opts),
		processQueue:      newClient[api.ProcessQueueRequest, api.ProcessQueueResponse](httpClient, baseURL, TransactionServiceProcessQueueProcedure, opts),
	}
}

type transactionServiceClient struct {
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	getTransaction    *connect.Client[api.GetTransactionRequest, api.GetTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	markExpensePaid   *connect.Client[api.MarkExpensePaidRequest, api.MarkExpensePaidResponse]
	processQueue      *connect.Client[api.ProcessQueueRequest, api.ProcessQueueResponse]
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) MarkExpensePaid(ctx context.Context, req *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error) {
	return c.markExpensePaid.CallUnary(ctx, req)
}

func (c *transactionServiceClient) ProcessQueue(ctx context.Context, req *connect.Request[api.ProcessQueueRequest]) (*connect.Response[api.ProcessQueueResponse], error) {
	return c.processQueue.CallUnary(ctx, req)
}
