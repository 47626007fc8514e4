package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/pkg/api"
)

// InstallmentServiceName is the fully-qualified name of the InstallmentService.
const InstallmentServiceName = "horses.v1.InstallmentService"

const (
	InstallmentServiceListInstallmentsProcedure      = "/" + InstallmentServiceName + "/ListInstallments"
	InstallmentServiceListShareInstallmentsProcedure = "/" + InstallmentServiceName + "/ListShareInstallments"
	InstallmentServicePayInstallmentProcedure        = "/" + InstallmentServiceName + "/PayInstallment"
	InstallmentServiceCheckOverdueProcedure          = "/" + InstallmentServiceName + "/CheckOverdue"
)

// InstallmentServiceHandler lists installments and records payments.
type InstallmentServiceHandler interface {
	ListInstallments(context.Context, *connect.Request[api.ListInstallmentsRequest]) (*connect.Response[api.ListInstallmentsResponse], error)
	ListShareInstallments(context.Context, *connect.Request[api.ListShareInstallmentsRequest]) (*connect.Response[api.ListShareInstallmentsResponse], error)
	PayInstallment(context.Context, *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error)
	CheckOverdue(context.Context, *connect.Request[api.CheckOverdueRequest]) (*connect.Response[api.CheckOverdueResponse], error)
}

// NewInstallmentServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewInstallmentServiceHandler(svc InstallmentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + InstallmentServiceName + "/", route(map[string]http.Handler{
		InstallmentServiceListInstallmentsProcedure:      unary(InstallmentServiceListInstallmentsProcedure, svc.ListInstallments, opts),
		InstallmentServiceListShareInstallmentsProcedure: unary(InstallmentServiceListShareInstallmentsProcedure, svc.ListShareInstallments, opts),
		InstallmentServicePayInstallmentProcedure:        unary(InstallmentServicePayInstallmentProcedure, svc.PayInstallment, opts),
		InstallmentServiceCheckOverdueProcedure:          unary(InstallmentServiceCheckOverdueProcedure, svc.CheckOverdue, opts),
	})
}

// InstallmentServiceClient is a client for the InstallmentService.
type InstallmentServiceClient interface {
	ListInstallments(context.Context, *connect.Request[api.ListInstallmentsRequest]) (*connect.Response[api.ListInstallmentsResponse], error)
	ListShareInstallments(context.Context, *connect.Request[api.ListShareInstallmentsRequest]) (*connect.Response[api.ListShareInstallmentsResponse], error)
	PayInstallment(context.Context, *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error)
	CheckOverdue(context.Context, *connect.Request[api.CheckOverdueRequest]) (*connect.Response[api.CheckOverdueResponse], error)
}

// NewInstallmentServiceClient creates a client for the InstallmentService served at baseURL.
func NewInstallmentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InstallmentServiceClient {
	return &installmentServiceClient{
		listInstallments:      newClient[api.ListInstallmentsRequest, api.ListInstallmentsResponse](httpClient, baseURL, InstallmentServiceListInstallmentsProcedure, opts),
		listShareInstallments: newClient[api.ListShareInstallmentsRequest, api.ListShareInstallmentsResponse](httpClient, baseURL, InstallmentServiceListShareInstallmentsProcedure, opts),
		payInstallment:        newClient[api.PayInstallmentRequest, api.PayInstallmentResponse](httpClient, baseURL, InstallmentServicePayInstallmentProcedure, opts),
		checkOverdue:          newClient[api.CheckOverdueRequest, api.CheckOverdueResponse](httpClient, baseURL, InstallmentServiceCheckOverdueProcedure, opts),
	}
}

type installmentServiceClient struct {
	listInstallments      *connect.Client[api.ListInstallmentsRequest, api.ListInstallmentsResponse]
	listShareInstallments *connect.Client[api.ListShareInstallmentsRequest, api.ListShareInstallmentsResponse]
	payInstallment        *connect.Client[api.PayInstallmentRequest, api.PayInstallmentResponse]
	checkOverdue          *connect.Client[api.CheckOverdueRequest, api.CheckOverdueResponse]
}

func (c *installmentServiceClient) ListInstallments(ctx context.Context, req *connect.Request[api.ListInstallmentsRequest]) (*connect.Response[api.ListInstallmentsResponse], error) {
	return c.listInstallments.CallUnary(ctx, req)
}

func (c *installmentServiceClient) ListShareInstallments(ctx context.Context, req *connect.Request[api.ListShareInstallmentsRequest]) (*connect.Response[api.ListShareInstallmentsResponse], error) {
	return c.listShareInstallments.CallUnary(ctx, req)
}

func (c *installmentServiceClient) PayInstallment(ctx context.Context, req *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error) {
	return c.payInstallment.CallUnary(ctx, req)
}

func (c *installmentServiceClient) CheckOverdue(ctx context.Context, req *connect.Request[api.CheckOverdueRequest]) (*connect.Response[api.CheckOverdueResponse], error) {
	return c.checkOverdue.CallUnary(ctx, req)
}
