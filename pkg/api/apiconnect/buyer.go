package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/pkg/api"
)

// BuyerServiceName is the fully-qualified name of the BuyerService.
const BuyerServiceName = "horses.v1.BuyerService"

const (
	BuyerServiceCreateBuyerProcedure     = "/" + BuyerServiceName + "/CreateBuyer"
	BuyerServiceGetBuyerProcedure        = "/" + BuyerServiceName + "/GetBuyer"
	BuyerServiceListBuyersProcedure      = "/" + BuyerServiceName + "/ListBuyers"
	BuyerServiceUpdateBuyerProcedure     = "/" + BuyerServiceName + "/UpdateBuyer"
	BuyerServiceDeleteBuyerProcedure     = "/" + BuyerServiceName + "/DeleteBuyer"
	BuyerServiceGetBuyerBalanceProcedure = "/" + BuyerServiceName + "/GetBuyerBalance"
)

// BuyerServiceHandler manages buyers and their balances.
type BuyerServiceHandler interface {
	CreateBuyer(context.Context, *connect.Request[api.CreateBuyerRequest]) (*connect.Response[api.CreateBuyerResponse], error)
	GetBuyer(context.Context, *connect.Request[api.GetBuyerRequest]) (*connect.Response[api.GetBuyerResponse], error)
	ListBuyers(context.Context, *connect.Request[api.ListBuyersRequest]) (*connect.Response[api.ListBuyersResponse], error)
	UpdateBuyer(context.Context, *connect.Request[api.UpdateBuyerRequest]) (*connect.Response[api.UpdateBuyerResponse], error)
	DeleteBuyer(context.Context, *connect.Request[api.DeleteBuyerRequest]) (*connect.Response[api.DeleteBuyerResponse], error)
	GetBuyerBalance(context.Context, *connect.Request[api.GetBuyerBalanceRequest]) (*connect.Response[api.GetBuyerBalanceResponse], error)
}

// NewBuyerServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewBuyerServiceHandler(svc BuyerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + BuyerServiceName + "/", route(map[string]http.Handler{
		BuyerServiceCreateBuyerProcedure:     unary(BuyerServiceCreateBuyerProcedure, svc.CreateBuyer, opts),
		BuyerServiceGetBuyerProcedure:        unary(BuyerServiceGetBuyerProcedure, svc.GetBuyer, opts),
		BuyerServiceListBuyersProcedure:      unary(BuyerServiceListBuyersProcedure, svc.ListBuyers, opts),
		BuyerServiceUpdateBuyerProcedure:     unary(BuyerServiceUpdateBuyerProcedure, svc.UpdateBuyer, opts),
		BuyerServiceDeleteBuyerProcedure:     unary(BuyerServiceDeleteBuyerProcedure, svc.DeleteBuyer, opts),
		BuyerServiceGetBuyerBalanceProcedure: unary(BuyerServiceGetBuyerBalanceProcedure, svc.GetBuyerBalance, opts),
	})
}

// BuyerServiceClient is a client for the BuyerService.
type BuyerServiceClient interface {
	CreateBuyer(context.Context, *connect.Request[api.CreateBuyerRequest]) (*connect.Response[api.CreateBuyerResponse], error)
	GetBuyer(context.Context, *connect.Request[api.GetBuyerRequest]) (*connect.Response[api.GetBuyerResponse], error)
	ListBuyers(context.Context, *connect.Request[api.ListBuyersRequest]) (*connect.Response[api.ListBuyersResponse], error)
	UpdateBuyer(context.Context, *connect.Request[api.UpdateBuyerRequest]) (*connect.Response[api.UpdateBuyerResponse], error)
	DeleteBuyer(context.Context, *connect.Request[api.DeleteBuyerRequest]) (*connect.Response[api.DeleteBuyerResponse], error)
	GetBuyerBalance(context.Context, *connect.Request[api.GetBuyerBalanceRequest]) (*connect.Response[api.GetBuyerBalanceResponse], error)
}

// NewBuyerServiceClient creates a client for the BuyerService served at baseURL.
func NewBuyerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BuyerServiceClient {
	return &buyerServiceClient{
		createBuyer:     newClient[api.CreateBuyerRequest, api.CreateBuyerResponse](httpClient, baseURL, BuyerServiceCreateBuyerProcedure, opts),
		getBuyer:        newClient[api.GetBuyerRequest, api.GetBuyerResponse](httpClient, baseURL, BuyerServiceGetBuyerProcedure, opts),
		listBuyers:      newClient[api.ListBuyersRequest, api.ListBuyersResponse](httpClient, baseURL, BuyerServiceListBuyersProcedure, opts),
		updateBuyer:     newClient[api.UpdateBuyerRequest, api.UpdateBuyerResponse](httpClient, baseURL, BuyerServiceUpdateBuyerProcedure, opts),
		deleteBuyer:     newClient[api.DeleteBuyerRequest, api.DeleteBuyerResponse](httpClient, baseURL, BuyerServiceDeleteBuyerProcedure, opts),
		getBuyerBalance: newClient[api.GetBuyerBalanceRequest, api.GetBuyerBalanceResponse](httpClient, baseURL, BuyerServiceGetBuyerBalanceProcedure, opts),
	}
}

type buyerServiceClient struct {
	createBuyer     *connect.Client[api.CreateBuyerRequest, api.CreateBuyerResponse]
	getBuyer        *connect.Client[api.GetBuyerRequest, api.GetBuyerResponse]
	listBuyers      *connect.Client[api.ListBuyersRequest, api.ListBuyersResponse]
	updateBuyer     *connect.Client[api.UpdateBuyerRequest, api.UpdateBuyerResponse]
	deleteBuyer     *connect.Client[api.DeleteBuyerRequest, api.DeleteBuyerResponse]
	getBuyerBalance *connect.Client[api.GetBuyerBalanceRequest, api.GetBuyerBalanceResponse]
}

func (c *buyerServiceClient) CreateBuyer(ctx context.Context, req *connect.Request[api.CreateBuyerRequest]) (*connect.Response[api.CreateBuyerResponse], error) {
	return c.createBuyer.CallUnary(ctx, req)
}

func (c *buyerServiceClient) GetBuyer(ctx context.Context, req *connect.Request[api.GetBuyerRequest]) (*connect.Response[api.GetBuyerResponse], error) {
	return c.getBuyer.CallUnary(ctx, req)
}

func (c *buyerServiceClient) ListBuyers(ctx context.Context, req *connect.Request[api.ListBuyersRequest]) (*connect.Response[api.ListBuyersResponse], error) {
	return c.listBuyers.CallUnary(ctx, req)
}

func (c *buyerServiceClient) UpdateBuyer(ctx context.Context, req *connect.Request[api.UpdateBuyerRequest]) (*connect.Response[api.UpdateBuyerResponse], error) {
	return c.updateBuyer.CallUnary(ctx, req)
}

func (c *buyerServiceClient) DeleteBuyer(ctx context.Context, req *connect.Request[api.DeleteBuyerRequest]) (*connect.Response[api.DeleteBuyerResponse], error) {
	return c.deleteBuyer.CallUnary(ctx, req)
}

func (c *buyerServiceClient) GetBuyerBalance(ctx context.Context, req *connect.Request[api.GetBuyerBalanceRequest]) (*connect.Response[api.GetBuyerBalanceResponse], error) {
	return c.getBuyerBalance.CallUnary(ctx, req)
}
