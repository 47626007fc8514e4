package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/pkg/api"
)

// HorseServiceName is the fully-qualified name of the HorseService.
const HorseServiceName = "horses.v1.HorseService"

const (
	HorseServiceCreateHorseProcedure = "/" + HorseServiceName + "/CreateHorse"
	HorseServiceGetHorseProcedure    = "/" + HorseServiceName + "/GetHorse"
	HorseServiceListHorsesProcedure  = "/" + HorseServiceName + "/ListHorses"
	HorseServiceUpdateHorseProcedure = "/" + HorseServiceName + "/UpdateHorse"
	HorseServiceDeleteHorseProcedure = "/" + HorseServiceName + "/DeleteHorse"
	HorseServiceAddShareProcedure    = "/" + HorseServiceName + "/AddShare"
	HorseServiceUpdateShareProcedure = "/" + HorseServiceName + "/UpdateShare"
	HorseServiceRemoveShareProcedure = "/" + HorseServiceName + "/RemoveShare"
)

// HorseServiceHandler manages horses, their buyer shares and schedules.
type HorseServiceHandler interface {
	CreateHorse(context.Context, *connect.Request[api.CreateHorseRequest]) (*connect.Response[api.CreateHorseResponse], error)
	GetHorse(context.Context, *connect.Request[api.GetHorseRequest]) (*connect.Response[api.GetHorseResponse], error)
	ListHorses(context.Context, *connect.Request[api.ListHorsesRequest]) (*connect.Response[api.ListHorsesResponse], error)
	UpdateHorse(context.Context, *connect.Request[api.UpdateHorseRequest]) (*connect.Response[api.UpdateHorseResponse], error)
	DeleteHorse(context.Context, *connect.Request[api.DeleteHorseRequest]) (*connect.Response[api.DeleteHorseResponse], error)
	AddShare(context.Context, *connect.Request[api.AddShareRequest]) (*connect.Response[api.AddShareResponse], error)
	UpdateShare(context.Context, *connect.Request[api.UpdateShareRequest]) (*connect.Response[api.UpdateShareResponse], error)
	RemoveShare(context.Context, *connect.Request[api.RemoveShareRequest]) (*connect.Response[api.RemoveShareResponse], error)
}

// NewHorseServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewHorseServiceHandler(svc HorseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + HorseServiceName + "/", route(map[string]http.Handler{
		HorseServiceCreateHorseProcedure: unary(HorseServiceCreateHorseProcedure, svc.CreateHorse, opts),
		HorseServiceGetHorseProcedure:    unary(HorseServiceGetHorseProcedure, svc.GetHorse, opts),
		HorseServiceListHorsesProcedure:  unary(HorseServiceListHorsesProcedure, svc.ListHorses, opts),
		HorseServiceUpdateHorseProcedure: unary(HorseServiceUpdateHorseProcedure, svc.UpdateHorse, opts),
		HorseServiceDeleteHorseProcedure: unary(HorseServiceDeleteHorseProcedure, svc.DeleteHorse, opts),
		HorseServiceAddShareProcedure:    unary(HorseServiceAddShareProcedure, svc.AddShare, opts),
		HorseServiceUpdateShareProcedure: unary(HorseServiceUpdateShareProcedure, svc.UpdateShare, opts),
		HorseServiceRemoveShareProcedure: unary(HorseServiceRemoveShareProcedure, svc.RemoveShare, opts),
	})
}

// HorseServiceClient is a client for the HorseService.
type HorseServiceClient interface {
	CreateHorse(context.Context, *connect.Request[api.CreateHorseRequest]) (*connect.Response[api.CreateHorseResponse], error)
	GetHorse(context.Context, *connect.Request[api.GetHorseRequest]) (*connect.Response[api.GetHorseResponse], error)
	ListHorses(context.Context, *connect.Request[api.ListHorsesRequest]) (*connect.Response[api.ListHorsesResponse], error)
	UpdateHorse(context.Context, *connect.Request[api.UpdateHorseRequest]) (*connect.Response[api.UpdateHorseResponse], error)
	DeleteHorse(context.Context, *connect.Request[api.DeleteHorseRequest]) (*connect.Response[api.DeleteHorseResponse], error)
	AddShare(context.Context, *connect.Request[api.AddShareRequest]) (*connect.Response[api.AddShareResponse], error)
	UpdateShare(context.Context, *connect.Request[api.UpdateShareRequest]) (*connect.Response[api.UpdateShareResponse], error)
	RemoveShare(context.Context, *connect.Request[api.RemoveShareRequest]) (*connect.Response[api.RemoveShareResponse], error)
}

// NewHorseServiceClient creates a client for the HorseService served at baseURL.
func NewHorseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HorseServiceClient {
	return &horseServiceClient{
		createHorse: newClient[api.CreateHorseRequest, api.CreateHorseResponse](httpClient, baseURL, HorseServiceCreateHorseProcedure, opts),
		getHorse:    newClient[api.GetHorseRequest, api.GetHorseResponse](httpClient, baseURL, HorseServiceGetHorseProcedure, opts),
		listHorses:  newClient[api.ListHorsesRequest, api.ListHorsesResponse](httpClient, baseURL, HorseServiceListHorsesProcedure, opts),
		updateHorse: newClient[api.UpdateHorseRequest, api.UpdateHorseResponse](httpClient, baseURL, HorseServiceUpdateHorseProcedure, opts),
		deleteHorse: newClient[api.DeleteHorseRequest, api.DeleteHorseResponse](httpClient, baseURL, HorseServiceDeleteHorseProcedure, opts),
		addShare:    newClient[api.AddShareRequest, api.AddShareResponse](httpClient, baseURL, HorseServiceAddShareProcedure, opts),
		updateShare: newClient[api.UpdateShareRequest, api.UpdateShareResponse](httpClient, baseURL, HorseServiceUpdateShareProcedure, opts),
		removeShare: newClient[api.RemoveShareRequest, api.RemoveShareResponse](httpClient, baseURL, HorseServiceRemoveShareProcedure, opts),
	}
}

type horseServiceClient struct {
	createHorse *connect.Client[api.CreateHorseRequest, api.CreateHorseResponse]
	getHorse    *connect.Client[api.GetHorseRequest, api.GetHorseResponse]
	listHorses  *connect.Client[api.ListHorsesRequest, api.ListHorsesResponse]
	updateHorse *connect.Client[api.UpdateHorseRequest, api.UpdateHorseResponse]
	deleteHorse *connect.Client[api.DeleteHorseRequest, api.DeleteHorseResponse]
	addShare    *connect.Client[api.AddShareRequest, api.AddShareResponse]
	updateShare *connect.Client[api.UpdateShareRequest, api.UpdateShareResponse]
	removeShare *connect.Client[api.RemoveShareRequest, api.RemoveShareResponse]
}

func (c *horseServiceClient) CreateHorse(ctx context.Context, req *connect.Request[api.CreateHorseRequest]) (*connect.Response[api.CreateHorseResponse], error) {
	return c.createHorse.CallUnary(ctx, req)
}

func (c *horseServiceClient) GetHorse(ctx context.Context, req *connect.Request[api.GetHorseRequest]) (*connect.Response[api.GetHorseResponse], error) {
	return c.getHorse.CallUnary(ctx, req)
}

func (c *horseServiceClient) ListHorses(ctx context.Context, req *connect.Request[api.ListHorsesRequest]) (*connect.Response[api.ListHorsesResponse], error) {
	return c.listHorses.CallUnary(ctx, req)
}

func (c *horseServiceClient) UpdateHorse(ctx context.Context, req *connect.Request[api.UpdateHorseRequest]) (*connect.Response[api.UpdateHorseResponse], error) {
	return c.updateHorse.CallUnary(ctx, req)
}

func (c *horseServiceClient) DeleteHorse(ctx context.Context, req *connect.Request[api.DeleteHorseRequest]) (*connect.Response[api.DeleteHorseResponse], error) {
	return c.deleteHorse.CallUnary(ctx, req)
}

func (c *horseServiceClient) AddShare(ctx context.Context, req *connect.Request[api.AddShareRequest]) (*connect.Response[api.AddShareResponse], error) {
	return c.addShare.CallUnary(ctx, req)
}

func (c *horseServiceClient) UpdateShare(ctx context.Context, req *connect.Request[api.UpdateShareRequest]) (*connect.Response[api.UpdateShareResponse], error) {
	return c.updateShare.CallUnary(ctx, req)
}

func (c *horseServiceClient) RemoveShare(ctx context.Context, req *connect.Request[api.RemoveShareRequest]) (*connect.Response[api.RemoveShareResponse], error) {
	return c.removeShare.CallUnary(ctx, req)
}
