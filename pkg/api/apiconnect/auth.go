package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/linqfy/horsesShit/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "horses.v1.AuthService"

const (
	AuthServiceRegisterProcedure           = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure              = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure             = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentOperatorProcedure = "/" + AuthServiceName + "/GetCurrentOperator"
)

// AuthServiceHandler registers and logs in operators.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentOperator(context.Context, *connect.Request[api.GetCurrentOperatorRequest]) (*connect.Response[api.GetCurrentOperatorResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc. It returns the path to
// mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + AuthServiceName + "/", route(map[string]http.Handler{
		AuthServiceRegisterProcedure:           unary(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:              unary(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceLogoutProcedure:             unary(AuthServiceLogoutProcedure, svc.Logout, opts),
		AuthServiceGetCurrentOperatorProcedure: unary(AuthServiceGetCurrentOperatorProcedure, svc.GetCurrentOperator, opts),
	})
}

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentOperator(context.Context, *connect.Request[api.GetCurrentOperatorRequest]) (*connect.Response[api.GetCurrentOperatorResponse], error)
}

// NewAuthServiceClient creates a client for the AuthService served at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	return &authServiceClient{
		register:           newClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:              newClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		logout:             newClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, opts),
		getCurrentOperator: newClient[api.GetCurrentOperatorRequest, api.GetCurrentOperatorResponse](httpClient, baseURL, AuthServiceGetCurrentOperatorProcedure, opts),
	}
}

type authServiceClient struct {
	register           *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login              *connect.Client[api.LoginRequest, api.LoginResponse]
	logout             *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentOperator *connect.Client[api.GetCurrentOperatorRequest, api.GetCurrentOperatorResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentOperator(ctx context.Context, req *connect.Request[api.GetCurrentOperatorRequest]) (*connect.Response[api.GetCurrentOperatorResponse], error) {
	return c.getCurrentOperator.CallUnary(ctx, req)
}
