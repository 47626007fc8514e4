// Package apiconnect wires the horses.v1 services to Connect handlers and
// clients. Messages are plain Go structs encoded as JSON.
package apiconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Codec encodes messages with encoding/json under the "json" name, so Connect
// uses it for application/json requests.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

var withJSON = connect.WithCodec(Codec{})

func unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler(procedure, fn, append([]connect.HandlerOption{withJSON}, opts...)...)
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](
		httpClient,
		strings.TrimRight(baseURL, "/")+procedure,
		append([]connect.ClientOption{withJSON}, opts...)...,
	)
}

// route serves each procedure path with its handler and 404s the rest.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
