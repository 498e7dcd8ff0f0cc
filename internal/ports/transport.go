package ports

import (
	"context"
	"net/http"
)

// Request describes one remote call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response describes the answer to a remote call.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r Response) OK() bool {
	return r.StatusCode/100 == 2
}

// Transport performs remote calls. A returned error means no response
// was received; non-2xx statuses are returned as a Response.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Do calls f(ctx, req).
func (f TransportFunc) Do(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
