package ports

import "net/http"

// HTTPClient executes the HTTP requests built by the JSON transport.
// The standard *http.Client satisfies this interface; tests substitute
// httptest servers or stubs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
