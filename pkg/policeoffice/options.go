package policeoffice

import (
	"net/http"
	"time"

	"github.com/policeoffice/policeoffice/internal/app"
	"github.com/policeoffice/policeoffice/internal/domain"
	"github.com/policeoffice/policeoffice/internal/ports"
)

// Re-exported types so callers need a single import.
type (
	Config          = domain.Config
	APIConfig       = domain.APIConfig
	LogsConfig      = domain.LogsConfig
	ErrorProperties = domain.ErrorProperties
	Payload         = domain.Payload
	LogEntry        = domain.LogEntry
	Result          = domain.Result
	PanicError      = domain.PanicError

	Logger         = ports.Logger
	Field          = ports.Field
	HTTPClient     = ports.HTTPClient
	Transport      = ports.Transport
	TransportFunc  = ports.TransportFunc
	Request        = ports.Request
	Response       = ports.Response
	DocumentWriter = ports.DocumentWriter
	ConfigProvider = ports.ConfigProvider
	StaticConfig   = ports.StaticConfig

	GuardOption = app.GuardOption
)

// Errors returned or logged by the pipeline. See internal/domain for details.
var (
	ErrMissingURL      = domain.ErrMissingURL
	ErrTransport       = domain.ErrTransport
	ErrRemoteRejected  = domain.ErrRemoteRejected
	ErrCorruptDocument = domain.ErrCorruptDocument
	ErrNoOutcome       = domain.ErrNoOutcome
)

// DefaultHTTPTimeout is the timeout of the HTTP client used when none is supplied.
const DefaultHTTPTimeout = 15 * time.Second

// WithRethrow makes guarded calls return the original error after reporting it.
func WithRethrow() GuardOption {
	return app.WithRethrow()
}

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	httpClient ports.HTTPClient
	transport  ports.Transport
	writer     ports.DocumentWriter
	logger     ports.Logger
}

func defaultOptions() options {
	return options{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// WithHTTPClient sets the HTTP client used by the default JSON transport.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport replaces the remote call entirely. WithHTTPClient is then ignored.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithWriter replaces the durable writer used for fallback entries.
func WithWriter(w DocumentWriter) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
