package policeoffice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/policeoffice/policeoffice/internal/adapters/fs"
	httpAdapter "github.com/policeoffice/policeoffice/internal/adapters/http"
	logAdapter "github.com/policeoffice/policeoffice/internal/adapters/log"
	"github.com/policeoffice/policeoffice/internal/app"
	"github.com/policeoffice/policeoffice/internal/ports"
)

// Client reports errors with a fixed configuration.
// It holds no mutable state and is safe for concurrent use; concurrent
// fallback writes to the same log file are not serialized.
type Client struct {
	reporter *app.Reporter
	writer   ports.DocumentWriter
	logger   ports.Logger
}

// New creates a Client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	if o.transport == nil {
		if o.httpClient == nil {
			return nil, fmt.Errorf("policeoffice: nil HTTP client")
		}
		o.transport = httpAdapter.NewJSONSender(o.httpClient, logger)
	}
	if o.writer == nil {
		o.writer = fs.NewDurableWriter()
	}

	return &Client{
		reporter: app.NewReporter(cfg, o.transport, o.writer, logger),
		writer:   o.writer,
		logger:   logger,
	}, nil
}

// NewFromProvider loads the configuration once from p and creates a Client.
func NewFromProvider(ctx context.Context, p ConfigProvider, opts ...Option) (*Client, error) {
	cfg, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("policeoffice: load config: %w", err)
	}
	return New(cfg, opts...)
}

// NewZerologLogger adapts a zerolog.Logger for WithLogger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return logAdapter.NewZerologAdapter(l)
}

// Config returns the configuration the client was created with.
func (c *Client) Config() Config {
	return c.reporter.Config()
}

// LogPath returns the absolute path of the fallback log file.
func (c *Client) LogPath() (string, error) {
	return c.reporter.LogPath()
}

// Catch reports props to the remote endpoint, or appends them to the local
// log when the remote attempt fails. The error is non-nil only when that
// local write fails.
func (c *Client) Catch(ctx context.Context, props ErrorProperties) (Result, error) {
	return c.reporter.Catch(ctx, props)
}

// Write merges data into the file at path using the client's writer.
// See DocumentWriter for the merge rules.
func (c *Client) Write(ctx context.Context, data any, path string) (any, error) {
	return c.writer.Write(ctx, data, path)
}

// Properties builds the ErrorProperties reported for err.
func Properties(err error, fields map[string]any) ErrorProperties {
	return app.Properties(err, fields)
}
