package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/policeoffice/policeoffice/internal/domain"
	"github.com/policeoffice/policeoffice/internal/ports"
)

// Reporter forwards error properties to the configured endpoint and falls
// back to appending a LogEntry to the local JSON log when that fails.
type Reporter struct {
	cfg       domain.Config
	transport ports.Transport
	writer    ports.DocumentWriter
	logger    ports.Logger

	now func() time.Time
	abs func(string) (string, error)
}

// NewReporter creates a Reporter. cfg is captured once and never re-read.
func NewReporter(cfg domain.Config, transport ports.Transport, writer ports.DocumentWriter, logger ports.Logger) *Reporter {
	return &Reporter{
		cfg:       cfg,
		transport: transport,
		writer:    writer,
		logger:    logger,
		now:       time.Now,
		abs:       filepath.Abs,
	}
}

// Config returns the configuration the reporter was built with.
func (r *Reporter) Config() domain.Config {
	return r.cfg
}

// LogPath returns the absolute path of the fallback log file.
func (r *Reporter) LogPath() (string, error) {
	return r.abs(r.cfg.Logs.RelativePath())
}

// Catch reports props. Remote failures of any kind are recovered by the
// fallback write and never returned; only a failing fallback write is.
func (r *Reporter) Catch(ctx context.Context, props domain.ErrorProperties) (domain.Result, error) {
	payload := domain.NewPayload(r.cfg.API.ExamplePayload, r.cfg.API.PayloadKey(), props)

	body, err := r.send(ctx, payload)
	if err == nil {
		if body == nil {
			body = map[string]any{"ok": true}
		}
		r.logger.Debug("error reported",
			ports.String("url", r.cfg.API.URL),
			ports.String("name", props.Name),
			ports.Any("response", body))
		return domain.Result{OK: true, Body: body}, nil
	}

	file, werr := r.fallback(ctx, err, payload, props)
	if werr != nil {
		r.logger.Error("fallback log write failed", ports.Err(werr), ports.String("reason", err.Error()))
		return domain.Result{}, werr
	}
	r.logger.Warn("error report fell back to log file",
		ports.String("reason", err.Error()),
		ports.Bool("remote_configured", r.cfg.API.URL != ""),
		ports.String("file", file))
	return domain.Result{OK: false, Logged: true, File: file}, nil
}

// send performs the remote call and returns the parsed response body,
// nil when the body is empty or not JSON.
func (r *Reporter) send(ctx context.Context, payload domain.Payload) (any, error) {
	if r.cfg.API.URL == "" {
		return nil, domain.ErrMissingURL
	}

	b, err := domain.EncodeJSON(payload, "")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := r.transport.Do(ctx, ports.Request{
		Method: http.MethodPost,
		URL:    r.cfg.API.URL,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   b,
	})
	if err != nil {
		return nil, &reportError{kind: domain.ErrTransport, msg: err.Error(), cause: err}
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		body = nil
	}
	obj, _ := body.(map[string]any)

	if !resp.OK() || obj["status"] == "error" {
		msg, _ := obj["message"].(string)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, &reportError{kind: domain.ErrRemoteRejected, msg: msg}
	}
	return body, nil
}

func (r *Reporter) fallback(ctx context.Context, cause error, payload domain.Payload, props domain.ErrorProperties) (string, error) {
	file, err := r.LogPath()
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	entry := domain.NewLogEntry(r.now(), cause.Error(), payload, props)
	if _, err := r.writer.Write(ctx, []domain.LogEntry{entry}, file); err != nil {
		return "", err
	}
	return file, nil
}

// reportError carries the message logged for a failed remote attempt
// together with its failure class.
type reportError struct {
	kind  error
	msg   string
	cause error
}

func (e *reportError) Error() string { return e.msg }

func (e *reportError) Is(target error) bool { return errors.Is(e.kind, target) }

func (e *reportError) Unwrap() error { return e.cause }
