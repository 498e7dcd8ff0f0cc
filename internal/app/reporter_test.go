package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policeoffice/policeoffice/internal/adapters/fs"
	httpAdapter "github.com/policeoffice/policeoffice/internal/adapters/http"
	logAdapter "github.com/policeoffice/policeoffice/internal/adapters/log"
	"github.com/policeoffice/policeoffice/internal/domain"
	"github.com/policeoffice/policeoffice/internal/ports"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

// newTestReporter resolves log paths under dir instead of the working directory.
func newTestReporter(t *testing.T, cfg domain.Config, transport ports.Transport, writer ports.DocumentWriter) (*Reporter, string) {
	t.Helper()
	dir := t.TempDir()
	if writer == nil {
		writer = fs.NewDurableWriter()
	}
	r := NewReporter(cfg, transport, writer, logAdapter.NewNoopLogger())
	r.now = func() time.Time { return fixedNow }
	r.abs = func(p string) (string, error) {
		if filepath.IsAbs(p) {
			return p, nil
		}
		return filepath.Join(dir, p), nil
	}
	return r, dir
}

func respond(status int, body string) ports.Transport {
	return ports.TransportFunc(func(context.Context, ports.Request) (ports.Response, error) {
		return ports.Response{StatusCode: status, Body: []byte(body)}, nil
	})
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	return entries
}

func TestReporter_MissingURLFallsBack(t *testing.T) {
	called := false
	transport := ports.TransportFunc(func(context.Context, ports.Request) (ports.Response, error) {
		called = true
		return ports.Response{StatusCode: 200}, nil
	})
	r, dir := newTestReporter(t, domain.Config{Logs: domain.LogsConfig{FileName: "err log!"}}, transport, nil)

	res, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "Error", Message: "boom"})
	require.NoError(t, err)

	assert.False(t, called, "no network attempt without api.url")
	want := filepath.Join(dir, "logs", "err_log_.json")
	assert.Equal(t, domain.Result{OK: false, Logged: true, File: want}, res)

	entries := readEntries(t, want)
	require.Len(t, entries, 1)
	assert.Equal(t, "missing api.url in config", entries[0]["message"])
	assert.Equal(t, "2024-05-01T10:00:00.123Z", entries[0]["when"])
	assert.Equal(t, "boom", entries[0]["error"].(map[string]any)["message"])
}

func TestReporter_Success(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "json body returned", body: `{"status":"ok","id":"42"}`, want: map[string]any{"status": "ok", "id": "42"}},
		{name: "empty body", body: ``, want: map[string]any{"ok": true}},
		{name: "non-json body", body: `accepted`, want: map[string]any{"ok": true}},
		{name: "json array body", body: `[1]`, want: []any{float64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{API: domain.APIConfig{URL: "http://collector"}}
			r, dir := newTestReporter(t, cfg, respond(http.StatusOK, tt.body), nil)

			res, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
			require.NoError(t, err)

			assert.True(t, res.OK)
			assert.False(t, res.Logged)
			assert.Equal(t, tt.want, res.Body)
			_, statErr := os.Stat(filepath.Join(dir, "logs"))
			assert.True(t, os.IsNotExist(statErr), "no log written on success")
		})
	}
}

func TestReporter_FailureMessages(t *testing.T) {
	tests := []struct {
		name      string
		transport ports.Transport
		want      string
	}{
		{
			name:      "application error with message",
			transport: respond(http.StatusOK, `{"status":"error","message":"rejected"}`),
			want:      "rejected",
		},
		{
			name:      "application error without message",
			transport: respond(http.StatusOK, `{"status":"error"}`),
			want:      "HTTP 200",
		},
		{
			name:      "non-2xx with json message",
			transport: respond(http.StatusBadRequest, `{"message":"bad payload"}`),
			want:      "bad payload",
		},
		{
			name:      "non-2xx without body",
			transport: respond(http.StatusServiceUnavailable, ``),
			want:      "HTTP 503",
		},
		{
			name: "transport error",
			transport: ports.TransportFunc(func(context.Context, ports.Request) (ports.Response, error) {
				return ports.Response{}, errors.New("dial tcp: connection refused")
			}),
			want: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{API: domain.APIConfig{URL: "http://collector"}}
			r, _ := newTestReporter(t, cfg, tt.transport, nil)

			res, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
			require.NoError(t, err)
			require.True(t, res.Logged)

			entries := readEntries(t, res.File)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0]["message"])
		})
	}
}

func TestReporter_PayloadAndRequest(t *testing.T) {
	var got ports.Request
	transport := ports.TransportFunc(func(_ context.Context, req ports.Request) (ports.Response, error) {
		got = req
		return ports.Response{StatusCode: 500}, nil
	})
	cfg := domain.Config{API: domain.APIConfig{
		URL:              "http://collector/errors",
		ExamplePayload:   map[string]any{"app": "shop", "err": "placeholder"},
		PayloadErrorName: "err",
	}}
	r, _ := newTestReporter(t, cfg, transport, nil)
	props := domain.ErrorProperties{Name: "E", Message: "m", Fields: map[string]any{"route": "/cart"}}

	res, err := r.Catch(context.Background(), props)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "http://collector/errors", got.URL)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"app":"shop","err":{"name":"E","message":"m","route":"/cart"}}`, string(got.Body))
	assert.Equal(t, "placeholder", cfg.API.ExamplePayload["err"], "template is not mutated")

	entries := readEntries(t, res.File)
	assert.Equal(t, map[string]any{
		"app": "shop",
		"err": map[string]any{"name": "E", "message": "m", "route": "/cart"},
	}, entries[0]["payload"])
	assert.Equal(t, "HTTP 500", entries[0]["message"])
}

func TestReporter_AppendsToExistingLog(t *testing.T) {
	r, dir := newTestReporter(t, domain.Config{}, nil, nil)
	path := filepath.Join(dir, "logs", "log.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`[{"message":"earlier"}]`), 0o644))

	for i := 0; i < 2; i++ {
		_, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
		require.NoError(t, err)
	}

	entries := readEntries(t, path)
	require.Len(t, entries, 3)
	assert.Equal(t, "earlier", entries[0]["message"])
}

func TestReporter_ObjectLogGetsMergedEntry(t *testing.T) {
	r, dir := newTestReporter(t, domain.Config{}, nil, nil)
	path := filepath.Join(dir, "logs", "log.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"owner":"ops"}`), 0o644))

	_, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "ops", doc["owner"])
	assert.Len(t, doc["value"], 1)
}

type failingWriter struct{ err error }

func (w failingWriter) Write(context.Context, any, string) (any, error) { return nil, w.err }

func TestReporter_FallbackFailurePropagates(t *testing.T) {
	diskFull := errors.New("no space left on device")
	r, _ := newTestReporter(t, domain.Config{}, nil, failingWriter{err: diskFull})

	_, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
	assert.ErrorIs(t, err, diskFull)
}

func TestReporter_CorruptLogPropagates(t *testing.T) {
	r, dir := newTestReporter(t, domain.Config{}, nil, nil)
	path := filepath.Join(dir, "logs", "log.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{oops`), 0o644))

	_, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestReporter_SendClassifiesFailures(t *testing.T) {
	r, _ := newTestReporter(t, domain.Config{}, nil, nil)
	_, err := r.send(context.Background(), domain.Payload{})
	assert.ErrorIs(t, err, domain.ErrMissingURL)

	cfg := domain.Config{API: domain.APIConfig{URL: "http://collector"}}
	r, _ = newTestReporter(t, cfg, respond(http.StatusOK, `{"status":"error"}`), nil)
	_, err = r.send(context.Background(), domain.Payload{})
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)

	dial := errors.New("dial")
	r, _ = newTestReporter(t, cfg, ports.TransportFunc(func(context.Context, ports.Request) (ports.Response, error) {
		return ports.Response{}, dial
	}), nil)
	_, err = r.send(context.Background(), domain.Payload{})
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, dial)
}

func TestReporter_OverHTTP(t *testing.T) {
	var received map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","message":"rejected"}`))
	}))
	defer ts.Close()

	cfg := domain.Config{API: domain.APIConfig{URL: ts.URL}}
	transport := httpAdapter.NewJSONSender(ts.Client(), logAdapter.NewNoopLogger())
	r, _ := newTestReporter(t, cfg, transport, nil)

	res, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "boom"})
	require.NoError(t, err)

	assert.Equal(t, "boom", received["data"].(map[string]any)["message"])
	require.True(t, res.Logged)
	entries := readEntries(t, res.File)
	require.Len(t, entries, 1)
	assert.Equal(t, "rejected", entries[0]["message"])
}

func TestReporter_AbsoluteFolderNameIgnoresWorkingDirectory(t *testing.T) {
	target := t.TempDir()
	cfg := domain.Config{Logs: domain.LogsConfig{FolderPath: "nested", FolderName: target}}
	r := NewReporter(cfg, nil, fs.NewDurableWriter(), logAdapter.NewNoopLogger())

	path, err := r.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "log.json"), path)

	res, err := r.Catch(context.Background(), domain.ErrorProperties{Name: "E", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, path, res.File)
	require.Len(t, readEntries(t, path), 1)
}
