package transport_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/swish/pkg/logger"
	"github.com/samandr77/microservices/swish/pkg/transport"
)

//nolint:paralleltest
func TestLoggingRoundTripper_RoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)

	now := time.Now().Format(time.DateOnly)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case "time":
				return slog.Attr{Key: a.Key, Value: slog.StringValue(now)}
			case "duration":
				return slog.Attr{Key: a.Key, Value: slog.StringValue("0s")}
			}

			return a
		},
	})))

	var gotRequestID string

	mux := http.NewServeMux()
	mux.HandleFunc("/paymentrequests/1", func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/paymentrequests/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"status": "PAID"}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := &http.Client{
		Timeout:   time.Second * 10,
		Transport: transport.NewLoggingRoundTripper(http.DefaultTransport),
	}

	ctx := logger.WithRequestID(context.Background(), "req-42")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, server.URL+"/paymentrequests/1",
		strings.NewReader(`{"amount": "100.00"}`))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	req, err = http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/paymentrequests/2", nil)
	require.NoError(t, err)

	resp2, err := client.Do(req)
	require.NoError(t, err)

	defer resp2.Body.Close()

	require.Equal(t, "req-42", gotRequestID)
	require.Equal(t,
		fmt.Sprintf(`{"time":"%s","level":"INFO","msg":"outgoing request","request":"PUT %s/paymentrequests/1"}
{"time":"%s","level":"INFO","msg":"incoming response","response":"PUT %s/paymentrequests/1","status":201,"duration":"0s"}
{"time":"%s","level":"INFO","msg":"outgoing request","request":"GET %s/paymentrequests/2"}
{"time":"%s","level":"INFO","msg":"incoming response","response":"GET %s/paymentrequests/2","status":200,"duration":"0s"}
`, now, server.URL, now, server.URL, now, server.URL, now, server.URL),
		buf.String())
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection reset by peer")
}

func TestLoggingRoundTripper_Error(t *testing.T) {
	t.Parallel()

	rt := transport.NewLoggingRoundTripper(failingTransport{})

	req := httptest.NewRequest(http.MethodGet, "https://example.com/x", nil)

	_, err := rt.RoundTrip(req)
	require.ErrorContains(t, err, "round trip: connection reset by peer")
}
