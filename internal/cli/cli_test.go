package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/swish/internal/cli"
	"github.com/samandr77/microservices/swish/internal/clients/swish"
	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/pkg/config"
)

const testID = "0123456789ABCDEF0123456789ABCDEF"

func setEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SWISH_PAYEE_ALIAS", "1231181189")
	t.Setenv("SWISH_CALLBACK_URL", "https://merchant.example.com/swish/callback")
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	factory := func(cfg config.Swish) (*swish.Client, error) {
		require.Equal(t, "1231181189", cfg.PayeeAlias)
		return swish.NewClient(srv.URL, nil, swish.WithHTTPClient(srv.Client())), nil
	}

	var out bytes.Buffer

	cmd := cli.NewRootCmd(factory)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestCreate_Wait(t *testing.T) { //nolint:paralleltest
	setEnv(t)

	var gets atomic.Int32

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.Header().Set("Location", "/paymentrequests/"+testID)
			w.WriteHeader(http.StatusCreated)

			return
		}

		status := "CREATED"
		if gets.Add(1) > 2 {
			status = "PAID"
		}

		_, _ = io.WriteString(w, `{"id":"`+testID+`","status":"`+status+`","amount":100,"currency":"SEK"}`)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, srv, "create", "--amount", "100", "--payer", "46712345678",
		"--wait", "--interval", "1ms", "--max-interval", "2ms")
	require.NoError(t, err)
	require.GreaterOrEqual(t, gets.Load(), int32(3))

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	require.Equal(t, "PAID", state["status"])
	require.Equal(t, "100.00", state["amount"])
}

func TestCreate_Rejected(t *testing.T) { //nolint:paralleltest
	setEnv(t)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `[{"errorCode":"ACMT03","errorMessage":"Payer not Enrolled"}]`)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, srv, "create", "--amount", "100", "--payer", "46712345678")
	require.ErrorIs(t, err, entity.ErrApplication)
	require.Contains(t, out, "ACMT03")
}

func TestStatus(t *testing.T) { //nolint:paralleltest
	setEnv(t)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"`+testID+`","status":"DECLINED"}`)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, srv, "status", srv.URL+"/paymentrequests/"+testID)
	require.NoError(t, err)
	require.Contains(t, out, `"status": "DECLINED"`)

	_, err = run(t, srv, "status")
	require.Error(t, err)
}

func TestMissingConfig(t *testing.T) { //nolint:paralleltest
	for _, key := range []string{"SWISH_PAYEE_ALIAS", "SWISH_CALLBACK_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	srv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := run(t, srv, "status", srv.URL)
	require.ErrorContains(t, err, "load config")
}
