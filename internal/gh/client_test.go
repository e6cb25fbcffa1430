package gh

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newClientWithTransport(url string, rt http.RoundTripper) *graphql.Client {
	return graphql.NewClient(url, graphql.WithHTTPClient(&http.Client{Transport: rt}))
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req graphqlRequest, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		handler(w, req, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Query(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
		assert.Equal(t, "Bearer ghp_token", r.Header.Get("Authorization"))
		assert.Equal(t, "project-actions", r.Header.Get("User-Agent"))
		assert.Equal(t, "dsanders11", req.Variables["owner"])
		_, _ = w.Write([]byte(`{"data":{"repository":{"id":"R_1"}}}`))
	})

	client := New("ghp_token", Options{URL: srv.URL, Log: zerolog.Nop()})

	var resp struct {
		Repository struct {
			ID string `json:"id"`
		} `json:"repository"`
	}
	err := client.Query(context.Background(), `query { repository { id } }`, map[string]any{"owner": "dsanders11"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "R_1", resp.Repository.ID)
}

func TestClient_Query_ResponseError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {"projectV2": null},
			"errors": [{
				"type": "NOT_FOUND",
				"path": ["projectV2", "field"],
				"message": "Could not resolve to a node with the global id of 'foo'"
			}]
		}`))
	})

	client := New("ghp_token", Options{URL: srv.URL, Log: zerolog.Nop()})

	var resp struct{}
	err := client.Query(context.Background(), `query { projectV2 { id } }`, nil, &resp)
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	first, ok := respErr.First()
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, first.Type)
	assert.Equal(t, []any{"projectV2", "field"}, first.Path)
	assert.Contains(t, err.Error(), "Could not resolve to a node")
}

func TestClient_Query_HTTPFailure(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	client := New("ghp_token", Options{URL: srv.URL, Log: zerolog.Nop()})

	var resp struct{}
	err := client.Query(context.Background(), `query { viewer { login } }`, nil, &resp)
	require.Error(t, err)

	var respErr *ResponseError
	assert.False(t, errors.As(err, &respErr))
}

func TestRetryTransport(t *testing.T) {
	newTransport := func(retries int, exempt ...int) *retryTransport {
		rt := newRetryTransport(&errorTransport{base: http.DefaultTransport}, retries, exempt, zerolog.Nop()).(*retryTransport)
		rt.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
		return rt
	}

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"viewer":{"login":"octocat"}}}`))
		})

		client := &Client{gql: newClientWithTransport(srv.URL, newTransport(3))}

		var resp struct {
			Viewer struct {
				Login string `json:"login"`
			} `json:"viewer"`
		}
		require.NoError(t, client.Query(context.Background(), `query { viewer { login } }`, nil, &resp))
		assert.Equal(t, "octocat", resp.Viewer.Login)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("exempt status codes are not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		})

		client := &Client{gql: newClientWithTransport(srv.URL, newTransport(3, http.StatusNotFound))}

		var resp struct{}
		assert.Error(t, client.Query(context.Background(), `query { viewer { login } }`, nil, &resp))
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("graphql errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"errors":[{"type":"NOT_FOUND","path":["repository"],"message":"nope"}]}`))
		})

		client := &Client{gql: newClientWithTransport(srv.URL, newTransport(3))}

		var resp struct{}
		err := client.Query(context.Background(), `query { repository { id } }`, nil, &resp)
		var respErr *ResponseError
		assert.True(t, errors.As(err, &respErr))
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("gives up after retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, req graphqlRequest, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		client := &Client{gql: newClientWithTransport(srv.URL, newTransport(2))}

		var resp struct{}
		assert.Error(t, client.Query(context.Background(), `query { viewer { login } }`, nil, &resp))
		assert.EqualValues(t, 3, calls.Load())
	})
}

func TestNewRetryTransport_Disabled(t *testing.T) {
	base := &errorTransport{base: http.DefaultTransport}
	assert.Same(t, base, newRetryTransport(base, 0, nil, zerolog.Nop()))
}
