// Package gh provides a GraphQL client for the GitHub Projects v2 API.
// It is a thin adapter over machinebox/graphql: single queries through Query,
// cursor pagination through Paginate, and structured GraphQL errors surfaced
// as *ResponseError so callers can branch on error type and path.
package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// userAgent identifies the actions to the API.
const userAgent = "project-actions"

// Querier runs a single GraphQL document and decodes its data into resp.
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]any, resp any) error
}

// Options configure a Client.
type Options struct {
	URL                    string
	Retries                int
	RetryExemptStatusCodes []int
	Log                    zerolog.Logger
	// Transport is the innermost HTTP transport, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client is a GitHub GraphQL API client.
type Client struct {
	gql *graphql.Client
}

// New creates a new GitHub GraphQL client authenticating with token.
func New(token string, opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base: newRetryTransport(
				&errorTransport{base: base},
				opts.Retries,
				opts.RetryExemptStatusCodes,
				opts.Log,
			),
		},
	}

	gql := graphql.NewClient(opts.URL, graphql.WithHTTPClient(httpClient))
	log := opts.Log
	gql.Log = func(s string) {
		log.Debug().Msg(s)
	}

	return &Client{gql: gql}
}

// Query executes a GraphQL document. GraphQL-level failures are returned as
// *ResponseError, unwrapped from the HTTP layer.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, resp any) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set("User-Agent", userAgent)

	if err := c.gql.Run(ctx, req, resp); err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			return respErr
		}
		return fmt.Errorf("graphql request failed: %w", err)
	}

	return nil
}
