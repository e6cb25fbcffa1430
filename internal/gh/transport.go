package gh

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// errorTransport decodes GraphQL error payloads into *ResponseError.
// machinebox/graphql only keeps the first error's message, dropping the
// type and path that NOT_FOUND classification needs.
type errorTransport struct {
	base http.RoundTripper
}

func (t *errorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		Errors []Error `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Errors) > 0 {
		return nil, &ResponseError{StatusCode: res.StatusCode, Errors: payload.Errors}
	}

	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}

// retryTransport retries failed HTTP requests with exponential backoff.
// Responses with an exempt status code and GraphQL errors are never retried.
type retryTransport struct {
	base       http.RoundTripper
	retries    int
	exempt     map[int]bool
	log        zerolog.Logger
	newBackOff func() backoff.BackOff
}

func newRetryTransport(base http.RoundTripper, retries int, exemptStatusCodes []int, log zerolog.Logger) http.RoundTripper {
	if retries <= 0 {
		return base
	}

	exempt := make(map[int]bool, len(exemptStatusCodes))
	for _, code := range exemptStatusCodes {
		exempt[code] = true
	}

	log.Debug().
		Int("retries", retries).
		Ints("retry_exempt_status_codes", exemptStatusCodes).
		Msg("GitHub client configured with retries")

	return &retryTransport{
		base:    base,
		retries: retries,
		exempt:  exempt,
		log:     log,
		newBackOff: func() backoff.BackOff {
			// BackOff implementations are stateful; always return a fresh instance.
			return backoff.NewExponentialBackOff()
		},
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	bo := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.retries)), req.Context())

	var last *http.Response
	attempt := 0

	err := backoff.Retry(func() error {
		attempt++

		r := req
		if attempt > 1 {
			if req.Body != nil && req.GetBody == nil {
				return backoff.Permanent(errors.New("request body cannot be replayed"))
			}
			r = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				r.Body = body
			}
		}

		res, err := t.base.RoundTrip(r)
		if err != nil {
			if last != nil {
				_ = last.Body.Close()
				last = nil
			}
			var respErr *ResponseError
			if errors.As(err, &respErr) {
				return backoff.Permanent(err)
			}
			t.log.Debug().Err(err).Int("attempt", attempt).Msg("request failed, retrying")
			return err
		}

		if res.StatusCode < 400 || t.exempt[res.StatusCode] {
			if last != nil {
				_ = last.Body.Close()
			}
			last = res
			return nil
		}

		if last != nil {
			_ = last.Body.Close()
		}
		last = res
		t.log.Debug().Int("status", res.StatusCode).Int("attempt", attempt).Msg("request failed, retrying")
		return fmt.Errorf("server returned status %d", res.StatusCode)
	}, bo)

	// Exhausted retries on a bad status: hand the last response to the caller.
	if last != nil {
		return last, nil
	}
	return nil, err
}
