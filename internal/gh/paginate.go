package gh

import (
	"context"
	"errors"
	"iter"
	"maps"
)

// ErrMissingCursor is yielded when a page reports more pages but no cursor.
var ErrMissingCursor = errors.New("next page reported without an end cursor")

// PageInfo is the forward pagination state of a GraphQL connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Paginate lazily fetches the pages of a cursor-paginated query.
//
// The query must declare a `$cursor: String` variable and pass it as the
// connection's `after` argument. pageInfo extracts the connection's PageInfo
// from a decoded page. Each call starts a fresh traversal from vars; pages are
// fetched one at a time and only while the previous page reported more.
// A failed fetch, or a page that reports more without a cursor, is yielded
// once as an error and ends the sequence.
func Paginate[T any](ctx context.Context, q Querier, query string, vars map[string]any, pageInfo func(*T) PageInfo) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		var cursor any

		for {
			pageVars := maps.Clone(vars)
			if pageVars == nil {
				pageVars = make(map[string]any, 1)
			}
			pageVars["cursor"] = cursor

			page := new(T)
			if err := q.Query(ctx, query, pageVars, page); err != nil {
				yield(nil, err)
				return
			}

			if !yield(page, nil) {
				return
			}

			info := pageInfo(page)
			if !info.HasNextPage {
				return
			}
			if info.EndCursor == "" {
				yield(nil, ErrMissingCursor)
				return
			}
			cursor = info.EndCursor
		}
	}
}
