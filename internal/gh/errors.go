package gh

import (
	"strings"
)

// ErrorTypeNotFound is the GraphQL error type GitHub reports for missing nodes.
const ErrorTypeNotFound = "NOT_FOUND"

// Error is one entry of a GraphQL response's errors list.
type Error struct {
	Type    string `json:"type"`
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// ResponseError is returned when a GraphQL response carries errors.
type ResponseError struct {
	StatusCode int
	Errors     []Error
}

func (e *ResponseError) Error() string {
	var sb strings.Builder
	sb.WriteString("Request failed due to following response errors:")
	for _, err := range e.Errors {
		sb.WriteString("\n - ")
		sb.WriteString(err.Message)
	}
	return sb.String()
}

// First returns the first error entry, which is what GitHub uses to describe
// the failure, and false when there are none.
func (e *ResponseError) First() (Error, bool) {
	if len(e.Errors) == 0 {
		return Error{}, false
	}
	return e.Errors[0], true
}
