package projects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dsanders11/project-actions/internal/gh"
)

// Domain errors. Returned errors satisfy errors.Is against these and, when a
// cause is attached, against the cause as well.
var (
	ErrFieldNotFound              = errors.New("field not found")
	ErrItemNotFound               = errors.New("item not found")
	ErrProjectNotFound            = errors.New("project not found")
	ErrRepositoryNotFound         = errors.New("repository not found")
	ErrSingleSelectOptionNotFound = errors.New("option not found")
	ErrTeamNotFound               = errors.New("team not found")
)

// Validation errors for malformed edits. These are never domain errors.
var (
	ErrFieldValuePair        = errors.New("must supply both field and fieldValue if either is provided")
	ErrNotDraftIssueContent  = errors.New("must use draft issue content id to edit title or body")
	ErrFieldWithContentEdit  = errors.New("cannot edit field at same time as title or body")
	ErrUnsupportedFieldType  = errors.New("unsupported field type")
	ErrInvalidRepositoryName = errors.New("repository must be in the form owner/name")
	ErrInvalidTeamName       = errors.New("team must be in the form org/slug")
)

// notFound wraps cause in a domain error, or returns kind itself without one.
func notFound(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// ClassifyCLIError maps a gh failure to a domain error by its message.
// Unrecognized errors are returned unchanged.
func ClassifyCLIError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to a ProjectV2"):
		return notFound(ErrProjectNotFound, err)
	case strings.Contains(msg, "Could not resolve to a Repository"):
		return notFound(ErrRepositoryNotFound, err)
	default:
		return err
	}
}

// notFoundError returns the first GraphQL error entry when err is a
// NOT_FOUND response error.
func notFoundError(err error) (gh.Error, bool) {
	var respErr *gh.ResponseError
	if !errors.As(err, &respErr) {
		return gh.Error{}, false
	}
	first, ok := respErr.First()
	if !ok || first.Type != gh.ErrorTypeNotFound {
		return gh.Error{}, false
	}
	return first, true
}

// Each classifier below interprets a NOT_FOUND path for one query shape only.
// The same path maps to a different entity depending on the query.

// classifyItemLookupError handles the project items query used by GetItem:
// projectV2 is the root node and projectV2.field the requested field.
func classifyItemLookupError(err error) error {
	if e, ok := notFoundError(err); ok {
		if len(e.Path) == 1 {
			return notFound(ErrProjectNotFound, err)
		}
		if len(e.Path) == 2 && e.Path[1] == "field" {
			return notFound(ErrFieldNotFound, err)
		}
	}
	return err
}

// classifyItemListingError handles the project-wide listings, where the only
// node that can be missing is the project.
func classifyItemListingError(err error) error {
	if _, ok := notFoundError(err); ok {
		return notFound(ErrProjectNotFound, err)
	}
	return err
}

// classifyFieldTypeError handles the item -> project -> field type query.
func classifyFieldTypeError(err error) error {
	if e, ok := notFoundError(err); ok {
		if len(e.Path) == 1 {
			return notFound(ErrProjectNotFound, err)
		}
		if len(e.Path) == 2 && e.Path[1] == "field" {
			return notFound(ErrFieldNotFound, err)
		}
	}
	return err
}

// classifySingleSelectOptionError handles the project -> field -> options query.
func classifySingleSelectOptionError(err error) error {
	if e, ok := notFoundError(err); ok {
		if len(e.Path) == 1 {
			return notFound(ErrProjectNotFound, err)
		}
		if len(e.Path) == 2 && e.Path[1] == "field" {
			return notFound(ErrFieldNotFound, err)
		}
	}
	return err
}

// classifyWorkflowLookupError handles the project -> workflow(s) queries.
func classifyWorkflowLookupError(err error) error {
	if e, ok := notFoundError(err); ok && len(e.Path) == 1 {
		return notFound(ErrProjectNotFound, err)
	}
	return err
}

// classifyRepositoryLookupError handles the repository id query.
func classifyRepositoryLookupError(err error) error {
	if _, ok := notFoundError(err); ok {
		return notFound(ErrRepositoryNotFound, err)
	}
	return err
}

// classifyTeamLookupError handles the organization -> team id query.
func classifyTeamLookupError(err error) error {
	if _, ok := notFoundError(err); ok {
		return notFound(ErrTeamNotFound, err)
	}
	return err
}
