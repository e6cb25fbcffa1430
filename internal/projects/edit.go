package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsanders11/project-actions/internal/domain"
)

// EditItem edits an item's title and body, or sets one of its fields, and
// returns the edited ID.
//
// itemID is the item ID for field edits, and the draft issue content ID for
// title and body edits.
//
// Errors: ErrFieldNotFound, ErrItemNotFound, ErrProjectNotFound,
// ErrSingleSelectOptionNotFound.
func (s *Service) EditItem(ctx context.Context, projectID, itemID string, edit domain.ItemEdit) (string, error) {
	if (edit.Field == "") != (edit.FieldValue == "") {
		return "", ErrFieldValuePair
	}

	args := []string{
		"project", "item-edit",
		"--id", itemID,
		"--project-id", projectID,
		"--format", "json",
	}

	if edit.EditsContent() {
		if !strings.HasPrefix(itemID, domain.DraftIssueContentPrefix) {
			return "", ErrNotDraftIssueContent
		}
		if edit.Field != "" {
			return "", ErrFieldWithContentEdit
		}

		if edit.Title != nil {
			args = append(args, "--title", *edit.Title)
		}
		if edit.Body != nil {
			args = append(args, "--body", *edit.Body)
		}
	}

	if edit.Field != "" {
		fieldArgs, err := s.fieldEditArgs(ctx, projectID, itemID, edit.Field, edit.FieldValue)
		if err != nil {
			return "", err
		}
		args = append(args, fieldArgs...)
	}

	out, err := s.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return decodeID(out)
}

// fieldEditArgs resolves the field and converts value to the gh flags for its type.
func (s *Service) fieldEditArgs(ctx context.Context, projectID, itemID, field, value string) ([]string, error) {
	descriptor, err := s.fieldDescriptor(ctx, itemID, field)
	if err != nil {
		return nil, err
	}

	args := []string{"--field-id", descriptor.ID}

	switch descriptor.DataType {
	case domain.FieldTypeDate:
		date, err := calendarDate(value)
		if err != nil {
			return nil, err
		}
		args = append(args, "--date", date)

	case domain.FieldTypeNumber:
		args = append(args, "--number", value)

	case domain.FieldTypeText:
		args = append(args, "--text", value)

	case domain.FieldTypeSingleSelect:
		optionID, err := s.singleSelectOptionID(ctx, projectID, field, value)
		if err != nil {
			return nil, err
		}
		args = append(args, "--single-select-option-id", optionID)

	default:
		// TODO: support ITERATION fields once gh item-edit accepts an iteration id.
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFieldType, descriptor.DataType)
	}

	return args, nil
}

// fieldDescriptor resolves a field's ID and data type on the item's project.
func (s *Service) fieldDescriptor(ctx context.Context, itemID, field string) (*domain.FieldDescriptor, error) {
	var resp fieldTypeResponse
	err := s.gql.Query(ctx, fieldTypeQuery, map[string]any{
		"id":    itemID,
		"field": field,
	}, &resp)
	if err != nil {
		return nil, classifyFieldTypeError(err)
	}

	if resp.ProjectV2Item == nil || resp.ProjectV2Item.Project == nil {
		return nil, ErrItemNotFound
	}
	if resp.ProjectV2Item.Project.Field == nil {
		return nil, ErrFieldNotFound
	}

	return &domain.FieldDescriptor{
		ID:       resp.ProjectV2Item.Project.Field.ID,
		DataType: resp.ProjectV2Item.Project.Field.DataType,
	}, nil
}

// singleSelectOptionID looks up an option by name. When several options share
// the name, the first one the API returns is used.
func (s *Service) singleSelectOptionID(ctx context.Context, projectID, field, name string) (string, error) {
	var resp singleSelectOptionResponse
	err := s.gql.Query(ctx, singleSelectOptionQuery, map[string]any{
		"projectId": projectID,
		"field":     field,
		"name":      name,
	}, &resp)
	if err != nil {
		return "", classifySingleSelectOptionError(err)
	}

	if resp.ProjectV2 == nil || resp.ProjectV2.Field == nil || len(resp.ProjectV2.Field.Options) == 0 {
		return "", ErrSingleSelectOptionNotFound
	}

	return resp.ProjectV2.Field.Options[0].ID, nil
}

// calendarDate returns the YYYY-MM-DD portion of an ISO-8601 date or datetime.
// The date is taken as written; any time or offset after the T is not applied.
func calendarDate(value string) (string, error) {
	if len(value) < len(time.DateOnly) {
		return "", fmt.Errorf("invalid date value: %q", value)
	}

	date, rest := value[:len(time.DateOnly)], value[len(time.DateOnly):]
	if rest != "" && (rest[0] != 'T' || len(rest) == 1) {
		return "", fmt.Errorf("invalid date value: %q", value)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", fmt.Errorf("invalid date value: %q", value)
	}
	return date, nil
}
