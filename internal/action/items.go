package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dsanders11/project-actions/internal/domain"
)

var (
	errRedactedItem       = errors.New("cannot edit redacted items")
	errContentNotEditable = errors.New("can only set title or body for draft issues")
)

// findItem resolves the item input. A missing item is only an error when
// fail-if-item-not-found is set; otherwise nil is returned.
func (env *Env) findItem(ctx context.Context, owner, projectNumber, item string) (*domain.Item, error) {
	failIfNotFound, err := env.Inputs.Bool(inFailIfItemNotFound, true)
	if err != nil {
		return nil, err
	}

	found, err := env.Projects.GetItem(ctx, owner, projectNumber, item, "")
	if err != nil {
		return nil, err
	}
	if found == nil {
		if failIfNotFound {
			return nil, fmt.Errorf("item not found: %s", item)
		}
		env.Log.Info().Str("item", item).Msg("item not found")
	}
	return found, nil
}

// AddItem adds an issue or pull request to a project, optionally setting a
// field on the new item.
func AddItem(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, "content-url")
	if err != nil {
		return err
	}
	owner, projectNumber, contentURL := in[0], in[1], in[2]

	field, fieldValue, err := env.fieldInputs()
	if err != nil {
		return err
	}

	itemID, err := env.Projects.AddItem(ctx, owner, projectNumber, contentURL)
	if err != nil {
		return err
	}

	if field != "" {
		project, err := env.Projects.GetProject(ctx, owner, projectNumber)
		if err != nil {
			return err
		}
		_, err = env.Projects.EditItem(ctx, project.ID, itemID, domain.ItemEdit{
			Field:      field,
			FieldValue: fieldValue,
		})
		if err != nil {
			return err
		}
	}

	return env.set("id", itemID)
}

// ArchiveItem archives or unarchives an item.
func ArchiveItem(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inItem)
	if err != nil {
		return err
	}
	owner, projectNumber, item := in[0], in[1], in[2]

	archived, err := env.Inputs.Bool("archived", true)
	if err != nil {
		return err
	}

	found, err := env.findItem(ctx, owner, projectNumber, item)
	if err != nil || found == nil {
		return err
	}

	if err := env.Projects.ArchiveItem(ctx, owner, projectNumber, found.ID, archived); err != nil {
		return err
	}

	return env.set("id", found.ID)
}

// DeleteItem deletes an item.
func DeleteItem(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inItem)
	if err != nil {
		return err
	}
	owner, projectNumber, item := in[0], in[1], in[2]

	found, err := env.findItem(ctx, owner, projectNumber, item)
	if err != nil || found == nil {
		return err
	}

	return env.Projects.DeleteItem(ctx, owner, projectNumber, found.ID)
}

// EditItem edits a draft issue's title and body, or sets a field on any
// visible item.
func EditItem(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inItem)
	if err != nil {
		return err
	}
	owner, projectNumber, item := in[0], in[1], in[2]

	title := env.Inputs.String(inTitle)
	body := env.Inputs.String(inBody)
	field, fieldValue, err := env.fieldInputs()
	if err != nil {
		return err
	}

	found, err := env.findItem(ctx, owner, projectNumber, item)
	if err != nil || found == nil {
		return err
	}

	if found.Type == domain.ItemTypeRedacted {
		return errRedactedItem
	}

	editsContent := title != "" || body != ""
	if editsContent && (!found.IsDraftIssue() || found.Content == nil) {
		return errContentNotEditable
	}

	if editsContent {
		edit := domain.ItemEdit{}
		if title != "" {
			edit.Title = &title
		}
		if body != "" {
			edit.Body = &body
		}
		if _, err := env.Projects.EditItem(ctx, found.ProjectID, found.Content.ID, edit); err != nil {
			return err
		}
	}

	if field != "" {
		edit := domain.ItemEdit{Field: field, FieldValue: fieldValue}
		if _, err := env.Projects.EditItem(ctx, found.ProjectID, found.ID, edit); err != nil {
			return err
		}
	}

	return env.set(
		"id", found.ID,
		"project-id", found.ProjectID,
	)
}

// GetItem outputs an item's content and, when requested, a field value.
func GetItem(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inItem)
	if err != nil {
		return err
	}
	owner, projectNumber, item := in[0], in[1], in[2]
	field := env.Inputs.String(inField)

	found, err := env.Projects.GetItem(ctx, owner, projectNumber, item, field)
	if err != nil {
		return err
	}
	if found == nil {
		return fmt.Errorf("item not found: %s", item)
	}

	if err := env.set("id", found.ID, "project-id", found.ProjectID); err != nil {
		return err
	}

	if found.Content != nil {
		err := env.set(
			"body", found.Content.Body,
			"content-id", found.Content.ID,
			"title", found.Content.Title,
		)
		if err != nil {
			return err
		}
		if !found.IsDraftIssue() {
			if err := env.set("url", found.Content.URL); err != nil {
				return err
			}
		}
	}

	if found.Field != nil {
		if err := env.set("field-id", found.Field.ID); err != nil {
			return err
		}
		if found.Field.Value != nil {
			return env.set("field-value", found.Field.Value)
		}
	}

	return nil
}

// listedItem is the JSON shape of one entry in the list-items output.
type listedItem struct {
	ID        string          `json:"id"`
	Type      domain.ItemType `json:"type"`
	ContentID string          `json:"contentId"`
	Title     string          `json:"title"`
	URL       string          `json:"url,omitempty"`
}

// ListItems outputs a project's items as a JSON array.
func ListItems(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}
	owner, projectNumber := in[0], in[1]

	draftsOnly, err := env.Inputs.Bool("drafts-only", false)
	if err != nil {
		return err
	}

	project, err := env.Projects.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return err
	}

	var items []*domain.Item
	if draftsOnly {
		items, err = env.Projects.ListDraftIssues(ctx, project.ID)
	} else {
		items, err = env.Projects.ListItems(ctx, project.ID)
	}
	if err != nil {
		return err
	}

	listed := make([]listedItem, 0, len(items))
	for _, item := range items {
		listed = append(listed, listedItem{
			ID:        item.ID,
			Type:      item.Type,
			ContentID: item.Content.ID,
			Title:     item.Content.Title,
			URL:       item.Content.URL,
		})
	}

	data, err := json.Marshal(listed)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	return env.set(
		"count", len(listed),
		"items", string(data),
		"project-id", project.ID,
	)
}
