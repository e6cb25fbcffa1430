package projects

import (
	"context"

	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/dsanders11/project-actions/internal/gh"
)

// GetItem finds an item on a project by its item ID, content ID, or content
// URL, and returns nil when no item matches. Pagination stops at the first match.
//
// When field is not empty, the item's value for that field is included.
//
// Errors: ErrProjectNotFound, ErrFieldNotFound.
func (s *Service) GetItem(ctx context.Context, owner, projectNumber, identifier, field string) (*domain.Item, error) {
	project, err := s.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return nil, err
	}

	query := projectItemsQuery
	vars := map[string]any{"projectId": project.ID}
	if field != "" {
		query = projectItemsWithFieldQuery
		vars["field"] = field
	}

	for page, err := range gh.Paginate(ctx, s.gql, query, vars, itemsPageInfo) {
		if err != nil {
			return nil, classifyItemLookupError(err)
		}
		if page.ProjectV2 == nil {
			return nil, ErrProjectNotFound
		}

		for _, node := range page.ProjectV2.Items.Nodes {
			if !matchesItem(node, identifier) {
				continue
			}

			item := normalizeItem(node, project.ID)
			if field != "" {
				if page.ProjectV2.Field == nil {
					return nil, ErrFieldNotFound
				}
				if item.Type != domain.ItemTypeRedacted {
					item.Field = &domain.FieldValue{
						ID:    page.ProjectV2.Field.ID,
						Value: projectFieldValue(node.FieldValueByName),
					}
				}
			}

			s.log.Debug().Str("item", item.ID).Str("type", string(item.Type)).Msg("found project item")
			return item, nil
		}
	}

	return nil, nil
}

// ListItems returns every item on a project that has content.
// Redacted items and items without content are skipped.
//
// Errors: ErrProjectNotFound.
func (s *Service) ListItems(ctx context.Context, projectID string) ([]*domain.Item, error) {
	return s.listItems(ctx, projectID, func(item *domain.Item) bool {
		return item.Content != nil
	})
}

// ListDraftIssues returns the draft issue items on a project.
//
// Errors: ErrProjectNotFound.
func (s *Service) ListDraftIssues(ctx context.Context, projectID string) ([]*domain.Item, error) {
	return s.listItems(ctx, projectID, func(item *domain.Item) bool {
		return item.Content != nil && item.IsDraftIssue()
	})
}

func (s *Service) listItems(ctx context.Context, projectID string, keep func(*domain.Item) bool) ([]*domain.Item, error) {
	vars := map[string]any{"projectId": projectID}

	var items []*domain.Item
	for page, err := range gh.Paginate(ctx, s.gql, projectItemsQuery, vars, itemsPageInfo) {
		if err != nil {
			return nil, classifyItemListingError(err)
		}
		if page.ProjectV2 == nil {
			return nil, ErrProjectNotFound
		}

		for _, node := range page.ProjectV2.Items.Nodes {
			if item := normalizeItem(node, projectID); keep(item) {
				items = append(items, item)
			}
		}
	}

	return items, nil
}

// AddItem adds an issue or pull request to a project by URL and returns the item ID.
//
// Errors: ErrProjectNotFound.
func (s *Service) AddItem(ctx context.Context, owner, projectNumber, contentURL string) (string, error) {
	out, err := s.run(ctx,
		"project", "item-add", projectNumber,
		"--owner", owner,
		"--url", contentURL,
		"--format", "json",
	)
	if err != nil {
		return "", err
	}
	return decodeID(out)
}

// ArchiveItem archives an item, or restores it when archived is false.
//
// Errors: ErrProjectNotFound.
func (s *Service) ArchiveItem(ctx context.Context, owner, projectNumber, itemID string, archived bool) error {
	args := []string{
		"project", "item-archive", projectNumber,
		"--owner", owner,
		"--id", itemID,
	}
	if !archived {
		args = append(args, "--undo")
	}

	_, err := s.run(ctx, args...)
	return err
}

// DeleteItem removes an item from a project.
//
// Errors: ErrProjectNotFound.
func (s *Service) DeleteItem(ctx context.Context, owner, projectNumber, itemID string) error {
	_, err := s.run(ctx,
		"project", "item-delete", projectNumber,
		"--owner", owner,
		"--id", itemID,
	)
	return err
}

// matchesItem reports whether identifier names the item, its content, or
// (for issues and pull requests) its content URL.
func matchesItem(node rawItem, identifier string) bool {
	if node.ID == identifier {
		return true
	}
	if node.Content == nil || node.Content.ID == "" {
		return false
	}
	if node.Content.ID == identifier {
		return true
	}

	switch itemType(node) {
	case domain.ItemTypeIssue, domain.ItemTypePullRequest:
		return node.Content.URL == identifier
	default:
		return false
	}
}

// normalizeItem converts a raw item into the domain shape.
func normalizeItem(node rawItem, projectID string) *domain.Item {
	item := &domain.Item{
		ID:        node.ID,
		ProjectID: projectID,
		Type:      itemType(node),
	}

	switch item.Type {
	case domain.ItemTypeRedacted:
		// No content is visible.
	case domain.ItemTypeDraftIssue:
		if node.Content != nil && node.Content.ID != "" {
			item.Content = &domain.Content{
				ID:    node.Content.ID,
				Title: node.Content.Title,
				Body:  node.Content.Body,
			}
		}
	case domain.ItemTypeIssue, domain.ItemTypePullRequest:
		if node.Content != nil && node.Content.ID != "" {
			item.Content = &domain.Content{
				ID:    node.Content.ID,
				Title: node.Content.Title,
				Body:  node.Content.Body,
				URL:   node.Content.URL,
			}
		}
	}

	return item
}

// itemType returns the item's type, falling back to the content's
// __typename when the API did not report one.
func itemType(node rawItem) domain.ItemType {
	switch t := domain.ItemType(node.Type); t {
	case domain.ItemTypeDraftIssue, domain.ItemTypeIssue, domain.ItemTypePullRequest, domain.ItemTypeRedacted:
		return t
	}

	if node.Content == nil {
		return domain.ItemTypeRedacted
	}
	switch node.Content.Typename {
	case "DraftIssue":
		return domain.ItemTypeDraftIssue
	case "Issue":
		return domain.ItemTypeIssue
	case "PullRequest":
		return domain.ItemTypePullRequest
	default:
		return domain.ItemTypeRedacted
	}
}

// projectFieldValue picks the set member of the field value union, in the
// order date, number, text, single-select. nil means the item has no value.
func projectFieldValue(v *rawFieldValue) any {
	switch {
	case v == nil:
		return nil
	case v.Date != nil:
		return *v.Date
	case v.Number != nil:
		return *v.Number
	case v.Text != nil:
		return *v.Text
	case v.SingleSelectValue != nil:
		return *v.SingleSelectValue
	default:
		return nil
	}
}
