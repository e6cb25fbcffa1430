package projects

import (
	"context"

	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/dsanders11/project-actions/internal/gh"
)

// GetWorkflow returns the project's workflow with the given number, or nil
// when the project has no such workflow.
//
// Errors: ErrProjectNotFound.
func (s *Service) GetWorkflow(ctx context.Context, owner, projectNumber string, number int) (*domain.WorkflowDetails, error) {
	project, err := s.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return nil, err
	}

	var resp workflowResponse
	err = s.gql.Query(ctx, workflowQuery, map[string]any{
		"projectId": project.ID,
		"number":    number,
	}, &resp)
	if err != nil {
		return nil, classifyWorkflowLookupError(err)
	}

	if resp.ProjectV2 == nil {
		return nil, ErrProjectNotFound
	}
	if resp.ProjectV2.Workflow == nil {
		return nil, nil
	}
	return workflowDetails(*resp.ProjectV2.Workflow, project.ID), nil
}

// FindWorkflow returns the project's first workflow named exactly name, or nil
// when none matches. Pagination stops at the first match.
//
// Errors: ErrProjectNotFound.
func (s *Service) FindWorkflow(ctx context.Context, owner, projectNumber, name string) (*domain.WorkflowDetails, error) {
	project, err := s.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return nil, err
	}

	vars := map[string]any{"projectId": project.ID}
	for page, err := range gh.Paginate(ctx, s.gql, workflowsQuery, vars, workflowsPageInfo) {
		if err != nil {
			return nil, classifyWorkflowLookupError(err)
		}
		if page.ProjectV2 == nil {
			return nil, ErrProjectNotFound
		}

		for _, node := range page.ProjectV2.Workflows.Nodes {
			if node.Name == name {
				return workflowDetails(node, project.ID), nil
			}
		}
	}

	return nil, nil
}

func workflowDetails(w rawWorkflow, projectID string) *domain.WorkflowDetails {
	return &domain.WorkflowDetails{
		ID:        w.ID,
		Name:      w.Name,
		Number:    w.Number,
		Enabled:   w.Enabled,
		ProjectID: projectID,
	}
}
