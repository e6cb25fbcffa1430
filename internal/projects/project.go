package projects

import (
	"context"

	"github.com/dsanders11/project-actions/internal/domain"
)

// GetProject returns a project's details.
//
// Errors: ErrProjectNotFound.
func (s *Service) GetProject(ctx context.Context, owner, projectNumber string) (*domain.ProjectDetails, error) {
	return s.projectDetails(ctx,
		"project", "view", projectNumber,
		"--owner", owner,
		"--format", "json",
	)
}

// FindProject returns the first of owner's projects titled exactly title, or
// nil when there is none.
//
// Errors: ErrProjectNotFound.
func (s *Service) FindProject(ctx context.Context, owner, title string) (*domain.ProjectDetails, error) {
	out, err := s.run(ctx,
		"project", "list",
		"--owner", owner,
		"--format", "json",
	)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Projects []domain.ProjectDetails `json:"projects"`
	}
	if err := decode(out, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Projects {
		if resp.Projects[i].Title == title {
			return &resp.Projects[i], nil
		}
	}
	return nil, nil
}

// EditProject changes a project's metadata and returns its ID.
// Only the non-nil parts of edit are sent.
//
// Errors: ErrProjectNotFound.
func (s *Service) EditProject(ctx context.Context, owner, projectNumber string, edit domain.ProjectEdit) (string, error) {
	args := []string{
		"project", "edit", projectNumber,
		"--owner", owner,
		"--format", "json",
	}

	if edit.Title != nil {
		args = append(args, "--title", *edit.Title)
	}
	if edit.Description != nil {
		args = append(args, "--description", *edit.Description)
	}
	if edit.Readme != nil {
		args = append(args, "--readme", *edit.Readme)
	}
	if edit.Public != nil {
		visibility := "PRIVATE"
		if *edit.Public {
			visibility = "PUBLIC"
		}
		args = append(args, "--visibility", visibility)
	}

	out, err := s.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return decodeID(out)
}

// CloseProject closes a project, or reopens it when closed is false.
//
// Errors: ErrProjectNotFound.
func (s *Service) CloseProject(ctx context.Context, owner, projectNumber string, closed bool) (*domain.ProjectDetails, error) {
	args := []string{
		"project", "close", projectNumber,
		"--owner", owner,
		"--format", "json",
	}
	if !closed {
		args = append(args, "--undo")
	}
	return s.projectDetails(ctx, args...)
}

// CopyProject copies a project to targetOwner under a new title, including
// draft issues when drafts is set.
//
// Errors: ErrProjectNotFound.
func (s *Service) CopyProject(ctx context.Context, owner, projectNumber, targetOwner, title string, drafts bool) (*domain.ProjectDetails, error) {
	args := []string{
		"project", "copy", projectNumber,
		"--source-owner", owner,
		"--target-owner", targetOwner,
		"--title", title,
		"--format", "json",
	}
	if drafts {
		args = append(args, "--drafts")
	}
	return s.projectDetails(ctx, args...)
}

// DeleteProject deletes a project.
//
// Errors: ErrProjectNotFound.
func (s *Service) DeleteProject(ctx context.Context, owner, projectNumber string) error {
	_, err := s.run(ctx,
		"project", "delete", projectNumber,
		"--owner", owner,
	)
	return err
}

func (s *Service) projectDetails(ctx context.Context, args ...string) (*domain.ProjectDetails, error) {
	out, err := s.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var details domain.ProjectDetails
	if err := decode(out, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
