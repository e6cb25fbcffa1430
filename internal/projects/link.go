package projects

import (
	"context"

	"github.com/dsanders11/project-actions/internal/domain"
)

// LinkProjectToRepository links a project to a repository given as
// "owner/name", or unlinks it when linked is false, and returns the
// repository ID. The project is looked up under owner, or under the
// repository's owner when owner is empty.
//
// Errors: ErrProjectNotFound, ErrRepositoryNotFound.
func (s *Service) LinkProjectToRepository(ctx context.Context, owner, projectNumber, repository string, linked bool) (string, error) {
	repoOwner, repoName, ok := domain.SplitOwnerName(repository)
	if !ok {
		return "", ErrInvalidRepositoryName
	}
	if owner == "" {
		owner = repoOwner
	}

	var resp repositoryIDResponse
	err := s.gql.Query(ctx, repositoryIDQuery, map[string]any{
		"owner": repoOwner,
		"name":  repoName,
	}, &resp)
	if err != nil {
		return "", classifyRepositoryLookupError(err)
	}
	if resp.Repository == nil || resp.Repository.ID == "" {
		return "", ErrRepositoryNotFound
	}

	_, err = s.run(ctx,
		"project", linkCommand(linked), projectNumber,
		"--owner", owner,
		"--repo", repoName,
	)
	if err != nil {
		return "", err
	}

	return resp.Repository.ID, nil
}

// LinkProjectToTeam links an organization project to a team given as
// "org/slug", or unlinks it when linked is false, and returns the team ID.
//
// Errors: ErrProjectNotFound, ErrTeamNotFound.
func (s *Service) LinkProjectToTeam(ctx context.Context, projectNumber, team string, linked bool) (string, error) {
	org, slug, ok := domain.SplitOwnerName(team)
	if !ok {
		return "", ErrInvalidTeamName
	}

	var resp teamIDResponse
	err := s.gql.Query(ctx, teamIDQuery, map[string]any{
		"owner": org,
		"name":  slug,
	}, &resp)
	if err != nil {
		return "", classifyTeamLookupError(err)
	}
	if resp.Organization == nil || resp.Organization.Team == nil || resp.Organization.Team.ID == "" {
		return "", ErrTeamNotFound
	}

	_, err = s.run(ctx,
		"project", linkCommand(linked), projectNumber,
		"--owner", org,
		"--team", slug,
	)
	if err != nil {
		return "", err
	}

	return resp.Organization.Team.ID, nil
}

func linkCommand(linked bool) string {
	if linked {
		return "link"
	}
	return "unlink"
}
