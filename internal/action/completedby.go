package action

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/dsanders11/project-actions/internal/projects"
)

// completedByPattern matches "Completed by <pull request URL>" lines.
var completedByPattern = regexp.MustCompile(`(?im)^[ \t]*Completed by (https://github\.com/[^ \t\r\n]*)[ \t\r]*$`)

// CompletedBy sets a field on every draft issue whose "Completed by" pull
// requests have all merged.
func CompletedBy(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inField, inFieldValue)
	if err != nil {
		return err
	}
	owner, projectNumber := in[0], in[1]
	complete := domain.ItemEdit{Field: in[2], FieldValue: in[3]}

	project, err := env.Projects.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return err
	}

	drafts, err := env.Projects.ListDraftIssues(ctx, project.ID)
	if err != nil {
		return err
	}

	results := make([]Result[bool], 0, len(drafts))
	for _, draft := range drafts {
		results = append(results, checkCompletedBy(ctx, env, project.ID, draft, complete))
	}

	completed := 0
	for _, r := range results {
		if r.Value {
			completed++
		}
	}
	failed := reportFailures(env, results, "checking linked pull requests for")

	env.Log.Info().Int("completed", completed).Int("failed", failed).Msgf("Checked %d draft issues", len(results))
	return nil
}

// checkCompletedBy marks one draft issue complete when every pull request it
// names has merged. Value reports whether the item was marked.
func checkCompletedBy(ctx context.Context, env *Env, projectID string, draft *domain.Item, complete domain.ItemEdit) Result[bool] {
	result := Result[bool]{ItemID: draft.ID}

	matches := completedByPattern.FindAllStringSubmatch(draft.Content.Body, -1)
	if len(matches) == 0 {
		return result
	}

	for _, match := range matches {
		url := match[1]

		state, err := env.Projects.GetPullRequestState(ctx, url)
		if err != nil {
			result.Err = fmt.Errorf("failed to get state of %s: %w", url, err)
			return result
		}
		if state != projects.PullRequestMerged {
			env.Log.Info().Msgf("Linked pull request %s on %s is NOT merged, stopping checks", url, draft.ID)
			return result
		}
		env.Log.Info().Msgf("Linked pull request %s on %s is merged", url, draft.ID)
	}

	env.Log.Info().Msgf("All linked pull requests merged, marking %s as complete", draft.ID)
	if _, err := env.Projects.EditItem(ctx, projectID, draft.ID, complete); err != nil {
		result.Err = err
		return result
	}

	result.Value = true
	return result
}
