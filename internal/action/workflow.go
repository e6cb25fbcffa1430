package action

import (
	"context"
	"fmt"

	"github.com/dsanders11/project-actions/internal/domain"
)

// FindWorkflow finds a project workflow by name.
func FindWorkflow(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, "name")
	if err != nil {
		return err
	}

	failIfNotFound, err := env.Inputs.Bool(inFailIfWorkflowNotFound, true)
	if err != nil {
		return err
	}

	workflow, err := env.Projects.FindWorkflow(ctx, in[0], in[1], in[2])
	if err != nil {
		return err
	}

	return env.setWorkflowOutputs(workflow, in[2], failIfNotFound)
}

// GetWorkflow gets a project workflow by number.
func GetWorkflow(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, "number")
	if err != nil {
		return err
	}

	number, err := env.Inputs.Int("number")
	if err != nil {
		return err
	}

	failIfNotFound, err := env.Inputs.Bool(inFailIfWorkflowNotFound, true)
	if err != nil {
		return err
	}

	workflow, err := env.Projects.GetWorkflow(ctx, in[0], in[1], number)
	if err != nil {
		return err
	}

	return env.setWorkflowOutputs(workflow, in[2], failIfNotFound)
}

func (env *Env) setWorkflowOutputs(workflow *domain.WorkflowDetails, ref string, failIfNotFound bool) error {
	if workflow == nil {
		if failIfNotFound {
			return fmt.Errorf("workflow not found: %s", ref)
		}
		env.Log.Info().Str("workflow", ref).Msg("workflow not found")
		return nil
	}

	return env.set(
		"id", workflow.ID,
		"name", workflow.Name,
		"number", workflow.Number,
		"enabled", workflow.Enabled,
		"project-id", workflow.ProjectID,
	)
}
