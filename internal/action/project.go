package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/dsanders11/project-actions/internal/projects"
)

var errLinkTargetMissing = errors.New("input required and not supplied: repository or team")

// CloseProject closes or reopens a project.
func CloseProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}

	closed, err := env.Inputs.Bool("closed", true)
	if err != nil {
		return err
	}

	project, err := env.Projects.CloseProject(ctx, in[0], in[1], closed)
	if err != nil {
		return err
	}

	return env.set("id", project.ID)
}

// DeleteProject deletes a project. A missing project only fails the run when
// fail-if-project-not-found is set.
func DeleteProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}

	failIfNotFound, err := env.Inputs.Bool(inFailIfProjectNotFound, true)
	if err != nil {
		return err
	}

	err = env.Projects.DeleteProject(ctx, in[0], in[1])
	if errors.Is(err, projects.ErrProjectNotFound) && !failIfNotFound {
		env.Log.Info().Str("project", in[1]).Msg("project not found")
		return nil
	}
	return err
}

// EditProject edits a project's metadata. Empty inputs leave the
// corresponding setting unchanged.
func EditProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}

	var edit domain.ProjectEdit
	if title := env.Inputs.String(inTitle); title != "" {
		edit.Title = &title
	}
	if description := env.Inputs.String(inDescription); description != "" {
		edit.Description = &description
	}
	if readme := env.Inputs.String(inReadme); readme != "" {
		edit.Readme = &readme
	}
	if edit.Public, err = env.optionalBool(inPublic); err != nil {
		return err
	}

	id, err := env.Projects.EditProject(ctx, in[0], in[1], edit)
	if err != nil {
		return err
	}

	return env.set("id", id)
}

// FindProject finds a project by exact title.
func FindProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inTitle)
	if err != nil {
		return err
	}

	project, err := env.Projects.FindProject(ctx, in[0], in[1])
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project not found: %s", in[1])
	}

	if err := env.setProjectOutputs(project); err != nil {
		return err
	}
	return env.openProject(project.URL)
}

// GetProject outputs a project's details.
func GetProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}

	project, err := env.Projects.GetProject(ctx, in[0], in[1])
	if err != nil {
		return err
	}

	if err := env.setProjectOutputs(project); err != nil {
		return err
	}
	return env.openProject(project.URL)
}

// LinkProject links a project to a repository, or else to a team.
func LinkProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber)
	if err != nil {
		return err
	}
	owner, projectNumber := in[0], in[1]

	repository := env.Inputs.String("repository")
	team := env.Inputs.String("team")
	if repository == "" && team == "" {
		return errLinkTargetMissing
	}

	linked, err := env.Inputs.Bool("linked", true)
	if err != nil {
		return err
	}

	project, err := env.Projects.GetProject(ctx, owner, projectNumber)
	if err != nil {
		return err
	}

	if repository != "" {
		id, err := env.Projects.LinkProjectToRepository(ctx, owner, projectNumber, repository, linked)
		if err != nil {
			return err
		}
		if err := env.set("repository-id", id); err != nil {
			return err
		}
	} else {
		id, err := env.Projects.LinkProjectToTeam(ctx, projectNumber, team, linked)
		if err != nil {
			return err
		}
		if err := env.set("team-id", id); err != nil {
			return err
		}
	}

	return env.set("project-id", project.ID)
}
