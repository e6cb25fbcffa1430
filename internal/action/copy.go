package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/dsanders11/project-actions/internal/domain"
)

var errTemplateWithoutDrafts = errors.New("can only use template-view input if drafts are being copied")

// fieldsCommentPattern matches the field values comment in a draft issue body:
//
//	<!-- fields
//	  {
//	    "Start Date": "2023-11-01"
//	  }
//	-->
var fieldsCommentPattern = regexp.MustCompile(`(?s)<!-- fields\s*(\{.*\})\s*-->`)

// CopyProject copies a project and optionally sets its visibility, links it,
// and renders its draft issues as mustache templates.
func CopyProject(ctx context.Context, env *Env) error {
	in, err := env.required(inOwner, inProjectNumber, inTitle)
	if err != nil {
		return err
	}
	owner, projectNumber, title := in[0], in[1], in[2]

	drafts, err := env.Inputs.Bool("drafts", false)
	if err != nil {
		return err
	}
	public, err := env.optionalBool(inPublic)
	if err != nil {
		return err
	}

	targetOwner := env.Inputs.String("target-owner")
	if targetOwner == "" {
		targetOwner = owner
	}
	linkToRepository := env.Inputs.String("link-to-repository")
	linkToTeam := env.Inputs.String("link-to-team")

	var view map[string]any
	if raw := env.Inputs.String("template-view"); raw != "" {
		if !drafts {
			return errTemplateWithoutDrafts
		}
		if err := json.Unmarshal([]byte(raw), &view); err != nil {
			return fmt.Errorf("failed to parse template-view: %w", err)
		}
	}

	project, err := env.Projects.CopyProject(ctx, owner, projectNumber, targetOwner, title, drafts)
	if err != nil {
		return err
	}
	newOwner := project.Owner.Login
	newNumber := strconv.Itoa(project.Number)

	if public != nil {
		if _, err := env.Projects.EditProject(ctx, newOwner, newNumber, domain.ProjectEdit{Public: public}); err != nil {
			return err
		}
		project.Public = *public
	}

	if linkToRepository != "" {
		if _, err := env.Projects.LinkProjectToRepository(ctx, newOwner, newNumber, linkToRepository, true); err != nil {
			return err
		}
	}
	if linkToTeam != "" {
		if _, err := env.Projects.LinkProjectToTeam(ctx, newNumber, linkToTeam, true); err != nil {
			return err
		}
	}

	if view != nil {
		draftIssues, err := env.Projects.ListDraftIssues(ctx, project.ID)
		if err != nil {
			return err
		}

		results := make([]Result[int], 0, len(draftIssues))
		for _, draft := range draftIssues {
			results = append(results, renderDraftIssue(ctx, env, project.ID, draft, view))
		}
		reportFailures(env, results, "doing template replacement on")
	}

	if err := env.setProjectOutputs(project); err != nil {
		return err
	}
	return env.set("owner", newOwner)
}

// renderDraftIssue renders a draft issue's title and body with view, then
// applies the field values listed in the rendered body. Value is the number
// of fields set.
func renderDraftIssue(ctx context.Context, env *Env, projectID string, draft *domain.Item, view map[string]any) Result[int] {
	result := Result[int]{ItemID: draft.ID}
	content := draft.Content

	body, err := mustache.Render(content.Body, view)
	if err != nil {
		result.Err = fmt.Errorf("failed to render body: %w", err)
		return result
	}
	title, err := mustache.Render(content.Title, view)
	if err != nil {
		result.Err = fmt.Errorf("failed to render title: %w", err)
		return result
	}

	if body != content.Body || title != content.Title {
		env.Log.Debug().Str("item", draft.ID).Msg("updating rendered draft issue")
		_, err := env.Projects.EditItem(ctx, projectID, content.ID, domain.ItemEdit{Title: &title, Body: &body})
		if err != nil {
			result.Err = err
			return result
		}
	}

	match := fieldsCommentPattern.FindStringSubmatch(body)
	if match == nil {
		return result
	}

	fields, err := parseFieldValues(match[1])
	if err != nil {
		result.Err = err
		return result
	}
	for _, f := range fields {
		_, err := env.Projects.EditItem(ctx, projectID, draft.ID, domain.ItemEdit{Field: f.name, FieldValue: f.value})
		if err != nil {
			result.Err = err
			return result
		}
		result.Value++
	}

	return result
}

type fieldAssignment struct {
	name  string
	value string
}

// parseFieldValues decodes a JSON object of field names to values, keeping
// the order the fields are written in. Non-string values are used as their
// JSON text.
func parseFieldValues(raw string) ([]fieldAssignment, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("invalid fields comment: expected a JSON object")
	}

	var fields []fieldAssignment
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid fields comment: %w", err)
		}
		name := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid fields comment: %w", err)
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			s = string(value)
		}
		fields = append(fields, fieldAssignment{name: name, value: s})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid fields comment: %w", err)
	}
	return fields, nil
}
