// Package action implements the entrypoint of every project action: it reads
// the action's inputs, calls into the projects service, and writes outputs.
//
// Errors returned from an action fail the run. Not-found conditions the
// caller asked to tolerate (fail-if-*-not-found set to false) end the action
// successfully without outputs.
package action

import (
	"context"
	"fmt"

	"github.com/dsanders11/project-actions/internal/config"
	"github.com/dsanders11/project-actions/internal/domain"
	"github.com/rs/zerolog"
)

// Projects is the set of project operations the actions use.
// *projects.Service implements it.
type Projects interface {
	GetItem(ctx context.Context, owner, projectNumber, identifier, field string) (*domain.Item, error)
	ListItems(ctx context.Context, projectID string) ([]*domain.Item, error)
	ListDraftIssues(ctx context.Context, projectID string) ([]*domain.Item, error)
	AddItem(ctx context.Context, owner, projectNumber, contentURL string) (string, error)
	ArchiveItem(ctx context.Context, owner, projectNumber, itemID string, archived bool) error
	DeleteItem(ctx context.Context, owner, projectNumber, itemID string) error
	EditItem(ctx context.Context, projectID, itemID string, edit domain.ItemEdit) (string, error)

	GetProject(ctx context.Context, owner, projectNumber string) (*domain.ProjectDetails, error)
	FindProject(ctx context.Context, owner, title string) (*domain.ProjectDetails, error)
	EditProject(ctx context.Context, owner, projectNumber string, edit domain.ProjectEdit) (string, error)
	CloseProject(ctx context.Context, owner, projectNumber string, closed bool) (*domain.ProjectDetails, error)
	CopyProject(ctx context.Context, owner, projectNumber, targetOwner, title string, drafts bool) (*domain.ProjectDetails, error)
	DeleteProject(ctx context.Context, owner, projectNumber string) error

	GetWorkflow(ctx context.Context, owner, projectNumber string, number int) (*domain.WorkflowDetails, error)
	FindWorkflow(ctx context.Context, owner, projectNumber, name string) (*domain.WorkflowDetails, error)

	LinkProjectToRepository(ctx context.Context, owner, projectNumber, repository string, linked bool) (string, error)
	LinkProjectToTeam(ctx context.Context, projectNumber, team string, linked bool) (string, error)
	GetPullRequestState(ctx context.Context, url string) (string, error)
}

// Env is what an action runs against.
type Env struct {
	Inputs   *config.Inputs
	Projects Projects
	Outputs  Outputs
	Log      zerolog.Logger

	// OpenURL opens a URL in the local browser for --web.
	OpenURL func(url string) error
}

// Input describes one action input. Inputs are read from INPUT_* variables
// on a runner and exposed as flags when run locally.
type Input struct {
	Name    string
	Usage   string
	Default string
	Bool    bool
}

// Action is one entrypoint.
type Action struct {
	Name   string
	Short  string
	Inputs []Input
	Run    func(ctx context.Context, env *Env) error
}

// Common inputs.
const (
	inOwner                  = "owner"
	inProjectNumber          = "project-number"
	inItem                   = "item"
	inField                  = "field"
	inFieldValue             = "field-value"
	inTitle                  = "title"
	inBody                   = "body"
	inDescription            = "description"
	inReadme                 = "readme"
	inPublic                 = "public"
	inFailIfItemNotFound     = "fail-if-item-not-found"
	inFailIfProjectNotFound  = "fail-if-project-not-found"
	inFailIfWorkflowNotFound = "fail-if-workflow-not-found"
	inWeb                    = "web"
)

var (
	ownerInput         = Input{Name: inOwner, Usage: "owner of the project (user or organization login)"}
	projectNumberInput = Input{Name: inProjectNumber, Usage: "project number"}
	itemInput          = Input{Name: inItem, Usage: "item ID, content ID, or content URL"}
	fieldInput         = Input{Name: inField, Usage: "name of a project field"}
	fieldValueInput    = Input{Name: inFieldValue, Usage: "value to set the field to"}
	webInput           = Input{Name: inWeb, Usage: "open the project in the browser", Default: "false", Bool: true}
)

func failIfNotFoundInput(name, what string) Input {
	return Input{Name: name, Usage: "fail the run if the " + what + " is not found", Default: "true", Bool: true}
}

// All lists every action, ordered by name.
var All = []Action{
	{
		Name:   "add-item",
		Short:  "Add an issue or pull request to a project",
		Inputs: []Input{ownerInput, projectNumberInput, {Name: "content-url", Usage: "URL of the issue or pull request"}, fieldInput, fieldValueInput},
		Run:    AddItem,
	},
	{
		Name:  "archive-item",
		Short: "Archive or unarchive a project item",
		Inputs: []Input{
			ownerInput, projectNumberInput, itemInput,
			{Name: "archived", Usage: "archive the item, or unarchive it when false", Default: "true", Bool: true},
			failIfNotFoundInput(inFailIfItemNotFound, "item"),
		},
		Run: ArchiveItem,
	},
	{
		Name:  "close-project",
		Short: "Close or reopen a project",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: "closed", Usage: "close the project, or reopen it when false", Default: "true", Bool: true},
		},
		Run: CloseProject,
	},
	{
		Name:  "completed-by",
		Short: "Mark draft issues complete once their linked pull requests merge",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: inField, Usage: "field to set on completed draft issues"},
			{Name: inFieldValue, Usage: "value marking a draft issue complete"},
		},
		Run: CompletedBy,
	},
	{
		Name:  "copy-project",
		Short: "Copy a project",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: inTitle, Usage: "title of the new project"},
			{Name: "target-owner", Usage: "owner of the new project, defaults to owner"},
			{Name: "drafts", Usage: "include draft issues", Default: "false", Bool: true},
			{Name: inPublic, Usage: "set the new project's visibility (true or false)"},
			{Name: "link-to-repository", Usage: "repository to link the new project to, as owner/name"},
			{Name: "link-to-team", Usage: "team to link the new project to, as org/slug"},
			{Name: "template-view", Usage: "JSON object used to render draft issue titles and bodies"},
		},
		Run: CopyProject,
	},
	{
		Name:   "delete-item",
		Short:  "Delete a project item",
		Inputs: []Input{ownerInput, projectNumberInput, itemInput, failIfNotFoundInput(inFailIfItemNotFound, "item")},
		Run:    DeleteItem,
	},
	{
		Name:   "delete-project",
		Short:  "Delete a project",
		Inputs: []Input{ownerInput, projectNumberInput, failIfNotFoundInput(inFailIfProjectNotFound, "project")},
		Run:    DeleteProject,
	},
	{
		Name:  "edit-item",
		Short: "Edit a project item",
		Inputs: []Input{
			ownerInput, projectNumberInput, itemInput,
			{Name: inTitle, Usage: "new title (draft issues only)"},
			{Name: inBody, Usage: "new body (draft issues only)"},
			fieldInput, fieldValueInput,
			failIfNotFoundInput(inFailIfItemNotFound, "item"),
		},
		Run: EditItem,
	},
	{
		Name:  "edit-project",
		Short: "Edit a project's metadata",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: inTitle, Usage: "new title"},
			{Name: inDescription, Usage: "new short description"},
			{Name: inReadme, Usage: "new readme"},
			{Name: inPublic, Usage: "set visibility (true or false)"},
		},
		Run: EditProject,
	},
	{
		Name:   "find-project",
		Short:  "Find a project by title",
		Inputs: []Input{ownerInput, {Name: inTitle, Usage: "exact project title"}, webInput},
		Run:    FindProject,
	},
	{
		Name:  "find-workflow",
		Short: "Find a project workflow by name",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: "name", Usage: "exact workflow name"},
			failIfNotFoundInput(inFailIfWorkflowNotFound, "workflow"),
		},
		Run: FindWorkflow,
	},
	{
		Name:   "get-item",
		Short:  "Get a project item",
		Inputs: []Input{ownerInput, projectNumberInput, itemInput, fieldInput},
		Run:    GetItem,
	},
	{
		Name:   "get-project",
		Short:  "Get a project",
		Inputs: []Input{ownerInput, projectNumberInput, webInput},
		Run:    GetProject,
	},
	{
		Name:  "get-workflow",
		Short: "Get a project workflow by number",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: "number", Usage: "workflow number"},
			failIfNotFoundInput(inFailIfWorkflowNotFound, "workflow"),
		},
		Run: GetWorkflow,
	},
	{
		Name:  "link-project",
		Short: "Link or unlink a project and a repository or team",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: "repository", Usage: "repository as owner/name"},
			{Name: "team", Usage: "team as org/slug"},
			{Name: "linked", Usage: "link, or unlink when false", Default: "true", Bool: true},
		},
		Run: LinkProject,
	},
	{
		Name:  "list-items",
		Short: "List the items on a project",
		Inputs: []Input{
			ownerInput, projectNumberInput,
			{Name: "drafts-only", Usage: "only list draft issues", Default: "false", Bool: true},
		},
		Run: ListItems,
	},
}

// Lookup returns the action with the given name.
func Lookup(name string) (Action, bool) {
	for _, a := range All {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// required reads several required inputs at once, in order.
func (env *Env) required(names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		value, err := env.Inputs.Required(name)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// fieldInputs reads the optional field/field-value pair.
func (env *Env) fieldInputs() (field, value string, err error) {
	field = env.Inputs.String(inField)
	value = env.Inputs.String(inFieldValue)
	switch {
	case field != "" && value == "":
		return "", "", fmt.Errorf("input required and not supplied: %s", inFieldValue)
	case field == "" && value != "":
		return "", "", fmt.Errorf("input required and not supplied: %s", inField)
	}
	return field, value, nil
}

// set writes outputs in order and stops at the first failure.
func (env *Env) set(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := env.Outputs.Set(pairs[i].(string), pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// setProjectOutputs writes the outputs shared by project actions.
func (env *Env) setProjectOutputs(project *domain.ProjectDetails) error {
	return env.set(
		"closed", project.Closed,
		"field-count", project.Fields.TotalCount,
		"id", project.ID,
		"item-count", project.Items.TotalCount,
		"number", project.Number,
		"public", project.Public,
		"readme", project.Readme,
		"description", project.ShortDescription,
		"title", project.Title,
		"url", project.URL,
	)
}

// openProject opens url when the web input is set.
func (env *Env) openProject(url string) error {
	web, err := env.Inputs.Bool(inWeb, false)
	if err != nil || !web {
		return err
	}
	if env.OpenURL == nil {
		return nil
	}
	env.Log.Debug().Str("url", url).Msg("opening project in browser")
	if err := env.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// optionalBool parses a boolean input that may be left unset.
func (env *Env) optionalBool(name string) (*bool, error) {
	if !env.Inputs.IsSet(name) {
		return nil, nil
	}
	value, err := env.Inputs.Bool(name, false)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
