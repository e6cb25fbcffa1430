// Package projects implements the GitHub Projects operations shared by the
// actions: resolving and editing items, reading and changing projects and
// workflows, and linking projects to repositories and teams.
//
// Operations run either through the gh CLI or the GraphQL API. Every failure
// is classified into the domain errors declared in errors.go before it is
// returned, so callers can decide with errors.Is whether to fail or continue.
package projects

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dsanders11/project-actions/internal/gh"
	"github.com/dsanders11/project-actions/internal/ghcli"
	"github.com/rs/zerolog"
)

// Service runs project operations.
type Service struct {
	cli ghcli.Runner
	gql gh.Querier
	log zerolog.Logger
}

// New creates a Service.
func New(cli ghcli.Runner, gql gh.Querier, log zerolog.Logger) *Service {
	return &Service{cli: cli, gql: gql, log: log}
}

// run executes gh and classifies any failure.
func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	out, err := s.cli.Run(ctx, args...)
	if err != nil {
		return "", ClassifyCLIError(err)
	}
	return out, nil
}

// decode parses gh JSON output into v.
func decode(output string, v any) error {
	if err := json.Unmarshal([]byte(output), v); err != nil {
		return fmt.Errorf("failed to parse gh output: %w", err)
	}
	return nil
}

// decodeID parses the "id" of gh JSON output.
func decodeID(output string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := decode(output, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
