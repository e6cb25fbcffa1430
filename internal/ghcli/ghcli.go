// Package ghcli runs the GitHub CLI on behalf of the actions.
package ghcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dsanders11/project-actions/internal/config"
	"github.com/rs/zerolog"
)

// Runner executes gh with the given arguments and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CommandError is returned when gh fails. Its message is gh's stderr, which is
// what callers match on to classify the failure, or the exit code when gh
// wrote nothing to stderr.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if strings.TrimSpace(e.Stderr) == "" {
		return fmt.Sprintf("gh exited with code %d", e.ExitCode)
	}
	return e.Stderr
}

// Executor runs a gh binary with the token in its environment.
type Executor struct {
	path  string
	token string
	debug bool
	log   zerolog.Logger
}

// New creates an Executor. An empty path resolves gh from PATH.
func New(path, token string, debug bool, log zerolog.Logger) (*Executor, error) {
	if path == "" {
		resolved, err := exec.LookPath("gh")
		if err != nil {
			return nil, fmt.Errorf("gh CLI not found in PATH; install gh v%s from %s: %w",
				config.GhVersion, config.GhDownloadURL(), err)
		}
		path = resolved
	}

	return &Executor{
		path:  path,
		token: token,
		debug: debug,
		log:   log,
	}, nil
}

// Run executes gh. It fails when gh exits non-zero, and also when gh exits 0
// but writes only to stderr, since gh does not always set its exit code on failure.
func (e *Executor) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.path, args...)

	env := append(os.Environ(), "GH_TOKEN="+e.token)
	if e.debug {
		env = append(env, "GH_DEBUG=api")
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug().Str("args", strings.Join(args, " ")).Msg("running gh")

	exitCode := 0
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("failed to run gh: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run gh: %w", err)
		}
		exitCode = exitErr.ExitCode()
	}

	if exitCode != 0 || (stdout.Len() == 0 && stderr.Len() > 0) {
		return "", &CommandError{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}

	return stdout.String(), nil
}
