// Package auth provides GitHub authentication token management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider defines the interface for obtaining a GitHub authentication token.
// Implementations may use different sources (action inputs, environment variables, CLI tools).
type TokenProvider interface {
	GetToken() (string, error)
}

// InputProvider returns the token supplied through the action's token input.
type InputProvider struct {
	Token string
}

// GetToken returns the configured token or an error when it is empty.
func (p *InputProvider) GetToken() (string, error) {
	token := strings.TrimSpace(p.Token)
	if token == "" {
		return "", errors.New("token input not supplied")
	}
	return token, nil
}

// EnvProvider obtains tokens from the GH_TOKEN or GITHUB_TOKEN environment variables,
// in that order, matching the precedence the gh CLI uses.
type EnvProvider struct{}

// GetToken reads GH_TOKEN, then GITHUB_TOKEN.
// Returns an error if neither variable is set.
func (e *EnvProvider) GetToken() (string, error) {
	for _, name := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}
	return "", errors.New("GH_TOKEN and GITHUB_TOKEN environment variables not set or empty")
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
// This is only useful when running the actions locally.
type GhCliProvider struct {
	// Path to the gh binary, "gh" when empty.
	Path string
}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	path := g.Path
	if path == "" {
		path = "gh"
	}

	cmd := exec.Command(path, "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}

	return token, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

// GetToken returns the first successful provider's token, or an error listing
// every provider failure.
func (c Chain) GetToken() (string, error) {
	var errs []error
	for _, p := range c {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}

// GetToken attempts to obtain a GitHub token using the following strategy:
// 1. The action's token input
// 2. GH_TOKEN / GITHUB_TOKEN environment variables
// 3. gh CLI (when running locally)
//
// This is the main entry point for token retrieval in the application.
func GetToken(inputToken, ghPath string) (string, error) {
	chain := Chain{
		&InputProvider{Token: inputToken},
		&EnvProvider{},
		&GhCliProvider{Path: ghPath},
	}

	token, err := chain.GetToken()
	if err != nil {
		return "", fmt.Errorf(
			"failed to obtain GitHub token (%v).\n"+
				"Please either:\n"+
				"  1. Set the action's token input, or\n"+
				"  2. Set the GH_TOKEN or GITHUB_TOKEN environment variable, or\n"+
				"  3. Run 'gh auth login' when running locally",
			err,
		)
	}
	return token, nil
}
