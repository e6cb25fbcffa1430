// Package config reads action inputs and runtime settings.
//
// Inputs follow the GitHub Actions convention: an input named "project-number"
// is read from the INPUT_PROJECT-NUMBER environment variable. When the binary
// is run locally the same inputs can be passed as --project-number flags.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// gh CLI release the actions are built against.
const (
	GhVersion       = "2.40.1"
	GhReleasesURL   = "https://github.com/cli/cli/releases"
	GhArchiveFormat = "gh_%s_linux_amd64.tar.gz"
)

// GhDownloadURL returns the release archive URL for GhVersion.
func GhDownloadURL() string {
	return fmt.Sprintf("%s/download/v%s/"+GhArchiveFormat, GhReleasesURL, GhVersion, GhVersion)
}

// Input keys shared by several actions.
const (
	KeyToken                  = "token"
	KeyDebug                  = "debug"
	KeyGhPath                 = "gh-path"
	KeyRetries                = "retries"
	KeyRetryExemptStatusCodes = "retry-exempt-status-codes"
	KeyGraphQLURL             = "graphql-url"
)

// DefaultGraphQLURL is the GitHub GraphQL endpoint.
const DefaultGraphQLURL = "https://api.github.com/graphql"

// defaultExemptStatusCodes mirrors Octokit's doNotRetry list.
const defaultExemptStatusCodes = "400,401,403,404,422"

// Inputs reads action inputs from the environment, bound flags, and defaults.
type Inputs struct {
	v *viper.Viper
}

// New creates Inputs reading INPUT_* environment variables.
func New() *Inputs {
	v := viper.New()
	v.SetEnvPrefix("INPUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(" ", "_"))

	v.SetDefault(KeyRetries, 0)
	v.SetDefault(KeyRetryExemptStatusCodes, defaultExemptStatusCodes)
	v.SetDefault(KeyGraphQLURL, DefaultGraphQLURL)

	return &Inputs{v: v}
}

// SetDefault registers a default value for an input.
func (in *Inputs) SetDefault(name string, value any) {
	in.v.SetDefault(name, value)
}

// Set overrides an input value. Intended for tests.
func (in *Inputs) Set(name string, value any) {
	in.v.Set(name, value)
}

// BindFlags binds every flag in fs to the input of the same name.
func (in *Inputs) BindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = in.v.BindPFlag(f.Name, f)
	})
	return err
}

// String returns the trimmed input value, "" when unset.
func (in *Inputs) String(name string) string {
	return strings.TrimSpace(in.v.GetString(name))
}

// Required returns the input value or an error naming the missing input.
func (in *Inputs) Required(name string) (string, error) {
	value := in.String(name)
	if value == "" {
		return "", fmt.Errorf("input required and not supplied: %s", name)
	}
	return value, nil
}

// IsSet reports whether the input has a non-empty value.
func (in *Inputs) IsSet(name string) bool {
	return in.String(name) != ""
}

// Bool parses a boolean input using the YAML 1.2 core schema, like @actions/core.
// def is returned when the input is unset.
func (in *Inputs) Bool(name string, def bool) (bool, error) {
	switch value := in.String(name); value {
	case "":
		return def, nil
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("input does not meet YAML 1.2 \"Core Schema\" specification: %s\n"+
		"Support boolean input list: `true | True | TRUE | false | False | FALSE`", name)
}

// Int parses an integer input.
func (in *Inputs) Int(name string) (int, error) {
	value := in.String(name)
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("input %s is not a number: %q", name, value)
	}
	return n, nil
}

// IntList parses a comma-separated list of integers. An empty input yields nil.
func (in *Inputs) IntList(name string) ([]int, error) {
	value := in.String(name)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	list := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("input %s contains a non-number: %q", name, part)
		}
		list = append(list, n)
	}
	return list, nil
}

// Settings are the runtime options shared by every action.
type Settings struct {
	Token                  string
	Debug                  bool
	GhPath                 string
	GraphQLURL             string
	Retries                int
	RetryExemptStatusCodes []int
}

// Load reads the shared settings. The token itself is resolved by the auth
// package, so an empty Token is not an error here.
func Load(in *Inputs) (*Settings, error) {
	debug, err := in.Bool(KeyDebug, false)
	if err != nil {
		return nil, err
	}

	retries, err := in.Int(KeyRetries)
	if err != nil {
		return nil, err
	}

	exempt, err := in.IntList(KeyRetryExemptStatusCodes)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Token:                  in.String(KeyToken),
		Debug:                  debug,
		GhPath:                 in.String(KeyGhPath),
		GraphQLURL:             in.String(KeyGraphQLURL),
		Retries:                retries,
		RetryExemptStatusCodes: exempt,
	}, nil
}
