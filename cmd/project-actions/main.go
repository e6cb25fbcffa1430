package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/dsanders11/project-actions/internal/action"
	"github.com/dsanders11/project-actions/internal/auth"
	"github.com/dsanders11/project-actions/internal/config"
	"github.com/dsanders11/project-actions/internal/gh"
	"github.com/dsanders11/project-actions/internal/ghcli"
	"github.com/dsanders11/project-actions/internal/logging"
	"github.com/dsanders11/project-actions/internal/projects"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func main() {
	log := logging.New().Make()

	// A local .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Msg(err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "project-actions",
		Short: "GitHub Actions for GitHub Projects v2",
		Long: `project-actions runs the GitHub Projects v2 actions.

On a runner each action reads its inputs from INPUT_* environment variables
and writes its outputs to $GITHUB_OUTPUT. Locally the same inputs can be
given as flags, and outputs are printed.

Authentication:
  1. The token input (INPUT_TOKEN or --token)
  2. GH_TOKEN or GITHUB_TOKEN
  3. GitHub CLI: 'gh auth token'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyToken, "", "GitHub token with access to projects")
	flags.Bool(config.KeyDebug, false, "enable debug logging")
	flags.String(config.KeyGhPath, "", fmt.Sprintf("path to the gh CLI (v%s)", config.GhVersion))
	flags.Int(config.KeyRetries, 0, "retries for failed GraphQL requests")
	flags.String(config.KeyRetryExemptStatusCodes, "400,401,403,404,422", "HTTP status codes that are never retried")
	flags.String(config.KeyGraphQLURL, config.DefaultGraphQLURL, "GraphQL API endpoint")

	for _, a := range action.All {
		root.AddCommand(newActionCommand(a))
	}

	return root
}

func newActionCommand(a action.Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   a.Name,
		Short: a.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, a)
		},
	}

	for _, in := range a.Inputs {
		if in.Bool {
			cmd.Flags().Bool(in.Name, in.Default == "true", in.Usage)
		} else {
			cmd.Flags().String(in.Name, in.Default, in.Usage)
		}
	}

	return cmd
}

func runAction(cmd *cobra.Command, a action.Action) error {
	inputs := config.New()
	if err := inputs.BindFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	settings, err := config.Load(inputs)
	if err != nil {
		return err
	}

	log := logging.New().Debug(settings.Debug).Make()

	token, err := auth.GetToken(settings.Token, settings.GhPath)
	if err != nil {
		return err
	}

	cli, err := ghcli.New(settings.GhPath, token, settings.Debug || logging.RunnerDebug(), log)
	if err != nil {
		return err
	}

	client := gh.New(token, gh.Options{
		URL:                    settings.GraphQLURL,
		Retries:                settings.Retries,
		RetryExemptStatusCodes: settings.RetryExemptStatusCodes,
		Log:                    log,
	})

	outputs := action.NewOutputs(cmd.OutOrStdout())
	env := &action.Env{
		Inputs:   inputs,
		Projects: projects.New(cli, client, log),
		Outputs:  outputs,
		Log:      log,
		OpenURL:  browser.OpenURL,
	}

	log.Debug().Str("action", a.Name).Msg("running action")
	runErr := a.Run(cmd.Context(), env)
	if err := outputs.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to write outputs: %w", err)
	}
	return runErr
}
