// Package cli implements onboardctl, an operator tool that works directly on
// the configured storage backend.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"onboarding/internal/app/server"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/email"
	"onboarding/internal/platform/logging"
	"onboarding/internal/platform/webhook"
)

// Opener builds the call-through service and returns a cleanup func.
type Opener func(ctx context.Context) (*onboarding.Service, func(), error)

// NewRootCmd assembles the command tree. A nil opener uses the configured backend.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = openConfigured
	}
	root := &cobra.Command{
		Use:           "onboardctl",
		Short:         "Inspect and manage onboarding data",
		Long:          "onboardctl reads and changes the onboarding store (tasks, employees, feedback surveys) on the backend named by STORAGE_BACKEND.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(employeesCmd(open))
	root.AddCommand(tasksCmd(open))
	root.AddCommand(surveysCmd(open))
	root.AddCommand(metricsCmd(open))
	root.AddCommand(analyticsCmd(open))
	root.AddCommand(triggerCmd(open))
	root.AddCommand(resetCmd(open))
	root.AddCommand(reportCmd(open))
	return root
}

func openConfigured(ctx context.Context) (*onboarding.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(os.Stderr, cfg.LogLevel)

	backend, err := server.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open backend: %w", err)
	}
	store := onboarding.NewStore(ctx, onboarding.NewPersistence(backend.Storage, logger), onboarding.WithLogger(logger))
	svc := onboarding.NewService(store,
		onboarding.WithTaskWebhook(webhook.New(cfg.TaskWebhookURL, cfg.WebhookTimeout)),
		onboarding.WithNewHireWebhook(webhook.New(cfg.NewHireWebhookURL, cfg.WebhookTimeout)),
		onboarding.WithMailer(email.New(cfg), cfg.EmailFrom),
		onboarding.WithServiceLogger(logger),
	)
	return svc, backend.Close, nil
}

// withService opens the service for the duration of one command.
func withService(cmd *cobra.Command, open Opener, run func(ctx context.Context, svc *onboarding.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, cleanup, err := open(ctx)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return run(ctx, svc)
}
