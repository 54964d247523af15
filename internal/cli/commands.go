package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"onboarding/internal/domain/onboarding"
	"onboarding/internal/domain/reports"
)

func employeesCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List employees with their onboarding progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				employees, err := svc.GetEmployees(ctx)
				if err != nil {
					return fmt.Errorf("failed to list employees: %w", err)
				}
				out := cmd.OutOrStdout()
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tSTART\tPROGRESS\tSTATUS")
				shown := 0
				for _, e := range employees {
					if status != "" && string(e.Status) != status {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n", e.ID, e.Name, e.StartDate, e.Progress, employeeStatus(e.Status))
					shown++
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if shown == 0 {
					fmt.Fprintln(out, "No employees found.")
				}
				return nil
			})
		},
	}
	cmd.Flags().String("status", "", "Only show employees with this status (on-track, at-risk, completed)")
	return cmd
}

func tasksCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks <employee-id>",
		Short: "Show an employee's checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				tasks, err := svc.GetEmployeeTasks(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to load tasks: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintf(out, "No tasks for %s.\n", args[0])
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS")
				for _, t := range tasks {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Category, taskStatus(t.Status))
				}
				return tw.Flush()
			})
		},
	}
	cmd.AddCommand(taskSetCmd(open))
	return cmd
}

func taskSetCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set <employee-id> <task-id> <status>",
		Short: "Change a task's status and recompute the employee's progress",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := onboarding.TaskStatus(strings.ToLower(args[2]))
			if !onboarding.ValidTaskStatus(status) {
				return fmt.Errorf("invalid status %q (want todo, doing, done or blocked)", args[2])
			}
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				updated, err := svc.UpdateTaskStatus(ctx, args[0], args[1], status)
				if err != nil {
					return err
				}
				if !updated {
					return fmt.Errorf("task %s not found for %s", args[1], args[0])
				}
				employee, _, err := svc.GetEmployee(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s/%s → %s (progress %d%%, %s)\n",
					args[0], args[1], taskStatus(status), employee.Progress, employeeStatus(employee.Status))
				return nil
			})
		},
	}
}

func surveysCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveys",
		Short: "List feedback surveys",
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, _ := cmd.Flags().GetString("employee")
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				var (
					surveys []onboarding.FeedbackSurvey
					err     error
				)
				if employeeID != "" {
					surveys, err = svc.GetEmployeeFeedbackSurveys(ctx, employeeID)
				} else {
					surveys, err = svc.GetFeedbackSurveys(ctx)
				}
				if err != nil {
					return fmt.Errorf("failed to list surveys: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(surveys) == 0 {
					fmt.Fprintln(out, "No surveys found.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tEMPLOYEE\tTYPE\tSENT\tSTATUS\tSCORE")
				for _, s := range surveys {
					score := "-"
					if s.OverallScore != nil {
						score = fmt.Sprintf("%.1f", *s.OverallScore)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.EmployeeName, s.Type, s.SentDate.Format("2006-01-02"), surveyStatus(s.Status), score)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().String("employee", "", "Only show surveys for this employee id")
	return cmd
}

func metricsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show headline onboarding metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				m, err := svc.GetMetrics(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Employees:               %d\n", m.TotalEmployees)
				fmt.Fprintf(out, "On track:                %d%%\n", m.OnTrackPercentage)
				fmt.Fprintf(out, "Average completion time: %.1f days\n", m.AverageCompletionTime)
				fmt.Fprintf(out, "Satisfaction:            %.1f\n", m.SatisfactionScore)
				return nil
			})
		},
	}
}

func analyticsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Summarise completed feedback surveys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				a, err := svc.GetFeedbackAnalytics(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Surveys:          %d (%d completed, %d%%)\n", a.TotalSurveys, a.CompletedSurveys, a.CompletionRate)
				fmt.Fprintf(out, "Avg satisfaction: %.1f\n", a.AverageSatisfaction)
				c := a.CategoryAverages
				fmt.Fprintf(out, "Categories:       onboarding %.1f, manager %.1f, workplace %.1f, resources %.1f, overall %.1f\n",
					c.Onboarding, c.Manager, c.Workplace, c.Resources, c.Overall)
				for _, t := range a.Trends {
					fmt.Fprintf(out, "  %s  %.1f  (%d responses)\n", t.Month, t.AverageScore, t.ResponseCount)
				}
				return nil
			})
		},
	}
}

func triggerCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Create any day-30 or day-90 surveys due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				created := svc.TriggerFeedbackSurveys(ctx)
				out := cmd.OutOrStdout()
				if len(created) == 0 {
					fmt.Fprintln(out, "No surveys due.")
					return nil
				}
				for _, s := range created {
					fmt.Fprintf(out, "✓ Created %s survey %s for %s\n", s.Type, s.ID, s.EmployeeName)
				}
				return nil
			})
		},
	}
}

func resetCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all onboarding data and restore the seed fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				svc.Reset(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), yellow.Sprint("Onboarding data reset to seed fixtures."))
				return nil
			})
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm the reset")
	return cmd
}

func reportCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the onboarding PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")
			return withService(cmd, open, func(ctx context.Context, svc *onboarding.Service) error {
				m, err := svc.GetMetrics(ctx)
				if err != nil {
					return err
				}
				a, err := svc.GetFeedbackAnalytics(ctx)
				if err != nil {
					return err
				}
				body, err := reports.OnboardingPDF(svc.Store.Snapshot(), m, a, time.Now().UTC())
				if err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				if err := os.WriteFile(path, body, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d bytes)\n", path, len(body))
				return nil
			})
		},
	}
	cmd.Flags().String("out", "onboarding.pdf", "Output file")
	return cmd
}
