package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andresdelrio/clubs/internal/bootstrap"
	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, false, func(ctx context.Context, app *bootstrap.Container) error {
				applied, err := database.Migrate(ctx, app.DB)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
					return nil
				}
				for _, name := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
				}
				return nil
			})
		},
	}
}

func newImportStudentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-students <file.csv>",
		Short: "Import students from a sede,group,name,document CSV file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, app *bootstrap.Container) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				result, err := app.Students.ImportStudents(ctx, f)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "added: %d, duplicates: %d, errors: %d\n", len(result.Added), len(result.Duplicates), len(result.Errors))
				for _, d := range result.Duplicates {
					fmt.Fprintf(out, "duplicate %s: %s\n", d.Document, d.Reason)
				}
				for _, e := range result.Errors {
					fmt.Fprintln(out, e)
				}
				return nil
			})
		},
	}
}

var reportArgs struct {
	Sede   string
	Group  string
	Club   string
	Format string
	Output string
}

func newReportCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "report",
		Short: "Print or save the enrollment report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, false, func(ctx context.Context, app *bootstrap.Container) error {
				filter := dto.ReportFilter{SedeSlug: reportArgs.Sede, Group: reportArgs.Group, ClubID: reportArgs.Club}
				format := dto.ReportFormat(strings.ToLower(reportArgs.Format))

				if format == dto.ReportFormatJSON {
					report, err := app.Reports.BuildReport(ctx, filter)
					if err != nil {
						return err
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}

				file, err := app.Reports.Export(ctx, filter, format)
				if err != nil {
					return err
				}
				target := reportArgs.Output
				if target == "" {
					target = file.Filename
				}
				if err := os.WriteFile(filepath.Clean(target), file.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", target)
				return nil
			})
		},
	}
	command.Flags().StringVar(&reportArgs.Sede, "sede", "", "sede slug")
	command.Flags().StringVar(&reportArgs.Group, "group", "", "student group")
	command.Flags().StringVar(&reportArgs.Club, "club", "", "club id")
	command.Flags().StringVarP(&reportArgs.Format, "format", "f", string(dto.ReportFormatJSON), "json, csv or pdf")
	command.Flags().StringVarP(&reportArgs.Output, "output", "o", "", "file to write csv or pdf output to")
	return command
}

func newEnrollmentsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "enrollments",
		Short: "Open or close public self-registration.",
	}
	for _, state := range []struct {
		use     string
		enabled bool
	}{{"enable", true}, {"disable", false}} {
		command.AddCommand(&cobra.Command{
			Use:   state.use,
			Short: fmt.Sprintf("Set enrollments_enabled to %t.", state.enabled),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, false, func(ctx context.Context, app *bootstrap.Container) error {
					resp, err := app.Configuration.SetEnrollmentsEnabled(ctx, state.enabled, "clubsctl")
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "enrollments enabled: %t\n", resp.Enabled)
					return nil
				})
			},
		})
	}
	return command
}

func newAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <document> <clubId>",
		Short: "Enroll a student into a club, bypassing the self-registration gate.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, app *bootstrap.Container) error {
				detail, err := app.Enrollments.AdminAssign(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) enrolled in %s, %s\n",
					detail.StudentName, detail.StudentDocument, detail.ClubName, detail.SedeName)
				return nil
			})
		},
	}
}
