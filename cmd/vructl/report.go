package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/report"
	"github.com/vrulab/vru-validation/pkg/server/store"
	gormstore "github.com/vrulab/vru-validation/pkg/server/store/gorm"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <test-session-id>",
	Short: "Render the validation report of a test session",
	Long: `Render the latest validation result of a test session.

Example:
  vructl report 6f1c... --format html --output report.html`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		f, err := report.ParseFormat(format)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		database, err := connectForCLI()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		body, err := renderReport(database, args[0], f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			file, err := os.Create(output)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", output, err)
				os.Exit(1)
			}
			defer func() { _ = file.Close() }()
			w = file
		}
		if _, err := w.Write(body); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("format", "f", "md", "Report format (md or html)")
	reportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
}

func renderReport(database *gorm.DB, sessionID string, f report.Format) ([]byte, error) {
	session, err := gormstore.NewTestSessionsStore(database).FetchTestSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("test session %s: %w", sessionID, err)
	}

	rep := report.Report{Session: *session, GeneratedAt: time.Now().UTC()}
	if project, err := gormstore.NewProjectsStore(database).FetchProject(session.ProjectID); err == nil {
		rep.Project = project
	}

	result, comparisons, err := gormstore.NewResultsStore(database).LatestResult(sessionID)
	switch {
	case err == nil:
		rep.Result = result
		rep.Comparisons = comparisons
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	return report.Render(rep, f)
}
