package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/internal/screen"
)

func newProgressCmd(a *app) *cobra.Command {
	var (
		projectID, milestoneID int
		repoURL                string
	)
	cmd := &cobra.Command{
		Use:     "progress",
		Short:   "Report a milestone's criteria for a repository",
		Example: `  tracker progress --project 1 --milestone 3 --repo https://github.com/acme/widget`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := screen.NewProgressScreen(a.nav, a.deps())
			if err := s.Load(ctx); err != nil {
				return err
			}
			if err := s.SelectProject(ctx, projectID); err != nil {
				return err
			}
			if err := s.SelectMilestone(milestoneID); err != nil {
				return err
			}
			s.SetRepoURL(repoURL)

			report, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), report, func(w io.Writer) { printReport(w, report) })
		},
	}
	cmd.Flags().IntVar(&projectID, "project", 0, "project id (required)")
	cmd.Flags().IntVar(&milestoneID, "milestone", 0, "milestone id (required)")
	cmd.Flags().StringVar(&repoURL, "repo", "", "repository URL (required)")
	return cmd
}

func printReport(w io.Writer, r screen.ProgressReport) {
	fmt.Fprintf(w, "Project:    %s (id %d)\n", r.ProjectName, r.ProjectID)
	fmt.Fprintf(w, "Milestone:  %s (id %d)\n", r.MilestoneTitle, r.MilestoneID)
	fmt.Fprintf(w, "Repository: %s\n", r.RepoURL)
	if len(r.Criteria) == 0 {
		fmt.Fprintln(w, "No criteria defined.")
		return
	}
	for _, c := range r.Criteria {
		fmt.Fprintf(w, "  [%s] %s\n", c.Status, c.Title)
	}
}
