package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/internal/screen"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

func newMilestoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"milestones"},
		Short:   "List, create, and edit milestones",
	}
	cmd.AddCommand(
		newMilestoneListCmd(a),
		newMilestoneCreateCmd(a),
		newMilestoneUpdateCmd(a),
	)
	return cmd
}

func newMilestoneListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screen.NewMilestonesScreen(a.nav, a.deps())
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			items := s.Milestones.Items()
			return a.emit(cmd.OutOrStdout(), items, func(w io.Writer) { printMilestones(w, items) })
		},
	}
}

func newMilestoneCreateCmd(a *app) *cobra.Command {
	var (
		title, description string
		criteria           []string
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a milestone, optionally with criteria",
		Example: `  tracker milestone create --title "Week 1" --criterion "Has README" --criterion "Tests pass"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screen.NewMilestonesScreen(a.nav, a.deps())
			if err := s.OpenCreate(); err != nil {
				return err
			}
			if err := s.Create.Edit(func(d *types.MilestoneDraft) {
				d.Title, d.Description, d.Criteria = title, description, criteria
			}); err != nil {
				return err
			}
			m, err := s.SubmitCreate(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), m, func(w io.Writer) {
				fmt.Fprintf(w, "Milestone created: %s (id %d)\n", m.Title, m.ID)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title (required)")
	cmd.Flags().StringVar(&description, "description", "", "milestone description")
	cmd.Flags().StringArrayVar(&criteria, "criterion", nil, "criterion title (repeatable)")
	return cmd
}

func newMilestoneUpdateCmd(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "update <milestone-id>",
		Short: "Change the title or description of a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("milestone", args[0])
			if err != nil {
				return err
			}
			s, err := editMilestone(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			if err := s.Edit.Edit(func(d *types.MilestoneDraft) {
				if cmd.Flags().Changed("title") {
					d.Title = title
				}
				if cmd.Flags().Changed("description") {
					d.Description = description
				}
			}); err != nil {
				return err
			}

			m, err := s.SubmitEdit(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), m, func(w io.Writer) {
				fmt.Fprintf(w, "Milestone updated: %s (id %d)\n", m.Title, m.ID)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new milestone title")
	cmd.Flags().StringVar(&description, "description", "", "new milestone description")
	return cmd
}

// editMilestone loads the milestone list and opens the edit dialog of id,
// which also loads its criteria.
func editMilestone(ctx context.Context, a *app, id int) (*screen.MilestonesScreen, error) {
	s := screen.NewMilestonesScreen(a.nav, a.deps())
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	if err := s.OpenEdit(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}
