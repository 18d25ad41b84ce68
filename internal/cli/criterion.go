package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func newCriterionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "criterion",
		Aliases: []string{"criteria"},
		Short:   "Manage the criteria of a milestone",
	}
	cmd.AddCommand(
		newCriterionListCmd(a),
		newCriterionAddCmd(a),
		newCriterionUpdateCmd(a),
		newCriterionDeleteCmd(a),
	)
	return cmd
}

func newCriterionListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <milestone-id>",
		Short: "List the criteria of a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mid, err := parseID("milestone", args[0])
			if err != nil {
				return err
			}
			s, err := editMilestone(cmd.Context(), a, mid)
			if err != nil {
				return err
			}
			items := s.Criteria().Items()
			return a.emit(cmd.OutOrStdout(), items, func(w io.Writer) { printCriteria(w, items) })
		},
	}
}

func newCriterionAddCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "add <milestone-id>",
		Short: "Add a criterion to a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mid, err := parseID("milestone", args[0])
			if err != nil {
				return err
			}
			s, err := editMilestone(cmd.Context(), a, mid)
			if err != nil {
				return err
			}
			if err := s.OpenNewCriterion(); err != nil {
				return err
			}
			if err := s.NewCriterion.Edit(func(d *types.CriterionTitle) { d.Title = title }); err != nil {
				return err
			}
			c, err := s.SubmitNewCriterion(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), c, func(w io.Writer) {
				fmt.Fprintf(w, "Criterion added: %s (id %d)\n", c.Title, c.ID)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "criterion title (required)")
	return cmd
}

func newCriterionUpdateCmd(a *app) *cobra.Command {
	var (
		milestoneID int
		title       string
	)
	cmd := &cobra.Command{
		Use:   "update <criterion-id>",
		Short: "Rename a criterion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := parseID("criterion", args[0])
			if err != nil {
				return err
			}
			s, err := editMilestone(cmd.Context(), a, milestoneID)
			if err != nil {
				return err
			}
			if err := s.BeginCriterionEdit(cid); err != nil {
				return err
			}
			if err := s.CriterionRows.Edit(cid, func(d *types.CriterionTitle) { d.Title = title }); err != nil {
				return err
			}
			c, err := s.SubmitCriterion(cmd.Context(), cid)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), c, func(w io.Writer) {
				fmt.Fprintf(w, "Criterion updated: %s (id %d)\n", c.Title, c.ID)
			})
		},
	}
	cmd.Flags().IntVar(&milestoneID, "milestone", 0, "milestone the criterion belongs to (required)")
	cmd.Flags().StringVar(&title, "title", "", "new criterion title (required)")
	_ = cmd.MarkFlagRequired("milestone")
	return cmd
}

func newCriterionDeleteCmd(a *app) *cobra.Command {
	var milestoneID int
	cmd := &cobra.Command{
		Use:   "delete <criterion-id>",
		Short: "Delete a criterion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := parseID("criterion", args[0])
			if err != nil {
				return err
			}
			s, err := editMilestone(cmd.Context(), a, milestoneID)
			if err != nil {
				return err
			}
			if err := s.DeleteCriterion(cmd.Context(), cid); err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), map[string]int{"deleted": cid}, func(w io.Writer) {
				fmt.Fprintf(w, "Criterion %d deleted\n", cid)
			})
		},
	}
	cmd.Flags().IntVar(&milestoneID, "milestone", 0, "milestone the criterion belongs to (required)")
	_ = cmd.MarkFlagRequired("milestone")
	return cmd
}
