package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/internal/screen"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "List, create, and edit projects and their milestones",
	}
	cmd.AddCommand(
		newProjectListCmd(a),
		newProjectShowCmd(a),
		newProjectCreateCmd(a),
		newProjectUpdateCmd(a),
		newProjectLinkCmd(a, "attach"),
		newProjectLinkCmd(a, "detach"),
		newProjectAttachNewCmd(a),
		newProjectMilestonesCmd(a),
		newProjectAddMilestoneCmd(a),
	)
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screen.NewProjectsScreen(a.nav, a.deps())
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			items := s.Projects.Items()
			return a.emit(cmd.OutOrStdout(), items, func(w io.Writer) { printProjects(w, items) })
		},
	}
}

func newProjectShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its milestones and criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			s := screen.NewProjectDetailScreen(a.nav, a.deps())
			p, err := s.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) { printProject(w, p) })
		},
	}
}

func newProjectCreateCmd(a *app) *cobra.Command {
	var (
		name, description string
		milestones        []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project, optionally with new milestones",
		Example: `  tracker project create --name "Unit 4" --description Capstone
  tracker project create --name "Unit 5" --milestone Design --milestone Build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screen.NewProjectsScreen(a.nav, a.deps())
			if err := s.OpenCreate(); err != nil {
				return err
			}
			for range milestones {
				if err := s.AddMilestoneDraft(); err != nil {
					return err
				}
			}
			if err := s.Create.Edit(func(d *types.ProjectDraft) {
				d.Name, d.Description = name, description
				for i, title := range milestones {
					d.Milestones[i].Title = title
				}
			}); err != nil {
				return err
			}

			p, err := s.SubmitCreate(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) {
				fmt.Fprintf(w, "Project created: %s (id %d)\n", p.Name, p.ID)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringArrayVar(&milestones, "milestone", nil, "title of a new milestone to create with the project (repeatable)")
	return cmd
}

func newProjectUpdateCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change the name or description of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			s := screen.NewProjectsScreen(a.nav, a.deps())
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			if err := s.OpenEdit(id); err != nil {
				return err
			}
			if err := s.Edit.Edit(func(d *types.ProjectDraft) {
				if cmd.Flags().Changed("name") {
					d.Name = name
				}
				if cmd.Flags().Changed("description") {
					d.Description = description
				}
			}); err != nil {
				return err
			}

			p, err := s.SubmitEdit(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) {
				fmt.Fprintf(w, "Project updated: %s (id %d)\n", p.Name, p.ID)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new project name")
	cmd.Flags().StringVar(&description, "description", "", "new project description")
	return cmd
}

// newProjectLinkCmd builds "attach" and "detach", which differ only in the
// linker call.
func newProjectLinkCmd(a *app, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <project-id> <milestone-id>",
		Short: map[string]string{"attach": "Attach an existing milestone to a project", "detach": "Detach a milestone from a project"}[verb],
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			mid, err := parseID("milestone", args[1])
			if err != nil {
				return err
			}
			s := screen.NewProjectDetailScreen(a.nav, a.deps())
			if _, err := s.Load(cmd.Context(), pid); err != nil {
				return err
			}

			link := s.Attach
			if verb == "detach" {
				link = s.Detach
			}
			p, err := link(cmd.Context(), mid)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) { printProject(w, p) })
		},
	}
}

func newProjectAttachNewCmd(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "attach-new <project-id>",
		Short: "Create a milestone and attach it to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			s := screen.NewProjectDetailScreen(a.nav, a.deps())
			if _, err := s.Load(cmd.Context(), pid); err != nil {
				return err
			}
			if err := s.OpenNewMilestone(); err != nil {
				return err
			}
			if err := s.NewMilestone.Edit(func(d *types.MilestoneDraft) {
				d.Title, d.Description = title, description
			}); err != nil {
				return err
			}
			p, err := s.SubmitNewMilestone(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) { printProject(w, p) })
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title (required)")
	cmd.Flags().StringVar(&description, "description", "", "milestone description")
	return cmd
}

func newProjectMilestonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones <project-id>",
		Short: "List the milestones attached to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			s := screen.NewProgressScreen(a.nav, a.deps())
			if err := s.SelectProject(cmd.Context(), pid); err != nil {
				return err
			}
			ms := s.Milestones()
			return a.emit(cmd.OutOrStdout(), ms, func(w io.Writer) { printMilestones(w, ms) })
		},
	}
}

func newProjectAddMilestoneCmd(a *app) *cobra.Command {
	var title, due string
	cmd := &cobra.Command{
		Use:   "add-milestone <project-id>",
		Short: "Create a dated milestone directly under a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			s := screen.NewDashboardScreen(a.nav, a.deps())
			if err := s.Use(pid); err != nil {
				return err
			}
			m, err := s.AddMilestone(cmd.Context(), types.ProjectMilestoneDraft{Title: title, DueDate: due})
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), m, func(w io.Writer) {
				fmt.Fprintf(w, "Milestone added: %s (id %d, due %s)\n", m.Title, m.ID, m.DueDate)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, for example 2026-11-01 (required)")
	return cmd
}
