package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON in --json mode and calls human otherwise.
func (a *app) emit(w io.Writer, v any, human func(io.Writer)) error {
	if a.flags.jsonMode {
		return printJSON(w, v)
	}
	human(w)
	return nil
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	tw.Flush()
}

func printProjects(w io.Writer, ps []types.Project) {
	table(w, "ID\tNAME\tDESCRIPTION", func(tw *tabwriter.Writer) {
		for _, p := range ps {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
		}
	})
}

func printMilestones(w io.Writer, ms []types.Milestone) {
	table(w, "ID\tTITLE\tDUE\tDESCRIPTION", func(tw *tabwriter.Writer) {
		for _, m := range ms {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Title, dash(m.DueDate), m.Description)
		}
	})
}

func printCriteria(w io.Writer, cs []types.Criterion) {
	table(w, "ID\tTITLE", func(tw *tabwriter.Writer) {
		for _, c := range cs {
			fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Title)
		}
	})
}

// printProject shows one project with its milestones and their criteria.
func printProject(w io.Writer, p types.Project) {
	fmt.Fprintf(w, "Project %d: %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	if len(p.Milestones) == 0 {
		fmt.Fprintln(w, "  No milestones attached.")
		return
	}
	for _, m := range p.Milestones {
		line := fmt.Sprintf("  [%d] %s", m.ID, m.Title)
		if m.DueDate != "" {
			line += " (due " + m.DueDate + ")"
		}
		fmt.Fprintln(w, line)
		for _, c := range m.Criteria {
			fmt.Fprintf(w, "      - %s\n", c.Title)
		}
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// parseID parses a positive entity id from a command argument.
func parseID(what, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", what, arg, types.ErrInvalidID)
	}
	return id, nil
}
