package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/tracker/internal/screen"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

var readPasswordFunc = term.ReadPassword // mockable

func newLoginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check administrator credentials",
		Long:  "Prompt for the password of --email and verify it against the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			s := screen.NewLoginScreen(a.nav, a.deps())
			admin, err := s.Submit(cmd.Context(), types.Credentials{
				Email:    strings.TrimSpace(email),
				Password: string(pwd),
			})
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), admin, func(w io.Writer) {
				name := admin.Name
				if name == "" {
					name = admin.Email
				}
				fmt.Fprintf(w, "Logged in as %s <%s> (id %d)\n", name, admin.Email, admin.ID)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email (required)")
	return cmd
}
