package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long: "Create the configuration directory and a default config.yaml.\n" +
			"An existing config.yaml is left untouched. --api-url, when given,\n" +
			"is recorded as the backend origin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := config.DefaultFile()
			f.APIURL = a.settings.Client.APIURL

			written, err := config.WriteFile(a.configDir, f)
			if err != nil {
				return sysErr(err)
			}

			path := filepath.Join(a.configDir, config.FileName)
			out := cmd.OutOrStdout()
			if !written {
				fmt.Fprintln(out, "config already exists:", path)
				return nil
			}
			fmt.Fprintln(out, "tracker initialized")
			fmt.Fprintln(out, "  config: ", path)
			fmt.Fprintln(out, "  api_url:", f.APIURL)
			return nil
		},
	}
}
