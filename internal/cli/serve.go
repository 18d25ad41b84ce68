package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/devserver"
	"github.com/mesh-intelligence/tracker/internal/paths"
)

// envAdminPassword supplies the seeded admin's password without putting it
// on the command line.
const envAdminPassword = "TRACKER_ADMIN_PASSWORD"

func newServeCmd(a *app) *cobra.Command {
	var (
		addr, dataDir         string
		memory                bool
		adminEmail, adminName string
		adminPassword         string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local development backend",
		Long: "Serve the Progress Tracker REST API from a local SQLite database.\n" +
			"The database lives in the data directory (--data-dir, serve.data_dir,\n" +
			"$TRACKER_DATA_DIR, or $XDG_DATA_HOME/tracker). With --admin-email an\n" +
			"admin account is created or its password reset before serving.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.settings.Serve.Addr
			}
			dir := ""
			if !memory {
				var err error
				dir, err = paths.ResolveDataDir(dataDir, a.settings.Serve.DataDir)
				if err != nil {
					return sysErr(fmt.Errorf("resolve data dir: %w", err))
				}
			}

			backend := devserver.NewBackend(a.logger)
			if err := backend.Attach(dir); err != nil {
				return sysErr(fmt.Errorf("attach backend: %w", err))
			}
			defer func() {
				if err := backend.Detach(); err != nil {
					a.logger.Warn("detach backend", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if adminEmail != "" {
				if adminPassword == "" {
					adminPassword = os.Getenv(envAdminPassword)
				}
				if _, err := backend.SeedAdmin(ctx, adminEmail, adminName, adminPassword); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			ready := make(chan string, 1)
			go func() {
				if bound, ok := <-ready; ok {
					fmt.Fprintf(out, "tracker dev server listening on http://%s\n", bound)
				}
			}()
			err := devserver.Serve(ctx, addr, devserver.NewHandler(backend, a.logger), a.logger, ready)
			close(ready)
			if err != nil {
				return sysErr(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from serve.addr, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding "+devserver.DatabaseFile)
	cmd.Flags().BoolVar(&memory, "memory", false, "keep the database in memory")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "seed an admin account with this email")
	cmd.Flags().StringVar(&adminName, "admin-name", "", "display name of the seeded admin")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the seeded admin (or $"+envAdminPassword+")")
	return cmd
}
