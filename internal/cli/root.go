// Package cli implements the tracker command-line interface. Each command
// drives one screen controller against the configured backend.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/internal/config"
	"github.com/mesh-intelligence/tracker/internal/logging"
	"github.com/mesh-intelligence/tracker/internal/paths"
	"github.com/mesh-intelligence/tracker/internal/screen"
)

// skipSetup marks commands that run without loading configuration.
const skipSetup = "skip-setup"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	apiURL    string
	jsonMode  bool
	logLevel  string
	logFormat string
	timeout   time.Duration
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	flags rootFlags

	configDir string
	settings  config.Settings
	logger    *zap.Logger
	client    *api.Client
	nav       *screen.Navigator
	notifier  *alertNotifier
}

// NewRootCmd creates the top-level "tracker" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "tracker",
		Short: "Administer Progress Tracker projects, milestones, and criteria",
		Long: "tracker is an administrative client for the Progress Tracker backend.\n" +
			"It manages projects, the shared milestones attached to them, and the\n" +
			"criteria of each milestone.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/tracker)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "backend origin, for example http://localhost:8080")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: console or json")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout (0 disables it)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newLoginCmd(a),
		newProjectCmd(a),
		newMilestoneCmd(a),
		newCriterionCmd(a),
		newProgressCmd(a),
		newServeCmd(a),
	)
	return root, a
}

// setup resolves configuration once and builds the logger, API client,
// navigator, and notifier.
func (a *app) setup(cmd *cobra.Command) error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = dir

	a.settings, err = config.Load(dir, config.Overrides{
		APIURL:    a.flags.apiURL,
		Timeout:   a.flags.timeout,
		LogLevel:  a.flags.logLevel,
		LogFormat: a.flags.logFormat,
	})
	if err != nil {
		return sysErr(fmt.Errorf("load config: %w", err))
	}

	a.logger, err = logging.New(a.settings.Client.LogLevel, a.settings.Client.LogFormat)
	if err != nil {
		return sysErr(fmt.Errorf("build logger: %w", err))
	}
	if a.settings.DefaultedAPIURL {
		a.logger.Warn("no API origin configured, using default",
			zap.String("api_url", a.settings.Client.APIURL))
	}

	a.client = api.New(a.settings.Client.APIURL,
		api.WithTimeout(a.settings.Client.Timeout),
		api.WithLogger(a.logger),
	)
	a.nav = screen.NewNavigator(a.logger)
	a.notifier = &alertNotifier{inner: screen.NewWriterNotifier(cmd.ErrOrStderr(), a.logger)}
	return nil
}

func (a *app) deps() screen.Deps {
	return screen.Deps{Client: a.client, Notifier: a.notifier, Logger: a.logger}
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. Errors
// already shown to the operator as alerts are not printed again.
func run(args []string, stdout, stderr io.Writer) int {
	root, a := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	if a.notifier == nil || !a.notifier.shown(err) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}
