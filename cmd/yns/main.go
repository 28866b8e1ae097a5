package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spitkov/yns/internal/common/config"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/output"
	"github.com/spitkov/yns/internal/common/version"
	"github.com/spf13/cobra"
)

const (
	// annotationRequiresRoot marks commands that modify system state
	annotationRequiresRoot = "requires-root"

	// exitInterrupted is the status of a run stopped by SIGINT or SIGTERM
	exitInterrupted = 130
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	noColor   bool
	assumeYes bool
	logFile   string

	// cfg is the configuration loaded before any subcommand runs
	cfg *config.Config

	// geteuid is replaced in tests
	geteuid = os.Geteuid
)

var rootCmd = &cobra.Command{
	Use:     "yns",
	Short:   "YNS package manager",
	Long:    `Install, remove and upgrade packages published in the YNS repository.`,
	Version: version.Short(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if cmd.Flags().Changed("log-file") {
			if err := logger.EnableFileLogging(strings.TrimSpace(logFile)); err != nil {
				logger.Error("enabling log file: %v", err)
				os.Exit(1)
			}
		}

		loaded, err := loadConfig()
		if err != nil {
			logger.Error("loading config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
		logger.Debug("configuration: %s", describeSource(cfg))

		if err := checkPrivilege(cmd, args); err != nil {
			output.PrintError("%v", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (default: search standard locations)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append a timestamped log to this file (default: $XDG_STATE_HOME/yns/logs/yns.log)")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = " "

	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
}

// loadConfig reads --config when given, otherwise the first standard
// location. A --config file that does not exist yet yields the defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func describeSource(c *config.Config) string {
	if c.Source() == "" {
		return "built-in defaults"
	}
	return c.Source()
}

// checkPrivilege refuses root-only commands for unprivileged users when the
// configuration asks for it.
func checkPrivilege(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationRequiresRoot] != "true" {
		return nil
	}
	if cfg != nil && !cfg.Privilege.RequireRoot {
		return nil
	}
	if geteuid() == 0 {
		return nil
	}

	invocation := strings.TrimSpace(cmd.CommandPath() + " " + strings.Join(args, " "))
	return fmt.Errorf("this command requires root privileges (try: sudo %s)", invocation)
}

// rootOnly is the annotation set for commands that modify system state
func rootOnly() map[string]string {
	return map[string]string{annotationRequiresRoot: "true"}
}

// notifyContext returns a context cancelled by the first SIGINT or SIGTERM.
// After that signal the default handling is restored, so a second one kills
// the process even if something ignores ctx.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

func main() {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		logger.Close()
		os.Exit(exitInterrupted)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
