package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lanternops/rhelconvert/internal/config"
	"github.com/lanternops/rhelconvert/internal/executor"
	"github.com/lanternops/rhelconvert/internal/logging"
	"github.com/lanternops/rhelconvert/internal/pkgmanager/handlers"
	"github.com/lanternops/rhelconvert/internal/pkgmanager/replay"
	"github.com/lanternops/rhelconvert/internal/specialcases"
	"github.com/lanternops/rhelconvert/internal/systeminfo"
)

var (
	version  = "0.1.0"
	cfgFile  string
	logLevel string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:           "rhelconvert",
	Short:         "RHEL conversion helper",
	Long:          `rhelconvert - package-manager progress reporting and pre-conversion fixes for RHEL-compatible systems`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var specialCasesCmd = &cobra.Command{
	Use:   "special-cases",
	Short: "Detect and fix known distribution-specific conflicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSpecialCases(cmd.Context())
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay [session.yaml]",
	Short: "Replay a recorded package-manager session through the progress reporters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(args[0])
	},
}

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Print the detected system",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSysinfo(cmd.Context())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cfg.WriteYAML(os.Stdout)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rhelconvert v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/rhelconvert/rhelconvert.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "shorthand for --log-level=debug")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(specialCasesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sysinfoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	cfg.Validate()
	return cfg, nil
}

// setup loads the config and routes logging to the console and, when
// configured, the log file. The returned func closes the log file.
func setup() (*config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	out, err := logging.OpenOutput(os.Stdout, logging.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Log file disabled: %v\n", err)
		out, _ = logging.OpenOutput(os.Stdout, logging.FileOptions{})
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, out)

	cleanup := func() { out.Close() }
	return cfg, cleanup, nil
}

func runSpecialCases(ctx context.Context) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	runner := executor.New(cfg)
	sys, err := systeminfo.Collect(ctx, runner)
	if err != nil {
		return fmt.Errorf("collect system info: %w", err)
	}

	specialcases.NewResolver(sys, runner, nil).CheckAndResolve(ctx)
	return nil
}

func runReplay(path string) error {
	_, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	session, err := replay.Load(afero.NewOsFs(), path)
	if err != nil {
		return err
	}

	logger := logging.WithSession(logging.L("pkgmanager"), session.ID)
	return replay.Replay(session.Events, handlers.NewCallbacks(logger))
}

func printSysinfo(ctx context.Context) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	sys, err := systeminfo.Collect(ctx, executor.New(cfg))
	if err != nil {
		return err
	}

	backend, err := systeminfo.DetectPackageManager()
	if err != nil {
		backend = "none"
	}

	fmt.Printf("ID: %s\n", sys.ID)
	fmt.Printf("Version: %s\n", sys.Version)
	fmt.Printf("Arch: %s\n", sys.Arch)
	fmt.Printf("Package manager: %s\n", backend)
	return nil
}
