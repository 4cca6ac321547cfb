package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/app"
	"github.com/bezmoradi/hotmouse/internal/compat"
	"github.com/bezmoradi/hotmouse/internal/config"
	"github.com/bezmoradi/hotmouse/internal/metrics"
	"github.com/bezmoradi/hotmouse/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// Flags
var (
	flagConfig        string
	flagDebug         bool
	flagStdinMessages bool
	flagNoDesktop     bool
	flagDryRun        bool
	flagDays          int
)

var rootCmd = &cobra.Command{
	Use:   "hotmouse",
	Short: "Hotmouse - review flashcards with your mouse",
	Long: `Hotmouse maps mouse clicks, chords and scrolls to Anki review actions.

Hotkeys look like q_press_left_click_right or a_wheel_down: the card side
(q or a), the buttons held, then the click or scroll that triggers it.

Examples:
  hotmouse                                   # Start the daemon
  hotmouse bind a_press_left_click_right again
  hotmouse migrate --dry-run                 # Preview a config upgrade
  hotmouse stats                             # Show usage statistics`,
	Version:       version.VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		daemon := app.NewDaemon(store, app.Options{
			StdinMessages: flagStdinMessages,
			NoDesktop:     flagNoDesktop,
		})
		if err := daemon.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize daemon: %w", err)
		}
		return daemon.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade an old config file to the current layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleMigrate(store, flagDryRun)
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the config file location and contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleShowConfig(store)
	},
}

var bindCmd = &cobra.Command{
	Use:   "bind <hotkey> <action>",
	Short: "Bind a hotkey to an action",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleBind(store, args[0], args[1])
	},
}

var unbindCmd = &cobra.Command{
	Use:   "unbind <hotkey>",
	Short: "Remove a hotkey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleUnbind(store, args[0])
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions a hotkey can run",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleListActions()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleShowStats(store, flagDays)
	},
}

var resetStatsCmd = &cobra.Command{
	Use:   "reset-stats",
	Short: "Clear all usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return handleResetStats(store)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ~/.config/hotmouse/config.json)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&flagStdinMessages, "stdin-messages", false, "Read web-layer wheel messages from stdin")
	rootCmd.Flags().BoolVar(&flagNoDesktop, "no-desktop", false, "Show notifications in the terminal only")

	migrateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the migrated config without writing it")
	statsCmd.Flags().IntVar(&flagDays, "days", 7, "Number of recent days to summarize")

	rootCmd.AddCommand(migrateCmd, showConfigCmd, bindCmd, unbindCmd, actionsCmd, statsCmd, resetStatsCmd)
}

func setupLogging() {
	level := log.InfoLevel
	if name := config.LogLevel(); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			log.Warnf("Invalid log level %q, using %s", name, level)
		} else {
			level = parsed
		}
	}
	if flagDebug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func openStore() (*config.Store, error) {
	if flagConfig != "" {
		return config.NewStore(flagConfig), nil
	}
	store, err := config.DefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config: %w", err)
	}
	return store, nil
}

func handleMigrate(store *config.Store, dryRun bool) error {
	raw, err := store.ReadRaw()
	if err != nil {
		return err
	}
	if raw == nil {
		fmt.Println("📝 Config file does not exist yet")
		return nil
	}

	if !dryRun {
		report, err := app.UpgradeConfig(store)
		if err != nil {
			return err
		}
		printReport(report)
		fmt.Printf("✅ Config at %s is up to date\n", store.Path())
		return nil
	}

	migrated, report, err := compat.Migrate(raw)
	if err != nil {
		return err
	}
	printReport(report)
	fmt.Println(string(migrated))
	return nil
}

func printReport(report compat.Report) {
	if report.Empty() {
		fmt.Println("👍 No shortcuts needed changes")
		return
	}
	fmt.Println(report.Render())
}

func handleShowConfig(store *config.Store) error {
	raw, err := store.ReadRaw()
	if err != nil {
		return err
	}
	if raw == nil {
		fmt.Println("📝 Config file does not exist yet")
		fmt.Printf("📁 It will be created at: %s\n", store.Path())
		return nil
	}

	fmt.Printf("📁 Config file location: %s\n", store.Path())
	fmt.Println()
	fmt.Println("📋 Config file contents:")
	fmt.Println(string(raw))

	if compat.NeedsMigration(raw) {
		fmt.Println()
		fmt.Println("⚠️  This config uses an old layout; run 'hotmouse migrate' or start the daemon to upgrade it")
	}
	return nil
}

func handleBind(store *config.Store, hotkey, action string) error {
	var key, bound string
	report, err := app.EditConfig(store, func(cfg *config.Config) (bool, error) {
		var err error
		if key, err = cfg.Bind(hotkey, action); err != nil {
			return false, err
		}
		bound = cfg.Shortcuts[key]
		return true, nil
	})
	printUpgrade(report)
	if err != nil {
		return err
	}

	fmt.Printf("✅ %s → %s\n", key, bound)
	return nil
}

func handleUnbind(store *config.Store, hotkey string) error {
	removed := false
	report, err := app.EditConfig(store, func(cfg *config.Config) (bool, error) {
		removed = cfg.Unbind(hotkey)
		return removed, nil
	})
	printUpgrade(report)
	if err != nil {
		return err
	}

	if !removed {
		fmt.Printf("🤷 %s is not bound\n", hotkey)
		return nil
	}
	fmt.Printf("🗑️  Removed %s\n", hotkey)
	return nil
}

// printUpgrade shows what migrating an old config changed, if anything.
func printUpgrade(report compat.Report) {
	if report.Empty() {
		return
	}
	fmt.Println("🔄 Upgraded config from an older version")
	fmt.Println(report.Render())
}

func handleListActions() {
	names := actions.Names()
	sort.Strings(names)
	fmt.Println("📋 Available actions:")
	fmt.Println("   " + strings.Join(names, ", "))
}

func handleShowStats(store *config.Store, days int) error {
	metricsManager, err := metrics.NewMetricsManager(store.MetricsDir())
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	totalMetrics, err := metricsManager.GetTotalMetrics()
	if err != nil {
		return fmt.Errorf("failed to get total metrics: %w", err)
	}

	recentDays, err := metricsManager.GetRecentDays(days)
	if err != nil {
		fmt.Printf("⚠️  Warning: Failed to get recent metrics: %v\n", err)
	}

	formatter := metrics.NewStatsFormatter()
	fmt.Println(formatter.FormatTotalStats(totalMetrics))
	fmt.Println()

	if len(recentDays) > 0 {
		fmt.Println(formatter.FormatRecentStats(recentDays))
	}
	return nil
}

func handleResetStats(store *config.Store) error {
	metricsManager, err := metrics.NewMetricsManager(store.MetricsDir())
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := metricsManager.ClearAllMetrics(); err != nil {
		return fmt.Errorf("failed to clear metrics: %w", err)
	}

	fmt.Println("🗑️  All usage statistics have been cleared")
	return nil
}
