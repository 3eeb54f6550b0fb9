package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pawgrammers/internal/dashboard/notify"
	"pawgrammers/internal/dashboard/optimistic"
	"pawgrammers/internal/dashboard/petlist"
	"pawgrammers/internal/dashboard/prefs"
	"pawgrammers/internal/petstore"
	"pawgrammers/internal/platform/clock"
	"pawgrammers/internal/platform/config"
	"pawgrammers/internal/platform/logger"
	"pawgrammers/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadDashboard()
	var (
		logLevel string
		log      logger.Logger
		logFile  *os.File
	)

	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Terminal admin dashboard for the Pawgrammers pet collection",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logger.ParseLevel(logLevel)
			}

			// stdout es de la TUI; los logs van a archivo
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logFile = f
			log = logger.New(logger.Options{
				Level:  cfg.LogLevel,
				Format: logger.FormatJSON,
				App:    "pawgrammers-dashboard",
				Output: f,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
			if logFile != nil {
				_ = logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.APIBase, "api-base", cfg.APIBase, "base URL of the pets API (env PETS_API_BASE)")
	f.StringVar(&cfg.Token, "token", cfg.Token, "bearer token for mutating calls (env PETS_API_TOKEN)")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout (env PETS_API_TIMEOUT, seconds)")
	f.StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "theme preferences file (env PAWGRAMMERS_PREFS)")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file (env DASHBOARD_LOG_FILE)")
	f.StringVar(&logLevel, "log-level", cfg.LogLevel.String(), "debug|info|warn|error (env LOG_LEVEL)")

	return cmd
}

func run(cfg config.Dashboard, log logger.Logger) error {
	store, err := petstore.New(petstore.Options{
		BaseURL: cfg.APIBase,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("pets api client: %w", err)
	}

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		log.Warn("load prefs failed, using defaults", map[string]any{"path": cfg.PrefsPath, "error": err})
	}

	sched := clock.Real{}
	notices := notify.New(sched)
	ctl := optimistic.New(optimistic.Options{
		Store:    store,
		List:     petlist.New(),
		Notifier: notices,
		Clock:    sched,
		Log:      log,
	})
	defer ctl.Close()

	log.Info("dashboard starting", map[string]any{"api_base": store.BaseURL(), "theme": string(p.Theme)})

	app := tui.NewApp(tui.Options{
		Controller: ctl,
		Notices:    notices,
		Clock:      sched,
		Prefs:      p,
		PrefsPath:  cfg.PrefsPath,
		Log:        log,
		BaseURL:    store.BaseURL(),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
