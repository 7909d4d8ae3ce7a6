// cmd/eightd/main.go
//
// Entry point for eightd. Running it bare launches the interactive TUI;
// subcommands cover scripted use (list, export, delete).

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/assist"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/collection"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/config"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/logging"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/store"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/tui"
)

var (
	dataDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "eightd",
	Short: "eightd - 8D problem-solving report manager",
	Long: `eightd manages 8D problem-solving reports: nine disciplines per report,
file attachments, and automatically scheduled revision dates. Reports are
stored locally; run without arguments for the interactive editor.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		var gen assist.Generator
		if key := env.cfg.APIKey(); key != "" {
			gemini, err := assist.NewGemini(context.Background(), key, env.cfg.Model())
			if err != nil {
				env.logger.Warn("assist disabled", zap.Error(err))
			} else {
				gen = gemini
			}
		}

		app := tui.NewApp(env.manager, gen, env.logger,
			tui.WithQuietInterval(env.cfg.QuietInterval()))
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run UI: %w", err)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the report collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		reports := env.manager.ListAll()
		if len(reports) == 0 {
			fmt.Println("no reports")
			return nil
		}
		for _, r := range reports {
			title := r.Title
			if title == "" {
				title = "(untitled)"
			}
			due := "none pending"
			if r.NextRevisionDate != nil {
				due = r.NextRevisionDate.Format("2006-01-02")
			}
			fmt.Printf("%s  %-30s  created %s  next revision %s\n",
				r.ID, title, r.CreatedAt.Format("2006-01-02"), due)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <report-id>",
	Short: "Render one report as plain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		r, err := env.manager.Get(args[0])
		if err != nil {
			return fmt.Errorf("report %s: %w", args[0], err)
		}
		fmt.Print(report.RenderText(r))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <report-id>",
	Short: "Remove a report from the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()
		// Unknown ids are a silent no-op, matching the manager's contract.
		return env.manager.Delete(args[0])
	},
}

// environment bundles everything a command needs.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	st      store.Store
	manager *collection.Manager
}

func (e *environment) close() {
	_ = e.logger.Sync()
	_ = e.st.Close()
}

func setup() (*environment, error) {
	dir := dataDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.New(dir)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogsDir(), logLevel)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	manager, err := collection.NewManager(st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger, st: st, manager: manager}, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Settings.Storage.Driver {
	case config.DriverFile:
		return store.NewFileStore(cfg.StorePath())
	default:
		return store.NewSQLiteStore(cfg.StorePath())
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: user config dir, or EIGHTD_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(listCmd, exportCmd, deleteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
