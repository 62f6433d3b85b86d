package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/gotermdiff/internal/app"
	"github.com/sadopc/gotermdiff/internal/audit"
	"github.com/sadopc/gotermdiff/internal/config"
	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/export"
	"github.com/sadopc/gotermdiff/internal/logger"
	"github.com/sadopc/gotermdiff/internal/result"
	"github.com/sadopc/gotermdiff/internal/selstore"
	"github.com/sadopc/gotermdiff/internal/theme"
	"github.com/sadopc/gotermdiff/internal/ui/tree"
	"github.com/sadopc/gotermdiff/internal/watch"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// treeFlags override the tree section of the configuration.
type treeFlags struct {
	strict    bool
	lazy      bool
	hideEmpty bool
	noCreated bool
	noDropped bool
	noAltered bool
}

func (f treeFlags) apply(tc *config.TreeConfig) {
	if f.strict {
		tc.FilterMode = "strict"
	}
	if f.lazy {
		tc.LazyExpand = true
	}
	if f.hideEmpty {
		tc.HideEmptyGroups = true
	}
	if f.noCreated {
		tc.ShowCreated = false
	}
	if f.noDropped {
		tc.ShowDropped = false
	}
	if f.noAltered {
		tc.ShowAltered = false
	}
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Only show objects whose change category is enabled")
	cmd.Flags().BoolVar(&f.lazy, "lazy", false, "Build table and view details on first activation")
	cmd.Flags().BoolVar(&f.hideEmpty, "hide-empty", false, "Omit groups with no visible objects")
	cmd.Flags().BoolVar(&f.noCreated, "no-created", false, "Turn off the created filter")
	cmd.Flags().BoolVar(&f.noDropped, "no-dropped", false, "Turn off the dropped filter")
	cmd.Flags().BoolVar(&f.noAltered, "no-altered", false, "Turn off the altered filter")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFlag  string
		watchFlag   bool
		debugFlag   bool
		logFileFlag string
		tf          treeFlags
	)

	rootCmd := &cobra.Command{
		Use:   "gotermdiff [result-file]",
		Short: "Browse a schema comparison as a colored tree",
		Long: `gotermdiff shows the result of a database schema comparison as a
tree colored by change status, with filters, search and saved selections.

Examples:
  gotermdiff sales.yaml                 # Browse a comparison
  gotermdiff --strict --watch sales.yaml
  gotermdiff print --no-altered sales.yaml`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr(), configFlag)
			tf.apply(&cfg.Tree)

			logFile, err := setupLogging(logFileFlag, debugFlag)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open log file: %v\n", err)
			}
			if logFile != nil {
				defer logFile.Close()
			}

			var opts app.Options
			if len(args) > 0 {
				opts.Path = args[0]
			}

			if path, err := cfg.StorePath(); err == nil {
				store, err := selstore.Open(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open selection store: %v\n", err)
				} else {
					defer store.Close()
					opts.Store = store
				}
			}

			if cfg.Audit.Enabled {
				if path, err := cfg.AuditPath(); err == nil {
					al, err := audit.New(path, cfg.Audit.MaxSizeMB)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open audit log: %v\n", err)
					} else {
						defer al.Close()
						opts.Audit = al
					}
				}
			}

			p := tea.NewProgram(
				app.New(cfg, opts),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)

			if opts.Path != "" && (watchFlag || cfg.Watch.Enabled) {
				w, err := startWatcher(p, opts.Path, cfg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not watch %s: %v\n", opts.Path, err)
				} else {
					defer w.Stop()
				}
			}

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running application: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Reload when the result file changes")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Write diagnostics to this file")
	tf.register(rootCmd)

	rootCmd.AddCommand(
		newPrintCmd(&configFlag),
		newSelectionsCmd(&configFlag),
		newExportCmd(&configFlag),
		newVersionCmd(),
	)
	return rootCmd
}

func newPrintCmd(configFlag *string) *cobra.Command {
	var tf treeFlags
	cmd := &cobra.Command{
		Use:   "print <result-file>",
		Short: "Print the full comparison tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr(), *configFlag)
			tf.apply(&cfg.Tree)
			if t := theme.Get(cfg.Theme); t != nil {
				theme.Current = t
			}

			r, err := result.Load(args[0])
			if err != nil {
				return err
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			b := app.BuilderFor(cfg.Tree)
			// Details are always built for printing.
			b.Lazy = false
			fmt.Fprintln(cmd.OutOrStdout(), tree.Render(b.Build(r.Database), theme.Current))
			return nil
		},
	}
	tf.register(cmd)
	return cmd
}

func newSelectionsCmd(configFlag *string) *cobra.Command {
	openStore := func(cmd *cobra.Command) (*selstore.Store, error) {
		cfg := loadConfig(cmd.ErrOrStderr(), *configFlag)
		path, err := cfg.StorePath()
		if err != nil {
			return nil, err
		}
		return selstore.Open(path)
	}

	cmd := &cobra.Command{
		Use:   "selections",
		Short: "List saved selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.List()
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved selections.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COMPARISON\tOBJECTS\tSAVED")
			for _, s := range saved {
				when := "-"
				if !s.SavedAt.IsZero() {
					when = s.SavedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Comparison, s.Count, when)
			}
			return tw.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <result-file>",
		Short: "Delete the saved selection of a comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			key, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return store.Delete(key)
		},
	}
	cmd.AddCommand(clearCmd)
	return cmd
}

func newExportCmd(configFlag *string) *cobra.Command {
	var (
		tf         treeFlags
		formatFlag string
		outputFlag string
		allFlag    bool
	)
	cmd := &cobra.Command{
		Use:   "export <result-file>",
		Short: "Export the saved selection of a comparison",
		Long: `Export writes the objects checked in the saved selection of a comparison,
or every changed object with --all. Saved selections ignore the filter
flags; --all honors them. The sql format concatenates the change scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg := loadConfig(cmd.ErrOrStderr(), *configFlag)
			tf.apply(&cfg.Tree)

			r, err := result.Load(args[0])
			if err != nil {
				return err
			}
			var rows []export.Row
			if allFlag {
				b := app.BuilderFor(cfg.Tree)
				b.Lazy = false
				rows = export.Changed(b.Build(r.Database))
			} else {
				path, err := cfg.StorePath()
				if err != nil {
					return err
				}
				store, err := selstore.Open(path)
				if err != nil {
					return err
				}
				ids, err := store.Load(r.Path)
				store.Close()
				if errors.Is(err, selstore.ErrNotFound) {
					return fmt.Errorf("no saved selection for %s; use --all to export every change", args[0])
				}
				if err != nil {
					return err
				}
				// Saved objects are exported whatever the current filters hide.
				root := difftree.NewBuilder(difftree.DefaultFilters()).Build(r.Database)
				rows = export.Selected(root, difftree.NewSelection(ids...))
				if skipped := len(ids) - len(rows); skipped > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d saved object(s) no longer in the comparison\n", skipped)
				}
			}

			if outputFlag == "" {
				err = export.Write(cmd.OutOrStdout(), format, rows)
			} else {
				err = export.WriteFile(outputFlag, format, rows)
			}
			if err != nil {
				return err
			}

			if cfg.Audit.Enabled {
				if path, err := cfg.AuditPath(); err == nil {
					if al, err := audit.New(path, cfg.Audit.MaxSizeMB); err == nil {
						al.Log(audit.Entry{Event: audit.EventExport, Count: len(rows), Source: r.Path})
						al.Close()
					}
				}
			}
			if outputFlag != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d object(s) to %s\n", len(rows), outputFlag)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "csv", "Output format: csv, json or sql")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Export every changed object instead of the saved selection")
	tf.register(cmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gotermdiff %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads the configuration, falling back to defaults with a
// warning when it cannot be read.
func loadConfig(stderr io.Writer, path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

// setupLogging sends diagnostics to a file. Without --log-file, debug mode
// logs to ConfigDir()/gotermdiff.log and everything else is discarded.
func setupLogging(path string, debug bool) (*os.File, error) {
	if path == "" && debug {
		dir, err := config.ConfigDir()
		if err != nil {
			logger.Discard()
			return nil, err
		}
		path = filepath.Join(dir, "gotermdiff.log")
	}
	if path == "" {
		logger.Discard()
		return nil, nil
	}
	f, err := logger.OpenFile(path, debug)
	if err != nil {
		logger.Discard()
		return nil, err
	}
	return f, nil
}

// startWatcher reloads the result in p whenever the file changes.
func startWatcher(p *tea.Program, path string, cfg *config.Config) (*watch.Watcher, error) {
	w, err := watch.New(path,
		watch.WithDebounce(cfg.Debounce()),
		watch.WithOnChange(func() {
			p.Send(app.ReloadMsg{})
		}),
		watch.WithOnError(func(err error) {
			logger.Get().Warn("watch", "path", path, "err", err)
			text := "watch: " + err.Error()
			if errors.Is(err, watch.ErrFileRemoved) {
				text = "result file was removed"
			}
			p.Send(app.StatusMsg{Text: text, IsError: true})
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	logger.Get().Debug("watching result", "path", w.Path(), "polling", w.IsPolling())
	return w, nil
}
