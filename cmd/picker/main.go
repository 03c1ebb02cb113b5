package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"xlink-template-picker/internal/app"
	"xlink-template-picker/internal/config"
	"xlink-template-picker/internal/localstore"
	"xlink-template-picker/internal/tui"
)

type flags struct {
	apiURL    string
	catalog   string
	storePath string
	nextStep  string
	delay     time.Duration
	logFile   string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "picker",
		Short:        "Choose and customize an Xlink card template in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runPicker(cmd.Context(), cfg, f.logFile, cmd.OutOrStdout())
		},
	}

	root.Flags().StringVar(&f.apiURL, "api", "", "Xlink API base URL (overrides XLINK_API_URL)")
	root.Flags().StringVar(&f.catalog, "catalog", "", "read templates from a YAML or JSON file instead of the API")
	root.Flags().StringVar(&f.storePath, "store", "", "local selection store path (overrides LOCAL_STORE_PATH)")
	root.Flags().StringVar(&f.nextStep, "next", "", "next-step URL after a successful save")
	root.Flags().DurationVar(&f.delay, "delay", 0, "wait before moving to the next step")
	root.Flags().StringVar(&f.logFile, "log-file", "", "write JSON logs to this file")

	root.AddCommand(newShowCmd(&f))
	return root
}

// newShowCmd prints the last selection kept in the local store.
func newShowCmd(f *flags) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the selection saved in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			store, err := localstore.Open(cfg.LocalStorePath)
			if err != nil {
				return err
			}
			defer store.Close()
			return showSelection(cmd.Context(), store, remove, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&remove, "clear", false, "delete the saved selection after printing it")
	return cmd
}

func showSelection(ctx context.Context, store *localstore.Store, remove bool, out io.Writer) error {
	raw, ok, err := store.Get(ctx, localstore.SelectedTemplateKey)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "no selection saved locally in %s\n", store.Path())
		return nil
	}
	fmt.Fprintf(out, "# %s\n%s\n", store.Path(), raw)
	if remove {
		return store.Delete(ctx, localstore.SelectedTemplateKey)
	}
	return nil
}

func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("api") {
		cfg.APIBaseURL = f.apiURL
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = f.catalog
	}
	if cmd.Flags().Changed("store") {
		cfg.LocalStorePath = f.storePath
	}
	if cmd.Flags().Changed("next") {
		cfg.NextStepURL = f.nextStep
	}
	if cmd.Flags().Changed("delay") && f.delay > 0 {
		cfg.NavigateDelay = f.delay
	}
	return cfg, nil
}

func runPicker(ctx context.Context, cfg config.Config, logFile string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logOut := io.Discard
	if logFile != "" {
		fh, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer fh.Close()
		logOut = fh
	}
	logger := app.NewLoggerTo(cfg, logOut)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	engine := a.NewEngine(loadCtx)
	cancel()

	model := tui.New(tui.Options{
		Engine:        engine,
		Saver:         a.Committer,
		Context:       ctx,
		CommitTimeout: cfg.RequestTimeout,
	})

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.NextURL() != "" {
		fmt.Fprintf(out, "Template saved. Continue at %s\n", m.NextURL())
	}
	return nil
}
