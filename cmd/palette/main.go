package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/aggregate"
	"github.com/letmevibethatforyou/sitesearch/internal/bootstrap"
	siteconfig "github.com/letmevibethatforyou/sitesearch/internal/config"
	"github.com/letmevibethatforyou/sitesearch/internal/tui"
	"github.com/letmevibethatforyou/sitesearch/prefs"
	"github.com/letmevibethatforyou/sitesearch/prefs/dynamostore"
	"github.com/letmevibethatforyou/sitesearch/prefs/sqlitestore"
)

func main() {
	app := &cli.App{
		Name:  "palette",
		Usage: "Search the site from a terminal command palette",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"SITESEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "prefs-db",
				Usage:   "SQLite file for preferences (default: user config dir)",
				EnvVars: []string{"SITESEARCH_PREFS_DB"},
			},
			&cli.StringFlag{
				Name:    "prefs-namespace",
				Usage:   "Preference namespace when a DynamoDB preference table is configured",
				Value:   "default",
				EnvVars: []string{"PREFS_NAMESPACE"},
			},
			&cli.BoolFlag{
				Name:  "closed",
				Usage: "Start with the palette closed (ctrl+k opens it)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of discarding them",
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// The palette owns the terminal, so logs go to a file or nowhere.
	logOut := io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	cfg, err := siteconfig.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	theme, err := prefs.LoadTheme(ctx, store, prefs.ThemeDark)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load theme; using default", "error", err)
	}

	access, err := prefs.LoadAccessibility(ctx, store)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load accessibility settings; using defaults", "error", err)
	}

	index, err := bootstrap.NewIndex(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}

	model := tui.NewModel(ctx, index.Searcher(), store, theme, access, !c.Bool("closed"),
		sitesearch.WithLimit(cfg.Limit),
		sitesearch.WithWeights(cfg.Weights),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Theme and accessibility changes saved through the store apply live.
	unsubscribe := store.OnChange(func(key, value string) {
		switch key {
		case prefs.ThemeKey:
			p.Send(tui.ThemeChangedMsg{Theme: prefs.Theme(value)})
		case prefs.AccessibilityKey:
			settings, err := prefs.LoadAccessibility(ctx, store)
			p.Send(tui.AccessibilityChangedMsg{Settings: settings, Err: err})
		}
	})
	defer unsubscribe()

	go refreshLoop(ctx, p, index, cfg.FlagsRefresh)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("palette failed: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Navigated() != "" {
		fmt.Println(m.Navigated())
	}
	return nil
}

// refreshLoop rebuilds the index every interval and asks the palette to
// re-run its query against the new snapshot.
func refreshLoop(ctx context.Context, p *tea.Program, index *aggregate.Index, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Refresh logs its own failures and always rebuilds.
			_, _ = index.Refresh(ctx)
			p.Send(tui.ReloadMsg{})
		}
	}
}

// openStore uses the DynamoDB preference table when one is configured and a
// local SQLite file otherwise.
func openStore(ctx context.Context, c *cli.Context, cfg *siteconfig.Config) (prefs.Store, func(), error) {
	if cfg.PrefsTable != "" {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		store := dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg.PrefsTable, c.String("prefs-namespace"))
		return store, func() {}, nil
	}

	path := c.String("prefs-db")
	if path == "" {
		path = cfg.PrefsDB
	}
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		path = filepath.Join(dir, "sitesearch", "prefs.db")
	}

	store, err := sqlitestore.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	return store, func() { store.Close() }, nil
}
