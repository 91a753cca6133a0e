package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/sitesearch/algolia"
	"github.com/letmevibethatforyou/sitesearch/flags"
	"github.com/letmevibethatforyou/sitesearch/internal/bootstrap"
	siteconfig "github.com/letmevibethatforyou/sitesearch/internal/config"
)

func runAction(c *cli.Context) error {
	ctx := c.Context

	cfg, err := siteconfig.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	indexName := strings.TrimSpace(c.String("index"))
	if indexName == "" {
		indexName = cfg.AlgoliaIndex
	}

	fetchFlags, err := bootstrap.FlagFetch(ctx, cfg)
	if err != nil {
		return err
	}
	f, err := fetchFlags(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to fetch feature flags; using config defaults", "error", err)
		f = flags.Flags{BlogEnabled: cfg.BlogEnabled}
	}

	docs := bootstrap.NewAggregator(cfg, slog.Default()).Documents(ctx, f)

	slog.InfoContext(ctx, "Starting index sync",
		"index", indexName,
		"documents", len(docs),
		"blog_enabled", f.BlogEnabled,
		"partial", c.Bool("partial"),
		"dry_run", c.Bool("dry-run"),
	)

	if c.Bool("dry-run") {
		for _, doc := range docs {
			slog.InfoContext(ctx, "Would index document", "id", doc.ID, "kind", doc.Kind, "title", doc.Title)
		}
		return nil
	}

	var fetchSecrets algolia.FetchSecrets
	switch {
	case c.String("env") != "":
		slog.InfoContext(ctx, "Using AWS Secrets Manager for credentials", "environment", c.String("env"))
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		fetchSecrets = algolia.AWSSecrets(ctx, secretsmanager.NewFromConfig(awsCfg), c.String("env"))
	case c.String("algolia-app-id") != "" && c.String("algolia-api-key") != "":
		slog.InfoContext(ctx, "Using static credentials from flags")
		fetchSecrets = algolia.StaticSecrets(c.String("algolia-app-id"), c.String("algolia-api-key"))
	default:
		slog.InfoContext(ctx, "Using environment variables for credentials")
		fetchSecrets = algolia.EnvSecrets()
	}

	client := algolia.NewClient(fetchSecrets)
	if err := client.ConfigureIndex(ctx, indexName); err != nil {
		return fmt.Errorf("failed to configure index: %w", err)
	}

	if c.Bool("partial") {
		if err := client.SaveDocuments(ctx, indexName, docs); err != nil {
			return fmt.Errorf("failed to save documents: %w", err)
		}
		if err := client.DeleteDocuments(ctx, indexName, c.StringSlice("delete")); err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
	} else if err := client.ReplaceDocuments(ctx, indexName, docs); err != nil {
		return fmt.Errorf("failed to replace documents: %w", err)
	}

	slog.InfoContext(ctx, "Successfully synced documents", "index", indexName, "count", len(docs))
	return nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "sync",
		Usage: "Aggregate site documents and publish them to an Algolia index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"SITESEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Algolia index name (defaults to the configured index)",
				EnvVars: []string{"ALGOLIA_INDEX"},
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment name for AWS Secrets Manager (takes precedence over API key/ID flags)",
				EnvVars: []string{"ENV", "ENVIRONMENT"},
			},
			&cli.StringFlag{
				Name:    "algolia-app-id",
				Usage:   "Algolia application ID",
				EnvVars: []string{"ALGOLIA_APP_ID"},
			},
			&cli.StringFlag{
				Name:    "algolia-api-key",
				Usage:   "Algolia API key",
				EnvVars: []string{"ALGOLIA_API_KEY"},
			},
			&cli.BoolFlag{
				Name:  "partial",
				Usage: "Upsert documents instead of replacing the whole index",
			},
			&cli.StringSliceFlag{
				Name:  "delete",
				Usage: "Document IDs to remove in partial mode; repeatable",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log the documents that would be indexed without contacting Algolia",
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
