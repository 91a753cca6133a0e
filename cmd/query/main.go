package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/algolia"
	"github.com/letmevibethatforyou/sitesearch/internal/bootstrap"
	siteconfig "github.com/letmevibethatforyou/sitesearch/internal/config"
)

const (
	backendLocal   = "local"
	backendAlgolia = "algolia"

	defaultTimeout = 5 * time.Second
)

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "query",
		Usage: "Rank site documents for a query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"SITESEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Search backend: local or algolia",
				Value:   backendLocal,
			},
			&cli.StringFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Algolia index name (algolia backend)",
				EnvVars: []string{"ALGOLIA_INDEX"},
			},
			&cli.StringFlag{
				Name:    "algolia-secret-arn",
				Usage:   "ARN of AWS Secrets Manager secret containing Algolia credentials",
				EnvVars: []string{"ALGOLIA_SECRET_ARN"},
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Query string to search for; positional arg is a fallback",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results to return",
				Value:   sitesearch.MaxResults,
			},
			&cli.StringSliceFlag{
				Name:  "kind",
				Usage: "Restrict to a document kind (page, project, post, skill); repeatable",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Require a tag; repeatable",
			},
			&cli.BoolFlag{
				Name:  "blog",
				Usage: "Include blog posts regardless of the feature flag (local backend)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the search request",
				Value: defaultTimeout,
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
	ctx := c.Context

	query := strings.TrimSpace(c.String("query"))
	if query == "" && c.NArg() > 0 {
		query = strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	}

	cfg, err := siteconfig.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bool("blog") {
		cfg.BlogEnabled = true
	}

	limit := c.Int("limit")
	if limit <= 0 {
		slog.WarnContext(ctx, "limit must be positive; falling back to default", "limit", limit, "default", cfg.Limit)
		limit = cfg.Limit
	}

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		slog.WarnContext(ctx, "timeout must be positive; using default", "timeout", timeout, "default", defaultTimeout)
		timeout = defaultTimeout
	}

	filters, err := buildFilterOptions(c.StringSlice("kind"), c.StringSlice("tag"))
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	searcher, err := newSearcher(c, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := []sitesearch.SearchOption{
		sitesearch.WithLimit(limit),
		sitesearch.WithWeights(cfg.Weights),
	}
	opts = append(opts, filters...)

	slog.InfoContext(ctx, "executing query",
		"backend", c.String("backend"),
		"query", query,
		"limit", limit,
		"filter_count", len(filters),
		"timeout", timeout,
	)

	results, err := searcher.Search(ctx, query, opts...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if err := printResults(results); err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	return nil
}

func newSearcher(c *cli.Context, cfg *siteconfig.Config) (sitesearch.Searcher, error) {
	ctx := c.Context

	switch backend := c.String("backend"); backend {
	case backendLocal:
		index, err := bootstrap.NewIndex(ctx, cfg, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to build index: %w", err)
		}
		return index.Searcher(), nil

	case backendAlgolia:
		indexName := strings.TrimSpace(c.String("index"))
		if indexName == "" {
			indexName = cfg.AlgoliaIndex
		}

		var fetchSecrets algolia.FetchSecrets
		if secretArn := strings.TrimSpace(c.String("algolia-secret-arn")); secretArn != "" {
			slog.InfoContext(ctx, "using AWS Secrets Manager for Algolia credentials", "secret_arn", secretArn)
			awsCfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load AWS config: %w", err)
			}
			fetchSecrets = algolia.AWSSecretsFromARN(ctx, secretsmanager.NewFromConfig(awsCfg), secretArn)
		} else {
			fetchSecrets = algolia.EnvSecrets()
		}
		return algolia.NewSearcher(algolia.NewClient(fetchSecrets), indexName), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func buildFilterOptions(kinds, tags []string) ([]sitesearch.SearchOption, error) {
	var options []sitesearch.SearchOption

	if len(kinds) > 0 {
		exprs := make([]sitesearch.Expression, 0, len(kinds))
		for _, raw := range kinds {
			kind := sitesearch.Kind(strings.ToLower(strings.TrimSpace(raw)))
			if !kind.Valid() {
				return nil, fmt.Errorf("unknown kind %q", raw)
			}
			exprs = append(exprs, sitesearch.KindIs(kind))
		}
		options = append(options, sitesearch.Or(exprs...))
	}

	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			return nil, fmt.Errorf("tag cannot be empty")
		}
		options = append(options, sitesearch.HasTag(tag))
	}

	return options, nil
}

func printResults(res *sitesearch.Results) error {
	if res == nil {
		fmt.Println("{}")
		return nil
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	fmt.Println(string(data))
	return nil
}
