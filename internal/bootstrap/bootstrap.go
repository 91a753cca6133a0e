// Package bootstrap builds the pieces every command needs from a loaded
// config: the flag source, the aggregator and the in-memory index.
package bootstrap

import (
	"context"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cockroachdb/errors"

	"github.com/letmevibethatforyou/sitesearch/aggregate"
	"github.com/letmevibethatforyou/sitesearch/catalog"
	"github.com/letmevibethatforyou/sitesearch/flags"
	"github.com/letmevibethatforyou/sitesearch/inmemory"
	"github.com/letmevibethatforyou/sitesearch/internal/config"
)

// FlagFetch picks the flag source: Secrets Manager when an ARN is
// configured, the environment when a flag variable is set, and otherwise
// the config file default.
func FlagFetch(ctx context.Context, cfg *config.Config) (flags.Fetch, error) {
	if cfg.FlagsSecretARN != "" {
		slog.InfoContext(ctx, "using AWS Secrets Manager for feature flags", "secret_arn", cfg.FlagsSecretARN)
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS config")
		}
		return flags.AWSSecretsFromARN(secretsmanager.NewFromConfig(awsCfg), cfg.FlagsSecretARN), nil
	}

	if envFlagsSet() {
		return flags.Env(), nil
	}
	return flags.Static(flags.Flags{BlogEnabled: cfg.BlogEnabled}), nil
}

func envFlagsSet() bool {
	for _, name := range []string{flags.EnvBlog, flags.EnvBlogPublic} {
		if _, ok := os.LookupEnv(name); ok {
			return true
		}
	}
	return false
}

// NewAggregator returns an aggregator over the built-in project catalog and
// the blog directory named in cfg.
func NewAggregator(cfg *config.Config, logger *slog.Logger) *aggregate.Aggregator {
	return aggregate.New(
		catalog.DefaultProjects(),
		catalog.NewBlogDir(cfg.BlogDir, logger),
		aggregate.WithLogger(logger),
	)
}

// NewIndex builds an index and loads it once. A failed first flag fetch is
// logged and the index is built from the config default instead.
func NewIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*aggregate.Index, error) {
	fetch, err := FlagFetch(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loader := flags.NewLoader(fetch, flags.Flags{BlogEnabled: cfg.BlogEnabled}, logger)
	index := aggregate.NewIndex(NewAggregator(cfg, logger), loader, inmemory.New(), logger)

	// Refresh logs its own failures and always rebuilds.
	_, _ = index.Refresh(ctx)
	return index, nil
}
