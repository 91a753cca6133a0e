// Package flags loads the site's feature flags as explicit snapshots.
//
// A Loader holds the last successfully fetched snapshot; callers pass a
// Flags value to whatever needs it instead of consulting shared state.
package flags

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cockroachdb/errors"
)

// Environment variables consulted by Env, in priority order.
const (
	EnvBlog       = "FEATURE_BLOG"
	EnvBlogPublic = "NEXT_PUBLIC_FEATURE_BLOG"
)

// Flags is an immutable snapshot of feature switches.
type Flags struct {
	// BlogEnabled gates blog routes and blog search documents.
	BlogEnabled bool `json:"blog_enabled"`
}

// Fetch retrieves a flag snapshot from some source.
type Fetch func(ctx context.Context) (Flags, error)

// Static returns a Fetch that always yields f.
func Static(f Flags) Fetch {
	return func(context.Context) (Flags, error) {
		return f, nil
	}
}

// Env returns a Fetch that reads flags from the environment. The first
// variable present decides the flag, which is on only for the value "true".
func Env() Fetch {
	return func(context.Context) (Flags, error) {
		var f Flags
		for _, name := range []string{EnvBlog, EnvBlogPublic} {
			if v, ok := os.LookupEnv(name); ok {
				f.BlogEnabled = strings.TrimSpace(v) == "true"
				break
			}
		}
		return f, nil
	}
}

// SecretsManagerClient defines the interface for AWS Secrets Manager operations.
type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsFromARN returns a Fetch that reads a JSON flag document such as
// {"blog_enabled": true} from the AWS Secrets Manager secret secretArn.
func AWSSecretsFromARN(client SecretsManagerClient, secretArn string) Fetch {
	return func(ctx context.Context) (Flags, error) {
		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err != nil {
			return Flags{}, errors.Wrapf(err, "failed to get flags from AWS Secrets Manager with ARN %s", secretArn)
		}

		if result.SecretString == nil {
			return Flags{}, errors.Newf("secret with ARN %s has no string value", secretArn)
		}

		var f Flags
		if err := json.Unmarshal([]byte(aws.ToString(result.SecretString)), &f); err != nil {
			return Flags{}, errors.Wrapf(err, "failed to unmarshal flags JSON from ARN %s", secretArn)
		}
		return f, nil
	}
}

// Loader caches the last good snapshot from a Fetch.
type Loader struct {
	fetch   Fetch
	current atomic.Pointer[Flags]
	logger  *slog.Logger
}

// NewLoader returns a Loader whose snapshot is initial until the first
// successful Refresh.
func NewLoader(fetch Fetch, initial Flags, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{fetch: fetch, logger: logger}
	l.current.Store(&initial)
	return l
}

// Current returns the last good snapshot.
func (l *Loader) Current() Flags {
	return *l.current.Load()
}

// Refresh fetches a new snapshot. On failure the previous snapshot is kept
// and returned alongside the error.
func (l *Loader) Refresh(ctx context.Context) (Flags, error) {
	next, err := l.fetch(ctx)
	if err != nil {
		prev := l.Current()
		l.logger.WarnContext(ctx, "flag refresh failed; keeping previous snapshot",
			"error", err,
			"blog_enabled", prev.BlogEnabled,
		)
		return prev, errors.Wrap(err, "refresh flags")
	}

	prev := l.current.Swap(&next)
	if prev == nil || *prev != next {
		l.logger.InfoContext(ctx, "feature flags updated", "blog_enabled", next.BlogEnabled)
	}
	return next, nil
}
