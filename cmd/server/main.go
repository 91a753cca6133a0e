package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/sitesearch/catalog"
	"github.com/letmevibethatforyou/sitesearch/contact"
	"github.com/letmevibethatforyou/sitesearch/internal/bootstrap"
	siteconfig "github.com/letmevibethatforyou/sitesearch/internal/config"
	"github.com/letmevibethatforyou/sitesearch/internal/httpapi"
)

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "server",
		Usage: "Serve site search, content listings and the contact form over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"SITESEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides the config file)",
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "Time allowed for in-flight requests on shutdown",
				Value: 10 * time.Second,
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
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := siteconfig.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	logger := slog.Default()

	index, err := bootstrap.NewIndex(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	go index.Run(ctx, cfg.FlagsRefresh)

	contactHandler, err := newContactService(ctx, cfg, logger)
	if err != nil {
		return err
	}

	handler := httpapi.NewServer(httpapi.Config{
		Index:    index,
		Projects: catalog.DefaultProjects(),
		Blog:     catalog.NewBlogDir(cfg.BlogDir, logger),
		Contact:  contactHandler,
		Weights:  cfg.Weights,
		Limit:    cfg.Limit,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting HTTP server", "addr", cfg.Addr, "flags_refresh", cfg.FlagsRefresh)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	slog.Info("Server stopped gracefully")
	return nil
}

// newContactService logs every submission and also stores it in DynamoDB
// when a contact table is configured.
func newContactService(ctx context.Context, cfg *siteconfig.Config, logger *slog.Logger) (*contact.Service, error) {
	validator, err := contact.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile contact schema: %w", err)
	}

	var sink contact.Sink = contact.LogSink{Logger: logger}
	if cfg.ContactTable != "" {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		slog.InfoContext(ctx, "Storing contact submissions in DynamoDB", "table", cfg.ContactTable)
		sink = contact.MultiSink{
			contact.NewDynamoSink(dynamodb.NewFromConfig(awsCfg), cfg.ContactTable),
			sink,
		}
	}

	return contact.NewService(validator, sink), nil
}
