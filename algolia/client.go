// Package algolia publishes site documents to an Algolia index and searches
// them through the sitesearch.Searcher interface.
package algolia

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/sitesearch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Secrets holds the Algolia application credentials.
type Secrets struct {
	// AppID is the Algolia application ID.
	AppID string `json:"app_id"`
	// WriteApiKey is the Algolia write API key.
	WriteApiKey string `json:"write_api_key"`
}

// FetchSecrets retrieves Algolia credentials. It is called at most once per
// Client, on first use.
type FetchSecrets func() (Secrets, error)

// StaticSecrets returns a FetchSecrets function that provides fixed credentials.
func StaticSecrets(appID, writeApiKey string) FetchSecrets {
	return func() (Secrets, error) {
		return Secrets{
			AppID:       appID,
			WriteApiKey: writeApiKey,
		}, nil
	}
}

// EnvSecrets reads ALGOLIA_APP_ID and ALGOLIA_API_KEY.
func EnvSecrets() FetchSecrets {
	return func() (Secrets, error) {
		appID := os.Getenv("ALGOLIA_APP_ID")
		if appID == "" {
			return Secrets{}, errors.New("ALGOLIA_APP_ID environment variable is not set")
		}

		apiKey := os.Getenv("ALGOLIA_API_KEY")
		if apiKey == "" {
			return Secrets{}, errors.New("ALGOLIA_API_KEY environment variable is not set")
		}

		return Secrets{
			AppID:       appID,
			WriteApiKey: apiKey,
		}, nil
	}
}

// Client lazily connects to Algolia on first use.
type Client struct {
	getClient func() (*search.Client, error)
	tracer    trace.Tracer
}

// NewClient returns a client that resolves credentials through fetchSecrets
// the first time an index is touched.
func NewClient(fetchSecrets FetchSecrets) *Client {
	getClient := sync.OnceValues(func() (*search.Client, error) {
		secrets, err := fetchSecrets()
		if err != nil {
			return nil, errors.Wrap(err, "fetch secrets")
		}

		if secrets.AppID == "" {
			return nil, errors.New("AppID is empty")
		}

		if secrets.WriteApiKey == "" {
			return nil, errors.New("WriteApiKey is empty")
		}

		return search.NewClient(secrets.AppID, secrets.WriteApiKey), nil
	})

	return &Client{
		getClient: getClient,
		tracer:    otel.Tracer("sitesearch-algolia"),
	}
}

func (c *Client) initIndex(indexName string) (*search.Index, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, err
	}
	return client.InitIndex(indexName), nil
}

// DocumentObject converts doc to the record stored in the index. Tags are
// stored twice: as displayed and lowercased under _tags for filtering.
func DocumentObject(doc sitesearch.Document) map[string]interface{} {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	filterTags := make([]string, len(tags))
	for i, tag := range tags {
		filterTags[i] = strings.ToLower(tag)
	}

	return map[string]interface{}{
		"objectID":    doc.ID,
		"kind":        string(doc.Kind),
		"title":       doc.Title,
		"description": doc.Description,
		"tags":        tags,
		"_tags":       filterTags,
		"url":         doc.URL,
	}
}

// DocumentObjects converts every document with DocumentObject.
func DocumentObjects(docs []sitesearch.Document) []map[string]interface{} {
	objects := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		objects[i] = DocumentObject(doc)
	}
	return objects
}

// ConfigureIndex sets the searchable attributes and facets the Searcher
// relies on.
func (c *Client) ConfigureIndex(ctx context.Context, indexName string) error {
	_, span := c.tracer.Start(ctx, "algolia.configure_index",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
		),
	)
	defer span.End()

	index, err := c.initIndex(indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	_, err = index.SetSettings(search.Settings{
		SearchableAttributes:  opt.SearchableAttributes("title", "tags", "description"),
		AttributesForFaceting: opt.AttributesForFaceting("kind", "_tags"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set index settings")
		return errors.Wrapf(err, "configure Algolia index %s", indexName)
	}

	span.SetStatus(codes.Ok, "index configured")
	return nil
}

// SaveDocuments upserts docs without touching other records in the index.
func (c *Client) SaveDocuments(ctx context.Context, indexName string, docs []sitesearch.Document) error {
	if len(docs) == 0 {
		return nil
	}

	_, span := c.tracer.Start(ctx, "algolia.save_documents",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
			attribute.Int("algolia.object_count", len(docs)),
		),
	)
	defer span.End()

	index, err := c.initIndex(indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	if _, err := index.SaveObjects(DocumentObjects(docs)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to save %d documents to index %s", len(docs), indexName))
		return errors.Wrapf(err, "save documents to Algolia index %s", indexName)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("saved %d documents", len(docs)))
	return nil
}

// ReplaceDocuments atomically swaps the index contents for docs, removing
// records that are no longer part of the site.
func (c *Client) ReplaceDocuments(ctx context.Context, indexName string, docs []sitesearch.Document) error {
	_, span := c.tracer.Start(ctx, "algolia.replace_documents",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
			attribute.Int("algolia.object_count", len(docs)),
		),
	)
	defer span.End()

	index, err := c.initIndex(indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	if _, err := index.ReplaceAllObjects(DocumentObjects(docs)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to replace objects in index %s", indexName))
		return errors.Wrapf(err, "replace documents in Algolia index %s", indexName)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("replaced index with %d documents", len(docs)))
	return nil
}

// DeleteDocuments removes the given document IDs from the index.
func (c *Client) DeleteDocuments(ctx context.Context, indexName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, span := c.tracer.Start(ctx, "algolia.delete_documents",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
			attribute.Int("algolia.object_count", len(ids)),
		),
	)
	defer span.End()

	index, err := c.initIndex(indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	if _, err := index.DeleteObjects(ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to delete %d objects from index %s", len(ids), indexName))
		return errors.Wrapf(err, "delete documents from Algolia index %s", indexName)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("deleted %d documents", len(ids)))
	return nil
}
