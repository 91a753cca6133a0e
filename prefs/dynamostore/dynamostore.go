// Package dynamostore keeps preferences in a DynamoDB table, one item per
// (namespace, key) pair.
package dynamostore

import (
	"context"
	"time"

	"github.com/letmevibethatforyou/sitesearch/internal/ddb"
	"github.com/letmevibethatforyou/sitesearch/prefs"
)

// Store is a prefs.Store scoped to one namespace, typically a visitor or
// device id.
type Store struct {
	prefs.Notifier
	table     *ddb.Table
	namespace string
	now       func() time.Time
}

var _ prefs.Store = (*Store)(nil)

// New returns a Store writing to the table named table.
func New(api ddb.API, table, namespace string) *Store {
	return &Store{
		table:     ddb.NewTable(api, table),
		namespace: namespace,
		now:       time.Now,
	}
}

// Get implements prefs.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var rec ddb.PrefRecord
	found, err := s.table.Get(ctx, ddb.PrefPK(s.namespace), key, &rec)
	if err != nil || !found {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Set implements prefs.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	err := s.table.Put(ctx, ddb.PrefRecord{
		Namespace: ddb.PrefPK(s.namespace),
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().Unix(),
	})
	if err != nil {
		return err
	}

	s.Notify(key, value)
	return nil
}
