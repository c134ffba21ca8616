package airtable

import (
	"context"

	"github.com/campgroundfyi/airsync/pkg/reconcile"
)

// TableStore binds a client to one table as a sync.Store.
type TableStore struct {
	client *Client
	table  string
}

// NewTableStore creates a store writing to table.
func NewTableStore(client *Client, table string) *TableStore {
	return &TableStore{client: client, table: table}
}

// Update implements sync.Store.
func (s *TableStore) Update(ctx context.Context, updates []reconcile.Update) error {
	return s.client.BatchUpdate(ctx, s.table, updates)
}

// Delete implements sync.Store.
func (s *TableStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, s.table, id)
}

// LabelLookup binds a client to a linked table as a resolve.LabelLookup,
// reading one label field per reference.
type LabelLookup struct {
	client *Client
	table  string
	field  string
}

// NewLabelLookup creates a lookup reading field from table.
func NewLabelLookup(client *Client, table, field string) *LabelLookup {
	return &LabelLookup{client: client, table: table, field: field}
}

// Label implements resolve.LabelLookup.
func (l *LabelLookup) Label(ctx context.Context, id string) (string, error) {
	return l.client.Lookup(ctx, l.table, id, l.field)
}
