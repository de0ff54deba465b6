// Package entity provides typed clients over the generic record
// store. Each client is parameterized by a record type and derives its
// collection from the type itself, so call sites never pass kind
// strings around.
package entity

import (
	"context"
	"encoding/json"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/models"
	"github.com/studyhub-app/backend/internal/store"
)

// Client is the typed facade for one entity kind. All operations are
// stateless; failures surface as coded errors and never mutate local
// state.
type Client[T models.Record] struct {
	store store.Store
	kind  string
}

// NewClient builds a client for T over any record store, local or
// remote.
func NewClient[T models.Record](st store.Store) *Client[T] {
	var zero T
	return &Client[T]{store: st, kind: zero.Kind()}
}

// Kind returns the collection this client operates on.
func (c *Client[T]) Kind() string {
	return c.kind
}

// List returns all records of the kind. sort is "field:asc",
// "field:desc", a bare field name, or empty for insertion order.
func (c *Client[T]) List(ctx context.Context, sort string) ([]T, error) {
	return c.Filter(ctx, nil, sort, 0)
}

// Filter returns records whose fields equal every criteria entry.
// An empty result is not an error. limit <= 0 means no limit.
func (c *Client[T]) Filter(ctx context.Context, criteria map[string]interface{}, sort string, limit int) ([]T, error) {
	docs, err := c.store.List(ctx, c.kind, store.ListOptions{
		Filter: criteria,
		Sort:   sort,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Get fetches a single record by id.
func (c *Client[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decode(doc)
}

// Create persists a new record. Server-assigned fields (id and the
// timestamps) on the input are ignored; the authoritative record comes
// back from the store.
func (c *Client[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	data, err := json.Marshal(record)
	if err != nil {
		return zero, errors.Wrap(errors.ErrValidation, "failed to encode "+c.kind+" record", err)
	}
	doc, err := c.store.Create(ctx, c.kind, data)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

// Update applies a partial patch and returns the updated record. A
// nil value in the patch clears the field; absent fields are left
// untouched. id and createdAt cannot be patched.
func (c *Client[T]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, error) {
	var zero T
	data, err := json.Marshal(patch)
	if err != nil {
		return zero, errors.Wrap(errors.ErrValidation, "failed to encode patch", err)
	}
	doc, err := c.store.Update(ctx, c.kind, id, data)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

// Delete removes a record. Deleting a record that does not exist is an
// error, not a no-op.
func (c *Client[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.kind, id)
}

func (c *Client[T]) decode(doc json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(doc, &out); err != nil {
		return out, errors.Wrap(errors.ErrInternal, "failed to decode "+c.kind+" record", err)
	}
	return out, nil
}
