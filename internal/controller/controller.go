// Package controller implements the reconciliation protocol backing
// list and detail views. Mutations are pessimistic: the store is asked
// first and local state merges only the authoritative response, so a
// failed call leaves the collection exactly as it was.
package controller

import (
	"context"
	"sync"

	"github.com/studyhub-app/backend/internal/entity"
	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/models"
)

// Notifier receives mutation failures so the surface can show them.
// Failed mutations are reported once and never retried automatically.
type Notifier interface {
	Error(message string, err error)
}

// LogNotifier reports failures to the application log.
type LogNotifier struct{}

// Error implements Notifier.
func (LogNotifier) Error(message string, err error) {
	logging.Error(message, err)
}

// List holds the reconciled view of one collection.
type List[T models.Record] struct {
	mu       sync.Mutex
	client   *entity.Client[T]
	notifier Notifier
	items    []T
}

// NewList builds an empty list over client. A nil notifier falls back
// to logging.
func NewList[T models.Record](client *entity.Client[T], notifier Notifier) *List[T] {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &List[T]{client: client, notifier: notifier}
}

// Load replaces the collection with the store's current contents.
// On failure the previous contents are kept.
func (l *List[T]) Load(ctx context.Context, sort string) error {
	return l.LoadFiltered(ctx, nil, sort, 0)
}

// LoadFiltered is Load with filter criteria and an optional limit.
func (l *List[T]) LoadFiltered(ctx context.Context, criteria map[string]interface{}, sort string, limit int) error {
	items, err := l.client.Filter(ctx, criteria, sort, limit)
	if err != nil {
		l.notifier.Error("failed to load "+l.client.Kind(), err)
		return err
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the current collection.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len reports the collection size.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Find returns the local copy of a record by id.
func (l *List[T]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if item.GetID().String() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Create persists a record and inserts the server's version into the
// collection. On failure nothing is inserted.
func (l *List[T]) Create(ctx context.Context, record T) (T, error) {
	created, err := l.client.Create(ctx, record)
	if err != nil {
		l.notifier.Error("failed to create "+l.client.Kind(), err)
		var zero T
		return zero, err
	}

	l.mu.Lock()
	l.items = append(l.items, created)
	l.mu.Unlock()
	return created, nil
}

// Update patches a record and replaces the local copy with the
// server's version. On failure the local copy is untouched.
func (l *List[T]) Update(ctx context.Context, id string, patch map[string]interface{}) (T, error) {
	updated, err := l.client.Update(ctx, id, patch)
	if err != nil {
		l.notifier.Error("failed to update "+l.client.Kind(), err)
		var zero T
		return zero, err
	}

	l.mu.Lock()
	for i, item := range l.items {
		if item.GetID() == updated.GetID() {
			l.items[i] = updated
			break
		}
	}
	l.mu.Unlock()
	return updated, nil
}

// Delete removes a record from the store, then from the collection.
// On failure the local copy stays.
func (l *List[T]) Delete(ctx context.Context, id string) error {
	if err := l.client.Delete(ctx, id); err != nil {
		l.notifier.Error("failed to delete "+l.client.Kind(), err)
		return err
	}

	l.mu.Lock()
	for i, item := range l.items {
		if item.GetID().String() == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	l.mu.Unlock()
	return nil
}
