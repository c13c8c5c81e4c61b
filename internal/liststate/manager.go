package liststate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/five82/listkeeper/internal/entity"
)

// Record is the behaviour the manager needs from an entity type E whose
// drafts are of type D.
type Record[E any, D any] interface {
	RecordID() entity.ID
	WithID(entity.ID) E
	Draft() D
}

// Draft is user input that validates into an entity without an id.
type Draft[E any] interface {
	Validate() (E, error)
}

// Store is the remote collaborator a manager synchronizes with.
// It is implemented by *remote.Client.
type Store[E any] interface {
	FetchAll(ctx context.Context) ([]E, error)
	Create(ctx context.Context, record E) (E, error)
	Update(ctx context.Context, id entity.ID, record E) error
	Delete(ctx context.Context, id entity.ID) error
}

// Options configure a Manager.
type Options[E any] struct {
	Name   string           // used in log lines
	Remote Store[E]         // nil keeps the list in memory
	Seed   []E              // initial snapshot
	Clock  func() time.Time // local id source; defaults to time.Now
	Logger *log.Logger      // defaults to log.Default()
}

// Manager owns one screen's list and its single edit staging slot.
type Manager[E Record[E, D], D Draft[E]] struct {
	name   string
	remote Store[E]
	clock  func() time.Time
	logger *log.Logger

	mu      sync.RWMutex
	items   []E
	staged  *staging[D]
	loading bool
}

type staging[D any] struct {
	id    entity.ID
	draft D
}

// New builds a Manager. The seed is copied.
func New[E Record[E, D], D Draft[E]](opts Options[E]) *Manager[E, D] {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	name := opts.Name
	if name == "" {
		name = "list"
	}
	return &Manager[E, D]{
		name:   name,
		remote: opts.Remote,
		clock:  clock,
		logger: logger,
		items:  cloneItems(opts.Seed),
	}
}

// Remote reports whether writes go through a remote store.
func (m *Manager[E, D]) Remote() bool { return m.remote != nil }

// List returns a copy of the current snapshot in insertion order.
func (m *Manager[E, D]) List() []E {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.items)
}

// Len returns the number of records in the snapshot.
func (m *Manager[E, D]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Get returns the record with the given id.
func (m *Manager[E, D]) Get(id entity.ID) (E, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if idx := m.indexLocked(id); idx >= 0 {
		return m.items[idx], true
	}
	var zero E
	return zero, false
}

// Loading reports whether a remote call is outstanding.
func (m *Manager[E, D]) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Editing returns the staged id and draft, if any.
func (m *Manager[E, D]) Editing() (entity.ID, D, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.staged == nil {
		var zero D
		return 0, zero, false
	}
	return m.staged.id, m.staged.draft, true
}

// Add validates draft and appends the resulting record. With a remote store
// the record is created remotely and the snapshot re-fetched.
func (m *Manager[E, D]) Add(ctx context.Context, draft D) (E, error) {
	var zero E
	record, err := draft.Validate()
	if err != nil {
		return zero, err
	}

	if m.remote == nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		record = record.WithID(m.nextIDLocked())
		m.items = append(m.items, record)
		return record, nil
	}

	if err := m.begin(); err != nil {
		return zero, err
	}
	defer m.end()

	created, err := m.remote.Create(ctx, record.WithID(0))
	if err != nil {
		m.logger.Printf("%s: create failed: %v", m.name, err)
		return zero, err
	}
	if created.RecordID() == 0 {
		created = record
	}
	if err := m.resync(ctx); err != nil {
		return zero, err
	}
	return created, nil
}

// BeginEdit stages the record with the given id and returns its draft. Any
// previously staged edit is replaced.
func (m *Manager[E, D]) BeginEdit(id entity.ID) (D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		var zero D
		return zero, &NotFoundError{ID: id}
	}
	draft := m.items[idx].Draft()
	m.staged = &staging[D]{id: id, draft: draft}
	return draft, nil
}

// CommitEdit validates draft and replaces the record with the given id,
// keeping its id and position. The staging slot is cleared on success and
// left as is on failure.
func (m *Manager[E, D]) CommitEdit(ctx context.Context, id entity.ID, draft D) (E, error) {
	var zero E
	record, err := draft.Validate()
	if err != nil {
		return zero, err
	}
	updated := record.WithID(id)

	if m.remote == nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		idx := m.indexLocked(id)
		if idx < 0 {
			return zero, &NotFoundError{ID: id}
		}
		m.items[idx] = updated
		m.staged = nil
		return updated, nil
	}

	if _, ok := m.Get(id); !ok {
		return zero, &NotFoundError{ID: id}
	}
	if err := m.begin(); err != nil {
		return zero, err
	}
	defer m.end()

	if err := m.remote.Update(ctx, id, record.WithID(0)); err != nil {
		m.logger.Printf("%s: update %s failed: %v", m.name, id, err)
		return zero, err
	}
	if err := m.resync(ctx); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = nil
	if idx := m.indexLocked(id); idx >= 0 {
		return m.items[idx], nil
	}
	return updated, nil
}

// CancelEdit clears the staging slot.
func (m *Manager[E, D]) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = nil
}

// Remove deletes the record with the given id. A staged edit of that record
// is discarded.
func (m *Manager[E, D]) Remove(ctx context.Context, id entity.ID) error {
	if m.remote == nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		idx := m.indexLocked(id)
		if idx < 0 {
			return &NotFoundError{ID: id}
		}
		m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
		m.dropStagedLocked(id)
		return nil
	}

	if _, ok := m.Get(id); !ok {
		return &NotFoundError{ID: id}
	}
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	if err := m.remote.Delete(ctx, id); err != nil {
		m.logger.Printf("%s: delete %s failed: %v", m.name, id, err)
		return err
	}
	if err := m.resync(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropStagedLocked(id)
	return nil
}

// Refresh replaces the snapshot with the remote store's full list. It is a
// no-op for in-memory managers.
func (m *Manager[E, D]) Refresh(ctx context.Context) error {
	if m.remote == nil {
		return nil
	}
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()
	return m.resync(ctx)
}

// resync must be called between begin and end.
func (m *Manager[E, D]) resync(ctx context.Context) error {
	items, err := m.remote.FetchAll(ctx)
	if err != nil {
		m.logger.Printf("%s: fetch failed: %v", m.name, err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = cloneItems(items)
	if m.staged != nil && m.indexLocked(m.staged.id) < 0 {
		m.staged = nil
	}
	return nil
}

func (m *Manager[E, D]) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return ErrBusy
	}
	m.loading = true
	return nil
}

func (m *Manager[E, D]) end() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}

func (m *Manager[E, D]) indexLocked(id entity.ID) int {
	for i, item := range m.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

func (m *Manager[E, D]) dropStagedLocked(id entity.ID) {
	if m.staged != nil && m.staged.id == id {
		m.staged = nil
	}
}

// nextIDLocked follows the clock in milliseconds but never reuses or goes
// below an existing id.
func (m *Manager[E, D]) nextIDLocked() entity.ID {
	next := entity.ID(m.clock().UnixMilli())
	for _, item := range m.items {
		if id := item.RecordID(); id >= next {
			next = id + 1
		}
	}
	return next
}

func cloneItems[E any](items []E) []E {
	if len(items) == 0 {
		return nil
	}
	dup := make([]E, len(items))
	copy(dup, items)
	return dup
}
