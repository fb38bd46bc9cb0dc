package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"finbook/pkg/domain"
	"finbook/pkg/platform/sentinel"
	"finbook/pkg/requestcontext"
)

// Descriptor tells the memory engine how to handle one entity type:
// where it lives, whether it is tenant-scoped, how to copy it, which
// query fields it exposes and which uniqueness invariant it carries.
type Descriptor[T domain.Entity] struct {
	// Collection names the logical table.
	Collection string

	// TenantScoped marks collections whose rows belong to a tenant.
	TenantScoped bool

	// Clone returns a deep enough copy that callers can never mutate
	// committed state through a returned pointer.
	Clone func(T) T

	// Fields projects an entity onto its queryable fields. Values must
	// be comparable; string fields should be pre-normalized.
	Fields func(T) map[string]any

	// UniqueKey returns the uniqueness invariant key for the entity
	// ("" , false when the collection has none). Keys for tenant-scoped
	// uniqueness must embed the owner tenant.
	UniqueKey func(T) (string, bool)

	// Active reports the activity flag; nil when the entity has none.
	Active func(T) bool
}

type changeOp int

const (
	opAdd changeOp = iota
	opUpdate
	opDelete
)

type change struct {
	op         changeOp
	collection string
	key        uuid.UUID
	entity     any
	unique     string
	hasUnique  bool
	prevUnique string
	hasPrev    bool
}

// Engine is the in-memory storage engine: committed tables guarded by a
// mutex, plus the unique-key index used to enforce invariants at commit.
// It stands in for the SQL store in unit tests and doubles as the
// reference semantics for the postgres engine.
type Engine struct {
	mu     sync.RWMutex
	tables map[string]map[uuid.UUID]any
	unique map[string]map[string]uuid.UUID
}

func NewEngine() *Engine {
	return &Engine{
		tables: make(map[string]map[uuid.UUID]any),
		unique: make(map[string]map[string]uuid.UUID),
	}
}

// Begin opens a session: one unit of work with its own staged changes.
// Sessions are per-operation and must not be shared across operations.
func (e *Engine) Begin() *Session {
	return &Session{engine: e}
}

// Session collects staged changes until SaveChanges applies them
// all-or-nothing against the engine.
type Session struct {
	engine *Engine
	mu     sync.Mutex
	staged []change
}

var _ UnitOfWork = (*Session)(nil)

func (s *Session) stage(c change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, c)
}

// Discard drops all staged changes.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

// SaveChanges validates every staged uniqueness claim against committed
// state plus the staged changes themselves, then applies the batch. On
// conflict or cancellation nothing is applied and the stage is kept so
// the caller can inspect or discard it.
func (s *Session) SaveChanges(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.staged) == 0 {
		return nil
	}

	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	// Pass 1: replay uniqueness claims on a scratch copy of the index.
	claims := make(map[string]map[string]uuid.UUID, len(e.unique))
	claimed := func(collection string) map[string]uuid.UUID {
		if m, ok := claims[collection]; ok {
			return m
		}
		m := make(map[string]uuid.UUID, len(e.unique[collection]))
		for k, v := range e.unique[collection] {
			m[k] = v
		}
		claims[collection] = m
		return m
	}
	for _, c := range s.staged {
		idx := claimed(c.collection)
		if c.hasPrev {
			delete(idx, c.prevUnique)
		}
		if c.op == opDelete || !c.hasUnique {
			continue
		}
		if holder, taken := idx[c.unique]; taken && holder != c.key {
			return fmt.Errorf("%w: %s %q", sentinel.ErrConflict, c.collection, c.unique)
		}
		idx[c.unique] = c.key
	}

	// Pass 2: apply.
	for _, c := range s.staged {
		table, ok := e.tables[c.collection]
		if !ok {
			table = make(map[uuid.UUID]any)
			e.tables[c.collection] = table
		}
		switch c.op {
		case opAdd, opUpdate:
			table[c.key] = c.entity
		case opDelete:
			delete(table, c.key)
		}
	}
	for collection, idx := range claims {
		e.unique[collection] = idx
	}

	s.staged = nil
	return nil
}

// Memory is the in-memory Repository implementation for one entity type,
// bound to a session.
type Memory[T domain.Entity] struct {
	session *Session
	desc    Descriptor[T]
}

func NewMemory[T domain.Entity](session *Session, desc Descriptor[T]) *Memory[T] {
	return &Memory[T]{session: session, desc: desc}
}

var _ Repository[domain.Entity] = (*Memory[domain.Entity])(nil)

// visible reports whether a committed row is observable under sc.
// Applied on every read path so it cannot be bypassed by callers.
func (m *Memory[T]) visible(entity T, sc scopeView) bool {
	if !m.desc.TenantScoped || sc.admin {
		return true
	}
	owned, ok := any(entity).(domain.TenantOwned)
	if !ok {
		return true
	}
	return owned.OwnerTenant() == sc.tenant
}

type scopeView struct {
	admin  bool
	tenant domain.TenantID
}

func (m *Memory[T]) Query(ctx context.Context, opts ...QueryOption) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc, err := operationScope(ctx, m.desc.TenantScoped)
	if err != nil {
		return nil, err
	}
	q := buildQuery(opts)
	view := scopeView{admin: sc.Admin, tenant: sc.TenantID}

	m.session.engine.mu.RLock()
	rows := make([]T, 0, len(m.session.engine.tables[m.desc.Collection]))
	for _, raw := range m.session.engine.tables[m.desc.Collection] {
		rows = append(rows, raw.(T))
	}
	m.session.engine.mu.RUnlock()

	matched := lo.Filter(rows, func(row T, _ int) bool {
		if !m.visible(row, view) {
			return false
		}
		if m.desc.Active != nil && !q.IncludeInactive && !m.desc.Active(row) {
			return false
		}
		if len(q.Fields) == 0 {
			return true
		}
		fields := m.desc.Fields(row)
		for name, want := range q.Fields {
			if fields[name] != want {
				return false
			}
		}
		return true
	})
	return lo.Map(matched, func(row T, _ int) T { return m.desc.Clone(row) }), nil
}

func (m *Memory[T]) FindByID(ctx context.Context, key uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	sc, err := operationScope(ctx, m.desc.TenantScoped)
	if err != nil {
		return zero, err
	}
	row, ok := m.committed(key)
	if !ok || !m.visible(row, scopeView{admin: sc.Admin, tenant: sc.TenantID}) {
		// Missing and out-of-scope are indistinguishable on purpose.
		return zero, sentinel.ErrNotFound
	}
	return m.desc.Clone(row), nil
}

func (m *Memory[T]) committed(key uuid.UUID) (T, bool) {
	var zero T
	m.session.engine.mu.RLock()
	defer m.session.engine.mu.RUnlock()
	raw, ok := m.session.engine.tables[m.desc.Collection][key]
	if !ok {
		return zero, false
	}
	return raw.(T), true
}

func (m *Memory[T]) Add(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, m.desc.TenantScoped)
	if err != nil {
		return err
	}
	if err := stampForAdd(entity, sc, func() time.Time { return requestcontext.Now(ctx) }, m.desc.TenantScoped); err != nil {
		return err
	}
	stored := m.desc.Clone(entity)
	c := change{op: opAdd, collection: m.desc.Collection, key: entity.Key(), entity: stored}
	if m.desc.UniqueKey != nil {
		c.unique, c.hasUnique = m.desc.UniqueKey(stored)
	}
	m.session.stage(c)
	return nil
}

func (m *Memory[T]) Update(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, m.desc.TenantScoped)
	if err != nil {
		return err
	}
	prev, ok := m.committed(entity.Key())
	if !ok || !m.visible(prev, scopeView{admin: sc.Admin, tenant: sc.TenantID}) {
		return sentinel.ErrNotFound
	}
	stampForUpdate(entity, sc, func() time.Time { return requestcontext.Now(ctx) })
	stored := m.desc.Clone(entity)
	c := change{op: opUpdate, collection: m.desc.Collection, key: entity.Key(), entity: stored}
	if m.desc.UniqueKey != nil {
		c.unique, c.hasUnique = m.desc.UniqueKey(stored)
		c.prevUnique, c.hasPrev = m.desc.UniqueKey(prev)
	}
	m.session.stage(c)
	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, m.desc.TenantScoped)
	if err != nil {
		return err
	}
	prev, ok := m.committed(entity.Key())
	if !ok || !m.visible(prev, scopeView{admin: sc.Admin, tenant: sc.TenantID}) {
		return sentinel.ErrNotFound
	}
	c := change{op: opDelete, collection: m.desc.Collection, key: entity.Key()}
	if m.desc.UniqueKey != nil {
		c.prevUnique, c.hasPrev = m.desc.UniqueKey(prev)
	}
	m.session.stage(c)
	return nil
}
