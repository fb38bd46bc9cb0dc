package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"finbook/pkg/domain"
	"finbook/pkg/platform/sentinel"
	"finbook/pkg/requestcontext"
)

var pgTracer = otel.Tracer("finbook/internal/repository")

// uniqueViolation is the postgres error code for a violated unique index.
const uniqueViolation = "23505"

// SQLDescriptor tells the postgres engine how one entity type maps to
// its table. Columns and Values must stay aligned; Scan must read the
// columns in the same order.
type SQLDescriptor[T domain.Entity] struct {
	Table        string
	TenantScoped bool

	// IDColumn is the primary key column, "id" by convention.
	IDColumn string

	// TenantColumn is the owner column for tenant-scoped tables.
	TenantColumn string

	// ActiveColumn, when set, is excluded-by-default soft deletion.
	ActiveColumn string

	Columns []string
	Values  func(T) []any
	Scan    func(pgx.Rows) (T, error)

	// FieldColumns maps query field names to columns so WithField stays
	// engine-agnostic.
	FieldColumns map[string]string
}

// PGEngine is the postgres storage engine over a pgx pool.
type PGEngine struct {
	pool *pgxpool.Pool
}

func NewPGEngine(pool *pgxpool.Pool) *PGEngine {
	return &PGEngine{pool: pool}
}

// Begin opens a postgres session. Reads go straight to the pool; staged
// mutations run inside one transaction at SaveChanges.
func (e *PGEngine) Begin() *PGSession {
	return &PGSession{engine: e}
}

// PGSession stages mutations as closures executed in commit order inside
// a single transaction.
type PGSession struct {
	engine *PGEngine
	mu     sync.Mutex
	staged []func(ctx context.Context, tx pgx.Tx) error
}

var _ UnitOfWork = (*PGSession)(nil)

func (s *PGSession) stage(fn func(ctx context.Context, tx pgx.Tx) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, fn)
}

func (s *PGSession) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

func (s *PGSession) SaveChanges(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.staged) == 0 {
		return nil
	}

	ctx, span := pgTracer.Start(ctx, "session.SaveChanges")
	defer span.End()

	tx, err := s.engine.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", sentinel.ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, fn := range s.staged {
		if err := fn(ctx, tx); err != nil {
			return mapPgError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err)
	}
	s.staged = nil
	return nil
}

// mapPgError turns storage-level failures into the typed errors services
// can act on; anything else stays a fault.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", sentinel.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// Postgres is the postgres Repository implementation for one entity
// type, bound to a session.
type Postgres[T domain.Entity] struct {
	session *PGSession
	desc    SQLDescriptor[T]
}

func NewPostgres[T domain.Entity](session *PGSession, desc SQLDescriptor[T]) *Postgres[T] {
	if desc.IDColumn == "" {
		desc.IDColumn = "id"
	}
	if desc.TenantColumn == "" {
		desc.TenantColumn = "tenant_id"
	}
	return &Postgres[T]{session: session, desc: desc}
}

var _ Repository[domain.Entity] = (*Postgres[domain.Entity])(nil)

// selectQuery builds the read statement. The tenant clause is appended
// here, inside the engine, so callers cannot omit it.
func (p *Postgres[T]) selectQuery(ctx context.Context, q Query) (string, []any, error) {
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return "", nil, err
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(p.desc.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(p.desc.Table)
	sb.WriteString(" WHERE TRUE")

	if p.desc.TenantScoped && !sc.Admin {
		args = append(args, uuid.UUID(sc.TenantID))
		fmt.Fprintf(&sb, " AND %s = $%d", p.desc.TenantColumn, len(args))
	}
	if p.desc.ActiveColumn != "" && !q.IncludeInactive {
		fmt.Fprintf(&sb, " AND %s", p.desc.ActiveColumn)
	}
	for name, value := range q.Fields {
		column, ok := p.desc.FieldColumns[name]
		if !ok {
			return "", nil, fmt.Errorf("unknown query field %q on %s", name, p.desc.Table)
		}
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s = $%d", column, len(args))
	}
	return sb.String(), args, nil
}

func (p *Postgres[T]) Query(ctx context.Context, opts ...QueryOption) ([]T, error) {
	stmt, args, err := p.selectQuery(ctx, buildQuery(opts))
	if err != nil {
		return nil, err
	}
	rows, err := p.session.engine.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.desc.Table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		entity, err := p.desc.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.desc.Table, err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", p.desc.Table, err)
	}
	return out, nil
}

func (p *Postgres[T]) FindByID(ctx context.Context, key uuid.UUID) (T, error) {
	var zero T
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return zero, err
	}

	args := []any{key}
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(p.desc.Columns, ", "), p.desc.Table, p.desc.IDColumn)
	if p.desc.TenantScoped && !sc.Admin {
		args = append(args, uuid.UUID(sc.TenantID))
		stmt += fmt.Sprintf(" AND %s = $2", p.desc.TenantColumn)
	}

	rows, err := p.session.engine.pool.Query(ctx, stmt, args...)
	if err != nil {
		return zero, fmt.Errorf("find %s: %w", p.desc.Table, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, fmt.Errorf("find %s: %w", p.desc.Table, err)
		}
		// Missing and other-tenant rows look identical from here.
		return zero, sentinel.ErrNotFound
	}
	return p.desc.Scan(rows)
}

// exists checks visibility of a row before staging a mutation against
// it, applying the same tenant clause as every other read.
func (p *Postgres[T]) exists(ctx context.Context, key uuid.UUID) error {
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return err
	}
	args := []any{key}
	stmt := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1", p.desc.Table, p.desc.IDColumn)
	if p.desc.TenantScoped && !sc.Admin {
		args = append(args, uuid.UUID(sc.TenantID))
		stmt += fmt.Sprintf(" AND %s = $2", p.desc.TenantColumn)
	}
	var one int
	if err := p.session.engine.pool.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("find %s: %w", p.desc.Table, err)
	}
	return nil
}

func (p *Postgres[T]) Add(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return err
	}
	if err := stampForAdd(entity, sc, func() time.Time { return requestcontext.Now(ctx) }, p.desc.TenantScoped); err != nil {
		return err
	}

	placeholders := make([]string, len(p.desc.Columns))
	for i := range p.desc.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		p.desc.Table, strings.Join(p.desc.Columns, ", "), strings.Join(placeholders, ", "))
	values := p.desc.Values(entity)

	p.session.stage(func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, stmt, values...)
		return err
	})
	return nil
}

func (p *Postgres[T]) Update(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return err
	}
	if err := p.exists(ctx, entity.Key()); err != nil {
		return err
	}
	stampForUpdate(entity, sc, func() time.Time { return requestcontext.Now(ctx) })

	assignments := make([]string, len(p.desc.Columns))
	for i, column := range p.desc.Columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	args := p.desc.Values(entity)
	args = append(args, entity.Key())
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		p.desc.Table, strings.Join(assignments, ", "), p.desc.IDColumn, len(args))
	if p.desc.TenantScoped && !sc.Admin {
		args = append(args, uuid.UUID(sc.TenantID))
		stmt += fmt.Sprintf(" AND %s = $%d", p.desc.TenantColumn, len(args))
	}

	p.session.stage(func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return sentinel.ErrNotFound
		}
		return nil
	})
	return nil
}

func (p *Postgres[T]) Delete(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := operationScope(ctx, p.desc.TenantScoped)
	if err != nil {
		return err
	}
	if err := p.exists(ctx, entity.Key()); err != nil {
		return err
	}

	args := []any{entity.Key()}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", p.desc.Table, p.desc.IDColumn)
	if p.desc.TenantScoped && !sc.Admin {
		args = append(args, uuid.UUID(sc.TenantID))
		stmt += fmt.Sprintf(" AND %s = $2", p.desc.TenantColumn)
	}

	p.session.stage(func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, stmt, args...)
		return err
	})
	return nil
}
