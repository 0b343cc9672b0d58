// Package sqlstore implements the repositories on PostgreSQL or SQLite
// through database/sql. Both dialects share one schema and one set of
// squirrel-built statements.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	// database/sql drivers for both dialects.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Dialect selects the SQL flavour and database/sql driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

func (d Dialect) placeholders() sq.PlaceholderFormat {
	if d == SQLite {
		return sq.Question
	}
	return sq.Dollar
}

// greatest is the two-argument maximum function of the dialect.
func (d Dialect) greatest() string {
	if d == SQLite {
		return "MAX"
	}
	return "GREATEST"
}

func (d Dialect) goose() goose.Dialect {
	if d == SQLite {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// ParseDialect maps a storage driver name onto a dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", name)
	}
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn pairs a handle, either the pool or a transaction, with the
// statement builder of the store's dialect.
type conn struct {
	db dbtx
	sb sq.StatementBuilderType
}

// Store implements repository.Store on a *sql.DB.
type Store struct {
	conn
	pool    *sql.DB
	dialect Dialect
}

var _ repository.Store = (*Store)(nil)

// New wraps an open database. Call Migrate before first use.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		conn:    conn{db: db, sb: sq.StatementBuilder.PlaceholderFormat(dialect.placeholders())},
		pool:    db,
		dialect: dialect,
	}
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(s.dialect.goose(), s.pool, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

func (s *Store) Assets() repository.AssetRepository               { return assetRepo{s} }
func (s *Store) WorkOrders() repository.WorkOrderRepository       { return workOrderRepo{s} }
func (s *Store) Fleet() repository.FleetRepository                { return fleetRepo{s} }
func (s *Store) Parts() repository.SparePartRepository            { return partRepo{s} }
func (s *Store) Movements() repository.MovementRepository         { return movementRepo{s} }
func (s *Store) Plans() repository.PlanRepository                 { return planRepo{s} }
func (s *Store) Warehouses() repository.WarehouseRepository       { return warehouseRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Settings() repository.SettingsRepository          { return settingsRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return s.pool.PingContext(ctx) }
func (s *Store) Close() error                   { return s.pool.Close() }

// DB exposes the pool for health checks and tooling.
func (s *Store) DB() *sql.DB { return s.pool }

func (s *Store) withTx(ctx context.Context, fn func(c conn) error) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(conn{db: tx, sb: s.sb}); err != nil {
		return err
	}
	return tx.Commit()
}

func (c conn) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c conn) queryRow(ctx context.Context, b sq.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return c.db.QueryRowContext(ctx, query, args...).Scan(dest...)
}

// distinct lists the sorted distinct values of a text column.
func (c conn) distinct(ctx context.Context, table, column string, skipEmpty bool) ([]string, error) {
	b := c.sb.Select(column).Distinct().From(table).OrderBy(column)
	if skipEmpty {
		b = b.Where(sq.NotEq{column: ""})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

type entity[T any] interface {
	*T
	Base() *model.BaseEntity
}

// mapper binds an entity to its table. columns excludes the id and the
// two timestamps, which every table carries.
type mapper[T any, P entity[T]] struct {
	name    string
	table   string
	prefix  string
	columns []string
	values  func(P) []any
	dest    func(P) []any
}

func (m mapper[T, P]) allColumns() []string {
	cols := make([]string, 0, len(m.columns)+3)
	cols = append(cols, "id")
	cols = append(cols, m.columns...)
	return append(cols, "created_at", "updated_at")
}

func (m mapper[T, P]) scanTargets(p P) []any {
	b := p.Base()
	targets := []any{&b.ID}
	targets = append(targets, m.dest(p)...)
	return append(targets, stamp{&b.CreatedAt}, stamp{&b.UpdatedAt})
}

func (m mapper[T, P]) notFound(id string) error {
	if id == "" {
		return fmt.Errorf("%s: %w", m.name, repository.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", m.name, id, repository.ErrNotFound)
}

// list selects matching rows ordered oldest first unless orderBy is given.
func (m mapper[T, P]) list(ctx context.Context, c conn, where sq.And, orderBy ...string) ([]P, error) {
	if len(orderBy) == 0 {
		orderBy = []string{"created_at", "id"}
	}
	b := c.sb.Select(m.allColumns()...).From(m.table).OrderBy(orderBy...)
	if len(where) > 0 {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.table, err)
	}
	defer rows.Close()

	out := []P{}
	for rows.Next() {
		p := P(new(T))
		if err := rows.Scan(m.scanTargets(p)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", m.name, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (m mapper[T, P]) find(ctx context.Context, c conn, where sq.Sqlizer) (P, error) {
	b := c.sb.Select(m.allColumns()...).From(m.table).Where(where).OrderBy("created_at", "id").Limit(1)
	p := P(new(T))
	err := c.queryRow(ctx, b, m.scanTargets(p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, m.notFound("")
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", m.name, err)
	}
	return p, nil
}

func (m mapper[T, P]) get(ctx context.Context, c conn, id string) (P, error) {
	p, err := m.find(ctx, c, sq.Eq{"id": id})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, m.notFound(id)
	}
	return p, err
}

func (m mapper[T, P]) exists(ctx context.Context, c conn, id string) (bool, error) {
	var n int
	err := c.queryRow(ctx, c.sb.Select("COUNT(*)").From(m.table).Where(sq.Eq{"id": id}), &n)
	return n > 0, err
}

func (m mapper[T, P]) insert(ctx context.Context, c conn, p P) error {
	base := p.Base()
	base.Init(m.prefix)

	taken, err := m.exists(ctx, c, base.ID)
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.name, err)
	}
	if taken {
		return fmt.Errorf("%s %s: %w", m.name, base.ID, repository.ErrAlreadyExists)
	}

	values := []any{base.ID}
	values = append(values, m.values(p)...)
	values = append(values, stampValue(base.CreatedAt), stampValue(base.UpdatedAt))
	b := c.sb.Insert(m.table).Columns(m.allColumns()...).Values(values...)
	if _, err := c.exec(ctx, b); err != nil {
		return fmt.Errorf("insert %s: %w", m.name, err)
	}
	return nil
}

// update rewrites every column except the creation time, which is read
// back into p.
func (m mapper[T, P]) update(ctx context.Context, c conn, p P) error {
	base := p.Base()
	base.UpdatedAt = now()

	set := sq.Eq{"updated_at": stampValue(base.UpdatedAt)}
	for i, v := range m.values(p) {
		set[m.columns[i]] = v
	}
	b := c.sb.Update(m.table).SetMap(set).Where(sq.Eq{"id": base.ID}).Suffix("RETURNING created_at")
	err := c.queryRow(ctx, b, stamp{&base.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return m.notFound(base.ID)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", m.name, err)
	}
	return nil
}

func (m mapper[T, P]) remove(ctx context.Context, c conn, id string) error {
	n, err := c.exec(ctx, c.sb.Delete(m.table).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.name, err)
	}
	if n == 0 {
		return m.notFound(id)
	}
	return nil
}

// search matches query case-insensitively against any of the columns.
func search(query string, columns ...string) sq.Sqlizer {
	pattern := "%" + strings.ToLower(query) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.Like{"LOWER(" + col + ")": pattern})
	}
	return or
}
