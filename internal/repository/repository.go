// Package repository contains data access layer abstractions.
// The generic Repository interface is instantiated per entity type; the
// GORM-backed implementation lives in base.go. No business logic here,
// strictly persistence operations.
package repository

import (
	"context"

	"github.com/samber/mo"

	"starterapi/internal/model"
)

// Filter holds equality conditions keyed by column name. Attribute names
// map to the snake_cased physical schema through the ORM's naming strategy.
type Filter map[string]any

// Patch holds the column values applied by an update. The updated_at
// timestamp is refreshed by the ORM on every mutation.
type Patch map[string]any

// Repository is the uniform, entity-type-parameterized operation set over a
// persistent collection. Soft-deleted records are excluded from default
// lookups unless explicitly requested via WithDeleted.
type Repository[T model.Entity] interface {
	// Create persists a new record and returns it with the assigned
	// identity and timestamps.
	Create(ctx context.Context, record *T) (*T, error)

	// FindOne returns the first match, or an absent option when no record
	// matches. Absence is never an error at this level.
	FindOne(ctx context.Context, filter Filter) (mo.Option[T], error)

	// FindOneOrFail returns the match or an EntityNotFoundError.
	FindOneOrFail(ctx context.Context, filter Filter) (*T, error)

	// FindOrCreate returns the existing match if present, otherwise
	// persists and returns data. Two callers racing on the same absent
	// filter may both attempt the insert; no atomicity is guaranteed here.
	FindOrCreate(ctx context.Context, filter Filter, data *T) (*T, error)

	// Find returns all matches, possibly empty.
	Find(ctx context.Context, opts ...FindOption) ([]T, error)

	// Update applies patch to every matching row, then re-reads and returns
	// the record matching where, preloading the named relations. The write
	// and the re-read are separate round-trips and are not atomic with
	// respect to concurrent writers. An empty re-read yields an absent
	// option, not an error.
	Update(ctx context.Context, where Filter, patch Patch, relations ...string) (mo.Option[T], error)

	// UpdateOrFail is Update with an EntityNotFoundError on an empty re-read.
	UpdateOrFail(ctx context.Context, where Filter, patch Patch, relations ...string) (*T, error)

	// SoftDelete stamps deleted_at on matching live rows and returns the
	// number of rows affected. Rows are never physically removed.
	SoftDelete(ctx context.Context, where Filter) (int64, error)

	// DeleteOrFail soft-deletes and raises EntityNotFoundError when no row
	// was affected.
	DeleteOrFail(ctx context.Context, where Filter) error

	// Restore clears deleted_at on matching soft-deleted rows and returns
	// the number of rows affected. Live rows never match.
	Restore(ctx context.Context, where Filter) (int64, error)

	// RestoreOrFail restores and raises EntityNotFoundError when no row was
	// affected.
	RestoreOrFail(ctx context.Context, where Filter) error
}

// findOptions collects the optional query modifiers for Find.
type findOptions struct {
	where       Filter
	withDeleted bool
	relations   []string
	order       string
	limit       int
	offset      int
}

// FindOption customizes a Find query.
type FindOption func(*findOptions)

// Where restricts the result set to rows matching the filter.
func Where(f Filter) FindOption {
	return func(o *findOptions) { o.where = f }
}

// WithDeleted includes soft-deleted rows in the result (restore and audit
// flows).
func WithDeleted() FindOption {
	return func(o *findOptions) { o.withDeleted = true }
}

// WithRelations preloads the named relations on every returned record.
func WithRelations(relations ...string) FindOption {
	return func(o *findOptions) { o.relations = append(o.relations, relations...) }
}

// OrderBy sets the ordering expression, e.g. "created_at DESC".
func OrderBy(expr string) FindOption {
	return func(o *findOptions) { o.order = expr }
}

// WithLimit caps the number of returned rows.
func WithLimit(n int) FindOption {
	return func(o *findOptions) { o.limit = n }
}

// WithOffset skips the first n rows.
func WithOffset(n int) FindOption {
	return func(o *findOptions) { o.offset = n }
}

func applyOptions(opts []FindOption) findOptions {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
