package repository

import (
	"context"
	"errors"

	"github.com/samber/mo"
	"gorm.io/gorm"

	"starterapi/internal/model"
)

// BaseRepository is the GORM-backed implementation of Repository. It is a
// thin mapping onto ORM calls: no query planning, no transaction
// orchestration, no retries. Instantiate one per entity type.
type BaseRepository[T model.Entity] struct {
	db *gorm.DB
}

// NewBaseRepository creates a repository for entity type T on the given
// database handle.
func NewBaseRepository[T model.Entity](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

var _ Repository[model.User] = (*BaseRepository[model.User])(nil)

// entityName derives the logical entity name from the zero value of T.
func entityName[T model.Entity]() string {
	var zero T
	return zero.EntityName()
}

// ensureFound is the single existence check every OrFail operation funnels
// through: an absent match or a zero affected-row count both raise the same
// EntityNotFoundError, parameterized by entity name.
func ensureFound[T model.Entity](matched bool) error {
	if matched {
		return nil
	}
	return &EntityNotFoundError{Entity: entityName[T]()}
}

func (r *BaseRepository[T]) Create(ctx context.Context, record *T) (*T, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BaseRepository[T]) FindOne(ctx context.Context, filter Filter) (mo.Option[T], error) {
	return r.findOne(ctx, filter, nil)
}

// findOne is shared by FindOne and the post-update re-read.
func (r *BaseRepository[T]) findOne(ctx context.Context, filter Filter, relations []string) (mo.Option[T], error) {
	tx := r.db.WithContext(ctx)
	if len(filter) > 0 {
		tx = tx.Where(map[string]any(filter))
	}
	for _, rel := range relations {
		tx = tx.Preload(rel)
	}

	var record T
	if err := tx.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return mo.None[T](), nil
		}
		return mo.None[T](), err
	}
	return mo.Some(record), nil
}

func (r *BaseRepository[T]) FindOneOrFail(ctx context.Context, filter Filter) (*T, error) {
	opt, err := r.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	record, ok := opt.Get()
	if err := ensureFound[T](ok); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *BaseRepository[T]) FindOrCreate(ctx context.Context, filter Filter, data *T) (*T, error) {
	opt, err := r.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if record, ok := opt.Get(); ok {
		return &record, nil
	}
	// Check-then-create: a concurrent caller may insert between the read
	// and the write. Callers needing that guarantee must bring their own
	// upsert or lock.
	return r.Create(ctx, data)
}

func (r *BaseRepository[T]) Find(ctx context.Context, opts ...FindOption) ([]T, error) {
	o := applyOptions(opts)

	tx := r.db.WithContext(ctx)
	if o.withDeleted {
		tx = tx.Unscoped()
	}
	if len(o.where) > 0 {
		tx = tx.Where(map[string]any(o.where))
	}
	for _, rel := range o.relations {
		tx = tx.Preload(rel)
	}
	if o.order != "" {
		tx = tx.Order(o.order)
	}
	if o.limit > 0 {
		tx = tx.Limit(o.limit)
	}
	if o.offset > 0 {
		tx = tx.Offset(o.offset)
	}

	records := make([]T, 0)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BaseRepository[T]) Update(ctx context.Context, where Filter, patch Patch, relations ...string) (mo.Option[T], error) {
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]any(where)).
		Updates(map[string]any(patch))
	if res.Error != nil {
		return mo.None[T](), res.Error
	}
	// Separate round-trip; not atomic with respect to concurrent writers.
	return r.findOne(ctx, where, relations)
}

func (r *BaseRepository[T]) UpdateOrFail(ctx context.Context, where Filter, patch Patch, relations ...string) (*T, error) {
	opt, err := r.Update(ctx, where, patch, relations...)
	if err != nil {
		return nil, err
	}
	record, ok := opt.Get()
	if err := ensureFound[T](ok); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *BaseRepository[T]) SoftDelete(ctx context.Context, where Filter) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(map[string]any(where)).
		Delete(new(T))
	return res.RowsAffected, res.Error
}

func (r *BaseRepository[T]) DeleteOrFail(ctx context.Context, where Filter) error {
	affected, err := r.SoftDelete(ctx, where)
	if err != nil {
		return err
	}
	return ensureFound[T](affected > 0)
}

func (r *BaseRepository[T]) Restore(ctx context.Context, where Filter) (int64, error) {
	// Only soft-deleted rows match; restoring a live record affects zero
	// rows and the OrFail variant reports it as not found.
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(new(T)).
		Where(map[string]any(where)).
		Where("deleted_at IS NOT NULL").
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}

func (r *BaseRepository[T]) RestoreOrFail(ctx context.Context, where Filter) error {
	affected, err := r.Restore(ctx, where)
	if err != nil {
		return err
	}
	return ensureFound[T](affected > 0)
}
