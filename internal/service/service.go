package service

import (
	"context"

	"github.com/samber/mo"

	"starterapi/internal/model"
	"starterapi/internal/repository"
)

// Service is a thin, entity-agnostic orchestration layer over a Repository.
// It adds identity-centric conveniences and nothing else: no validation, no
// authorization, no transactional composition. Wire one per entity type via
// constructor injection.
type Service[T model.Entity] struct {
	repo repository.Repository[T]
}

// NewService creates a Service for entity type T on the given repository.
func NewService[T model.Entity](repo repository.Repository[T]) *Service[T] {
	return &Service[T]{repo: repo}
}

func (s *Service[T]) Find(ctx context.Context, opts ...repository.FindOption) ([]T, error) {
	return s.repo.Find(ctx, opts...)
}

func (s *Service[T]) FindOne(ctx context.Context, filter repository.Filter) (mo.Option[T], error) {
	return s.repo.FindOne(ctx, filter)
}

func (s *Service[T]) FindOneOrFail(ctx context.Context, filter repository.Filter) (*T, error) {
	return s.repo.FindOneOrFail(ctx, filter)
}

// FindOneByIDOrFail is the identity convenience over FindOneOrFail.
func (s *Service[T]) FindOneByIDOrFail(ctx context.Context, id uint) (*T, error) {
	return s.repo.FindOneOrFail(ctx, repository.Filter{"id": id})
}

// Create persists the record, then re-fetches it by the assigned identity so
// the returned value reflects storage-computed fields (default timestamps).
func (s *Service[T]) Create(ctx context.Context, data *T) (*T, error) {
	created, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	return s.FindOneByIDOrFail(ctx, (*created).GetID())
}

// Update patches every row matching where and returns the re-read record; a
// missing target raises EntityNotFound.
func (s *Service[T]) Update(ctx context.Context, where repository.Filter, patch repository.Patch, relations ...string) (*T, error) {
	return s.repo.UpdateOrFail(ctx, where, patch, relations...)
}

// UpdateByID is the identity convenience over Update.
func (s *Service[T]) UpdateByID(ctx context.Context, id uint, patch repository.Patch, relations ...string) (*T, error) {
	return s.Update(ctx, repository.Filter{"id": id}, patch, relations...)
}

// DeleteByID soft-deletes the record; EntityNotFound when it does not exist
// or is already soft-deleted.
func (s *Service[T]) DeleteByID(ctx context.Context, id uint) error {
	return s.repo.DeleteOrFail(ctx, repository.Filter{"id": id})
}

// RestoreByID clears the deletion mark; EntityNotFound when no soft-deleted
// record matches (restoring a live record is a no-match).
func (s *Service[T]) RestoreByID(ctx context.Context, id uint) error {
	return s.repo.RestoreOrFail(ctx, repository.Filter{"id": id})
}

// Count fetches all matches and counts them. O(n) in the result size rather
// than a storage-side count; acceptable for a scaffold, not a contract.
func (s *Service[T]) Count(ctx context.Context, filter repository.Filter) (int, error) {
	records, err := s.repo.Find(ctx, repository.Where(filter))
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
