package mocks

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"starterapi/internal/model"
	"starterapi/internal/repository"
)

// MockRepository is a testify mock of repository.Repository, generic over
// the entity type.
type MockRepository[T model.Entity] struct {
	mock.Mock
}

func (m *MockRepository[T]) Create(ctx context.Context, record *T) (*T, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) FindOne(ctx context.Context, filter repository.Filter) (mo.Option[T], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return mo.None[T](), args.Error(1)
	}
	return args.Get(0).(mo.Option[T]), args.Error(1)
}

func (m *MockRepository[T]) FindOneOrFail(ctx context.Context, filter repository.Filter) (*T, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) FindOrCreate(ctx context.Context, filter repository.Filter, data *T) (*T, error) {
	args := m.Called(ctx, filter, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) Find(ctx context.Context, opts ...repository.FindOption) ([]T, error) {
	callArgs := make([]any, 0, len(opts)+1)
	callArgs = append(callArgs, ctx)
	for _, opt := range opts {
		callArgs = append(callArgs, opt)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Update(ctx context.Context, where repository.Filter, patch repository.Patch, relations ...string) (mo.Option[T], error) {
	args := m.Called(ctx, where, patch, relations)
	if args.Get(0) == nil {
		return mo.None[T](), args.Error(1)
	}
	return args.Get(0).(mo.Option[T]), args.Error(1)
}

func (m *MockRepository[T]) UpdateOrFail(ctx context.Context, where repository.Filter, patch repository.Patch, relations ...string) (*T, error) {
	args := m.Called(ctx, where, patch, relations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) SoftDelete(ctx context.Context, where repository.Filter) (int64, error) {
	args := m.Called(ctx, where)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[T]) DeleteOrFail(ctx context.Context, where repository.Filter) error {
	args := m.Called(ctx, where)
	return args.Error(0)
}

func (m *MockRepository[T]) Restore(ctx context.Context, where repository.Filter) (int64, error) {
	args := m.Called(ctx, where)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[T]) RestoreOrFail(ctx context.Context, where repository.Filter) error {
	args := m.Called(ctx, where)
	return args.Error(0)
}
