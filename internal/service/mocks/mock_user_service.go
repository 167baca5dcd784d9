package mocks

import (
	"context"
	"io"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"starterapi/internal/model"
	"starterapi/internal/repository"
	"starterapi/internal/storage"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Find(ctx context.Context, opts ...repository.FindOption) ([]model.User, error) {
	callArgs := make([]any, 0, len(opts)+1)
	callArgs = append(callArgs, ctx)
	for _, opt := range opts {
		callArgs = append(callArgs, opt)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) FindOne(ctx context.Context, filter repository.Filter) (mo.Option[model.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return mo.None[model.User](), args.Error(1)
	}
	return args.Get(0).(mo.Option[model.User]), args.Error(1)
}

func (m *MockUserService) FindOneOrFail(ctx context.Context, filter repository.Filter) (*model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) FindOneByIDOrFail(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, data *model.User) (*model.User, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, where repository.Filter, patch repository.Patch, relations ...string) (*model.User, error) {
	args := m.Called(ctx, where, patch, relations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateByID(ctx context.Context, id uint, patch repository.Patch, relations ...string) (*model.User, error) {
	args := m.Called(ctx, id, patch, relations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteByID(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) RestoreByID(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) Count(ctx context.Context, filter repository.Filter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockUserService) UploadAvatar(ctx context.Context, id uint, r io.Reader, originalFilename, contentType string, size int64) (*model.User, error) {
	args := m.Called(ctx, id, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AvatarURL(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) DownloadAvatar(ctx context.Context, id uint) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}
