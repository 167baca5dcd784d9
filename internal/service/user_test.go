package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"starterapi/internal/model"
	"starterapi/internal/repository"
	repoMocks "starterapi/internal/repository/mocks"
	"starterapi/internal/storage"
	storeMocks "starterapi/internal/storage/mocks"
)

func TestUserService_FindByEmail(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockRepository[model.User])
	svc := NewUserService(mRepo, new(storeMocks.MockStorage))

	want := &model.User{Model: model.Model{ID: 1}, Email: "a@x.com"}
	mRepo.On("FindOneOrFail", ctx, repository.Filter{"email": "a@x.com"}).Return(want, nil)

	user, err := svc.FindByEmail(ctx, "a@x.com")

	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	mRepo.AssertExpectations(t)
}

func TestUserService_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	existing := &model.User{Model: model.Model{ID: 1}, Email: "a@x.com"}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		r := strings.NewReader("image bytes")

		mRepo.On("FindOneOrFail", ctx, repository.Filter{"id": uint(1)}).Return(existing, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "avatars/") && strings.HasSuffix(key, ".png")
		}), r, storage.PutObjectOptions{
			Size:        11,
			ContentType: "image/png",
			Metadata:    map[string]string{"original-filename": "me.png"},
		}).Return(storage.ObjectInfo{Key: "avatars/key.png", Size: 11, ContentType: "image/png"}, nil)
		mRepo.On("UpdateOrFail", ctx, repository.Filter{"id": uint(1)}, mock.MatchedBy(func(p repository.Patch) bool {
			key, ok := p["avatar_path"].(string)
			return ok && strings.HasPrefix(key, "avatars/")
		}), mock.Anything).Return(&model.User{Model: model.Model{ID: 1}, AvatarPath: "avatars/key.png"}, nil)

		user, err := svc.UploadAvatar(ctx, 1, r, "me.png", "image/png", 11)

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.NotEmpty(t, user.AvatarPath)
	})

	t.Run("nil reader", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		svc := NewUserService(mRepo, new(storeMocks.MockStorage))

		user, err := svc.UploadAvatar(ctx, 1, nil, "me.png", "image/png", 0)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("unknown user", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, repository.Filter{"id": uint(404)}).
			Return(nil, &repository.EntityNotFoundError{Entity: "user"})

		user, err := svc.UploadAvatar(ctx, 404, strings.NewReader("x"), "me.png", "image/png", 1)

		assert.Nil(t, user)
		assert.True(t, repository.IsNotFound(err))
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, mock.Anything).Return(existing, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		user, err := svc.UploadAvatar(ctx, 1, strings.NewReader("x"), "me.png", "image/png", 1)

		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "upload to storage: storage fail")
	})

	t.Run("row update error rolls back the object", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, mock.Anything).Return(existing, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "avatars/key.png"}, nil)
		mRepo.On("UpdateOrFail", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		user, err := svc.UploadAvatar(ctx, 1, strings.NewReader("x"), "me.png", "image/png", 1)

		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "avatar save failed: db fail")
		mStore.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestUserService_AvatarURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns the stored key", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, repository.Filter{"id": uint(1)}).
			Return(&model.User{Model: model.Model{ID: 1}, AvatarPath: "avatars/key.png"}, nil)
		mStore.On("PresignGet", ctx, "avatars/key.png", 15*time.Minute).
			Return("https://store/avatars/key.png?sig=abc", nil)

		url, err := svc.AvatarURL(ctx, 1)

		assert.NoError(t, err)
		assert.Contains(t, url, "avatars/key.png")
	})

	t.Run("no avatar set", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		svc := NewUserService(mRepo, new(storeMocks.MockStorage))

		mRepo.On("FindOneOrFail", ctx, mock.Anything).
			Return(&model.User{Model: model.Model{ID: 1}}, nil)

		url, err := svc.AvatarURL(ctx, 1)

		assert.Empty(t, url)
		assert.ErrorIs(t, err, ErrNoAvatar)
	})
}

func TestUserService_DownloadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the stored object", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, repository.Filter{"id": uint(1)}).
			Return(&model.User{Model: model.Model{ID: 1}, AvatarPath: "avatars/key.png"}, nil)
		mStore.On("Get", ctx, "avatars/key.png").
			Return(io.NopCloser(strings.NewReader("image bytes")),
				storage.ObjectInfo{Key: "avatars/key.png", Size: 11, ContentType: "image/png"}, nil)

		body, info, err := svc.DownloadAvatar(ctx, 1)

		require.NoError(t, err)
		require.NotNil(t, body)
		defer body.Close()

		content, err := io.ReadAll(body)
		assert.NoError(t, err)
		assert.Equal(t, "image bytes", string(content))
		assert.Equal(t, "image/png", info.ContentType)
		mStore.AssertExpectations(t)
	})

	t.Run("no avatar set", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, mock.Anything).
			Return(&model.User{Model: model.Model{ID: 1}}, nil)

		body, _, err := svc.DownloadAvatar(ctx, 1)

		assert.Nil(t, body)
		assert.ErrorIs(t, err, ErrNoAvatar)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.User])
		mStore := new(storeMocks.MockStorage)
		svc := NewUserService(mRepo, mStore)

		mRepo.On("FindOneOrFail", ctx, mock.Anything).
			Return(nil, &repository.EntityNotFoundError{Entity: "user"})

		body, _, err := svc.DownloadAvatar(ctx, 404)

		assert.Nil(t, body)
		assert.True(t, repository.IsNotFound(err))
	})
}
