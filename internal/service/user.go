package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"starterapi/internal/model"
	"starterapi/internal/repository"
	"starterapi/internal/storage"
)

var (
	ErrReaderNil = errors.New("reader is nil")
	ErrNoAvatar  = errors.New("user has no avatar")
)

const avatarURLExpiry = 15 * time.Minute

// UserService exposes the generic CRUD operations for users plus the avatar
// flow. Handlers depend on this interface; the concrete type embeds the
// generic Service.
type UserService interface {
	Find(ctx context.Context, opts ...repository.FindOption) ([]model.User, error)
	FindOne(ctx context.Context, filter repository.Filter) (mo.Option[model.User], error)
	FindOneOrFail(ctx context.Context, filter repository.Filter) (*model.User, error)
	FindOneByIDOrFail(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, data *model.User) (*model.User, error)
	Update(ctx context.Context, where repository.Filter, patch repository.Patch, relations ...string) (*model.User, error)
	UpdateByID(ctx context.Context, id uint, patch repository.Patch, relations ...string) (*model.User, error)
	DeleteByID(ctx context.Context, id uint) error
	RestoreByID(ctx context.Context, id uint) error
	Count(ctx context.Context, filter repository.Filter) (int, error)

	// UploadAvatar streams the content to object storage, records the object
	// key on the user row, and removes the object again if the row update
	// fails.
	UploadAvatar(ctx context.Context, id uint, r io.Reader, originalFilename, contentType string, size int64) (*model.User, error)

	// AvatarURL returns a time-limited download URL for the user's avatar.
	AvatarURL(ctx context.Context, id uint) (string, error)

	// DownloadAvatar streams the avatar content directly from object storage,
	// for deployments where presigned URLs cannot reach the client.
	DownloadAvatar(ctx context.Context, id uint) (io.ReadCloser, storage.ObjectInfo, error)
}

type userService struct {
	*Service[model.User]
	store storage.Storage
}

// NewUserService constructs a UserService over the given repository and
// object store.
func NewUserService(repo repository.Repository[model.User], store storage.Storage) UserService {
	return &userService{
		Service: NewService[model.User](repo),
		store:   store,
	}
}

// FindByEmail is a lookup convenience for the unique email column.
func (s *userService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.FindOneOrFail(ctx, repository.Filter{"email": email})
}

func (s *userService) UploadAvatar(ctx context.Context, id uint, r io.Reader, originalFilename, contentType string, size int64) (*model.User, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// The target must exist before we touch storage.
	if _, err := s.FindOneByIDOrFail(ctx, id); err != nil {
		return nil, err
	}

	ext := filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("avatars", uuid.New().String()+ext))

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	user, err := s.UpdateByID(ctx, id, repository.Patch{"avatar_path": info.Key})
	if err != nil {
		// Rollback: remove the orphaned object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("avatar save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("avatar save failed: %w", err)
	}
	return user, nil
}

func (s *userService) AvatarURL(ctx context.Context, id uint) (string, error) {
	user, err := s.FindOneByIDOrFail(ctx, id)
	if err != nil {
		return "", err
	}
	if user.AvatarPath == "" {
		return "", ErrNoAvatar
	}
	return s.store.PresignGet(ctx, user.AvatarPath, avatarURLExpiry)
}

func (s *userService) DownloadAvatar(ctx context.Context, id uint) (io.ReadCloser, storage.ObjectInfo, error) {
	user, err := s.FindOneByIDOrFail(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if user.AvatarPath == "" {
		return nil, storage.ObjectInfo{}, ErrNoAvatar
	}
	return s.store.Get(ctx, user.AvatarPath)
}
