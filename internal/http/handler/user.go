package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"starterapi/internal/model"
	"starterapi/internal/repository"
	"starterapi/internal/service"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// updateUserRequest uses pointer fields so PATCH only touches what the
// client sent.
type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

type userResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarPath string    `json:"avatar_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type userListResult struct {
	Data  []userResponse `json:"data"`
	Total int            `json:"total"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		AvatarPath: u.AvatarPath,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return uint(id), nil
}

// ListUsers returns users with limit/offset paging; soft-deleted users are
// excluded.
//
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} userListResult
// @Router /users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		if limit <= 0 {
			limit = 10
		}
		if offset < 0 {
			offset = 0
		}

		users, err := svc.Find(c.UserContext(),
			repository.OrderBy("id"),
			repository.WithLimit(limit),
			repository.WithOffset(offset),
		)
		if err != nil {
			return writeServiceError(c, err)
		}

		total, err := svc.Count(c.UserContext(), repository.Filter{})
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(userListResult{
			Data:  lo.Map(users, func(u model.User, _ int) userResponse { return toUserResponse(u) }),
			Total: total,
		})
	}
}

// GetUser returns a single user by ID.
//
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} userResponse
// @Failure 404 {object} errorPayload
// @Router /users/{id} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		user, err := svc.FindOneByIDOrFail(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toUserResponse(*user))
	}
}

// CreateUser persists a new user. No business validation happens here; the
// storage layer's constraints are the only gate.
//
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "user payload"
// @Success 201 {object} userResponse
// @Router /users [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		user, err := svc.Create(c.UserContext(), &model.User{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(*user))
	}
}

// UpdateUser patches the fields present in the request body.
//
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "user id"
// @Param user body updateUserRequest true "fields to patch"
// @Success 200 {object} userResponse
// @Failure 404 {object} errorPayload
// @Router /users/{id} [patch]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		patch := repository.Patch{}
		if req.Email != nil {
			patch["email"] = *req.Email
		}
		if req.Password != nil {
			patch["password"] = *req.Password
		}
		if req.Name != nil {
			patch["name"] = *req.Name
		}
		if len(patch) == 0 {
			return writeError(c, fiber.StatusBadRequest, "EMPTY_PATCH", "no fields to update")
		}

		user, err := svc.UpdateByID(c.UserContext(), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toUserResponse(*user))
	}
}

// DeleteUser soft-deletes a user; the record stays in storage and can be
// restored.
//
// @Summary Delete user (soft)
// @Tags users
// @Param id path int true "user id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /users/{id} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.DeleteByID(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RestoreUser clears the deletion mark on a soft-deleted user and returns
// the restored record.
//
// @Summary Restore user
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} userResponse
// @Failure 404 {object} errorPayload
// @Router /users/{id}/restore [post]
func RestoreUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.RestoreByID(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		user, err := svc.FindOneByIDOrFail(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toUserResponse(*user))
	}
}

// UploadAvatar stores the uploaded file (multipart field "file") as the
// user's avatar.
//
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "user id"
// @Param file formData file true "avatar image"
// @Success 200 {object} userResponse
// @Failure 404 {object} errorPayload
// @Router /users/{id}/avatar [put]
func UploadAvatar(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		user, err := svc.UploadAvatar(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toUserResponse(*user))
	}
}

// GetAvatar redirects to a presigned download URL for the user's avatar.
//
// @Summary Download avatar
// @Tags users
// @Param id path int true "user id"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /users/{id}/avatar [get]
func GetAvatar(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		url, err := svc.AvatarURL(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNoAvatar) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user has no avatar")
			}
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// DownloadAvatar streams the avatar body through the API, for clients that
// cannot follow a presigned redirect to the object store.
//
// @Summary Download avatar content
// @Tags users
// @Produce octet-stream
// @Param id path int true "user id"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /users/{id}/avatar/content [get]
func DownloadAvatar(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		body, info, err := svc.DownloadAvatar(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNoAvatar) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user has no avatar")
			}
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		if info.Size > 0 {
			c.Set(fiber.HeaderContentLength, fmt.Sprintf("%d", info.Size))
			// fasthttp closes the stream once the body has been sent.
			return c.SendStream(body, int(info.Size))
		}
		return c.SendStream(body)
	}
}
