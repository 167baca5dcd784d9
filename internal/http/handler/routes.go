package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"starterapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic in this scaffold.
func RegisterRoutes(app *fiber.App, db *sql.DB, version string, userSvc service.UserService) {
	app.Get("/version", Version(version))

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	users := app.Group("/users")
	users.Get("/", ListUsers(userSvc))
	users.Post("/", CreateUser(userSvc))
	users.Get("/:id", GetUser(userSvc))
	users.Patch("/:id", UpdateUser(userSvc))
	users.Delete("/:id", DeleteUser(userSvc))
	users.Post("/:id/restore", RestoreUser(userSvc))
	users.Put("/:id/avatar", UploadAvatar(userSvc))
	users.Get("/:id/avatar", GetAvatar(userSvc))
	users.Get("/:id/avatar/content", DownloadAvatar(userSvc))
}
