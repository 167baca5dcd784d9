package handler

import (
	"github.com/gofiber/fiber/v2"
)

// versionResponse carries the application version string.
type versionResponse struct {
	Version string `json:"version"`
}

// Version reports the application version configured at startup.
//
// @Summary Application version
// @Tags meta
// @Produce json
// @Success 200 {object} versionResponse
// @Router /version [get]
func Version(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(versionResponse{Version: version})
	}
}
