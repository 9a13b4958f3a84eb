package handlers

import (
	"RoomLink/models"

	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated user attached by the auth middleware.
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get("user").(*models.User)
	return user
}
