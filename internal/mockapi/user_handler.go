package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentgrid/backoffice/internal/forms"
)

// UserHandler implements the account management endpoints.
type UserHandler struct {
	store *Store
}

func NewUserHandler(store *Store) *UserHandler {
	return &UserHandler{store: store}
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": h.store.Users()})
}

// SetRole handles PATCH /api/users/:id/role.
func (h *UserHandler) SetRole(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	var req forms.RoleForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.SetRole(id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.Rename(currentUserID(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// ChangePassword handles PUT /api/users/change-password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req forms.ChangePasswordForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.ChangePassword(currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated"})
}
