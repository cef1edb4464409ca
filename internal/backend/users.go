package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type usersResponse struct {
	envelope
	Users []domain.User `json:"users"`
}

type userResponse struct {
	envelope
	User *domain.User `json:"user"`
}

// Users lists every account; admin/moderator scoped server-side.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var resp usersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// UpdateUserRole changes an account's role.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	body := map[string]string{"role": role}
	path := fmt.Sprintf("/api/users/%d/role", id)
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile renames the authenticated user and returns the fresh record
// so the caller can re-persist the session copy.
func (c *Client) UpdateProfile(ctx context.Context, name string) (*domain.User, error) {
	body := map[string]string{"name": name}
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/profile", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{"current_password": current, "new_password": updated}
	return c.doJSON(ctx, http.MethodPut, "/api/users/change-password", nil, body, nil)
}
