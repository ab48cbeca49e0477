package api

import (
	"context"

	"github.com/fentz26/papercheck/internal/models"
)

// UserList is a paged list of users. Admin only.
type UserList struct {
	Data  []models.User `json:"data"`
	Total int           `json:"total"`
}

// ListUsers fetches all users. The server enforces the admin requirement;
// the CLI additionally gates the command on the cached role for better UX.
func (c *Client) ListUsers(ctx context.Context, params ListParams) (*UserList, error) {
	var list UserList
	if err := c.get(ctx, "/users"+params.encode(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SetUserRole changes a user's role.
func (c *Client) SetUserRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	body := map[string]string{"role": string(role)}
	var user models.User
	if err := c.putJSON(ctx, "/users/"+id+"/role", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/"+id)
}
