// internal/clients/users_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"shareit/internal/membership"
)

type UsersClient struct {
	base
}

func NewUsersClient(baseURL string, hc *http.Client) *UsersClient {
	return &UsersClient{base: newBase(baseURL, hc)}
}

func (c *UsersClient) CreateUser(ctx context.Context, name, email string) (*membership.UserDTO, error) {
	var u membership.UserDTO
	err := c.do(ctx, http.MethodPost, "/users", uuid.Nil, membership.CreateUserRequest{Name: name, Email: email}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UsersClient) GetUser(ctx context.Context, id uuid.UUID) (*membership.UserDTO, error) {
	var u membership.UserDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s", id), uuid.Nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UsersClient) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%s", id), uuid.Nil, nil, nil)
}
