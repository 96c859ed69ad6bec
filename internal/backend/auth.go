package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// AuthResponse плоский ответ auth-эндпоинтов: поля пользователя плюс токен
type AuthResponse struct {
	domain.User
	Token string `json:"token"`
}

func (a *AuthResponse) UnmarshalJSON(b []byte) error {
	if err := a.User.UnmarshalJSON(b); err != nil {
		return err
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(b, &tok); err != nil {
		return err
	}
	a.Token = tok.Token
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ProfileUpdate редактируемые поля профиля; пустые не отправляются
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPut, "/auth/profile", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestRole(ctx context.Context, role domain.Role) error {
	return c.do(ctx, http.MethodPost, "/role-requests", map[string]domain.Role{"requestedRole": role}, nil)
}

func (c *Client) PendingRoleRequests(ctx context.Context) ([]domain.RoleRequest, error) {
	var out []domain.RoleRequest
	if err := c.do(ctx, http.MethodGet, "/role-requests/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveRoleRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, pathf("/role-requests/%s/approve", id), nil, nil)
}

func (c *Client) RejectRoleRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, pathf("/role-requests/%s/reject", id), nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, pathf("/users/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
