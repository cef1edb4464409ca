package backend

import (
	"context"
	"net/http"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// AuthResult is what the auth endpoints hand back. Token and User are both
// set when the deployment issues a session immediately (registration variants
// that bypass verification, and every successful login / verify).
type AuthResult struct {
	Token   string
	User    *domain.User
	Message string
}

// Session converts the result into a persistable session, or nil when the
// backend issued no token.
func (r *AuthResult) Session() *domain.Session {
	if r == nil || r.Token == "" || r.User == nil {
		return nil
	}
	return &domain.Session{Token: r.Token, User: *r.User}
}

type authResponse struct {
	envelope
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (resp *authResponse) result() *AuthResult {
	return &AuthResult{Token: resp.Token, User: resp.User, Message: resp.Message}
}

// Register creates an account. Depending on deployment the response carries a
// token+user pair or only a verification prompt.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// Login exchanges credentials for a token+user pair.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// VerifyEmail redeems a verification code; on success the backend issues a
// session.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) (*AuthResult, error) {
	body := map[string]string{"email": email, "code": code}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-email", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// ResendCode asks for a fresh verification code.
func (c *Client) ResendCode(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/resend-code", nil, body, nil)
}
