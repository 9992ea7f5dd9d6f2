package apiclient

import (
	"context"
	"net/http"

	"github.com/mmynk/medialog/internal/models"
)

// AuthResult is the outcome of a successful login or sign-up.
type AuthResult struct {
	User  models.User
	Token string
}

// SignupRequest carries the sign-up form.
type SignupRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type signupResponse struct {
	models.User
	Token string `json:"token"`
}

// Login verifies credentials. It does not touch any session; the caller
// decides what to do with the result.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var resp loginResponse
	ok, err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if !ok || resp.User == nil {
		return nil, ErrEmptyResponse
	}
	return &AuthResult{User: *resp.User, Token: resp.Token}, nil
}

// Signup creates an account. The API answers with the user object itself.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	var resp signupResponse
	ok, err := c.do(ctx, http.MethodPost, "/users", req, &resp)
	if err != nil {
		return nil, err
	}
	if !ok || resp.ID == 0 {
		return nil, ErrEmptyResponse
	}
	return &AuthResult{User: resp.User, Token: resp.Token}, nil
}
