package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mmynk/medialog/internal/auth"
	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/models"
)

// AuthService handles sign-up, login and user lookup.
type AuthService struct {
	*deps
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(d *deps, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		deps:          d,
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type signupRequest struct {
	Username  string `json:"username" validate:"required,alphanum,max=50"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// signupResponse is the user object with the session token alongside.
type signupResponse struct {
	*models.User
	Token string `json:"token"`
}

// Signup creates an account and returns it with a token.
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.logger.Info("Signup request", "username", req.Username, "email", req.Email)

	user, err := s.authenticator.Register(r.Context(), auth.Registration{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Username, "error", err)
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			err = apperrors.AlreadyExists("Username already taken")
		case errors.Is(err, auth.ErrEmailExists):
			err = apperrors.AlreadyExists("Email already registered")
		case errors.Is(err, auth.ErrWeakPassword):
			err = apperrors.Validation("password must be at least 8 characters")
		}
		writeError(w, err, s.logger)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(w, fmt.Errorf("failed to generate token: %w", err), s.logger)
		return
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, signupResponse{User: user, Token: token}, s.logger)
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.logger.Info("Login request", "email", req.Email)

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login failed", "email", req.Email)
		writeError(w, apperrors.Unauthorized("Invalid credentials"), s.logger)
		return
	}
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(w, fmt.Errorf("failed to generate token: %w", err), s.logger)
		return
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token}, s.logger)
}

// GetUser returns a user's public profile.
func (s *AuthService) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	if user == nil {
		writeError(w, apperrors.NotFoundf("User with id %d not found", id), s.logger)
		return
	}
	writeJSON(w, http.StatusOK, user, s.logger)
}
