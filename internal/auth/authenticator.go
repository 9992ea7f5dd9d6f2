package auth

import (
	"context"

	"github.com/mmynk/medialog/internal/models"
)

// Registration carries the sign-up form.
type Registration struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account.
	// Returns ErrUsernameTaken or ErrEmailExists if the account would collide.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
