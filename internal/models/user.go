package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`

	// Username is the unique handle chosen at sign-up.
	Username string `json:"username"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Email is the user's email address (unique).
	// Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64 `json:"created_at,omitempty"`

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64 `json:"-"`
}

// NewUser creates a user with timestamps set. The ID is assigned by storage.
func NewUser(username, firstName, lastName, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
