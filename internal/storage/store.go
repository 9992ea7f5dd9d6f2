// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/medialog/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column would be violated.
	ErrDuplicate = errors.New("already exists")
	// ErrUnknownReference is returned when an association names an ID that
	// does not exist in its catalog.
	ErrUnknownReference = errors.New("unknown reference")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user and populates user.ID.
	// Returns ErrDuplicate if the username or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns nil, nil if the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByEmail returns nil, nil if no user has this email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername returns nil, nil if no user has this username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// CatalogStore persists the shared tag and creator catalogs and the
// per-user categories.
type CatalogStore interface {
	CreateTag(ctx context.Context, tag *models.Tag) error
	ListTags(ctx context.Context) ([]models.Tag, error)

	CreateCreator(ctx context.Context, creator *models.Creator) error
	ListCreators(ctx context.Context) ([]models.Creator, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)

	// ListCategories returns the shared categories plus those owned by
	// userID. A zero userID returns every category.
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

// ItemStore persists items and their associations. Returned items always
// carry their tag and creator names, sorted by name.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem returns nil, nil if the item does not exist.
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	ListItemsByUser(ctx context.Context, userID int64) ([]models.Item, error)

	// UpdateItem writes title, category and image URL.
	// Returns ErrNotFound if the item does not exist.
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem removes the item and its associations.
	// Returns ErrNotFound if the item does not exist.
	DeleteItem(ctx context.Context, id int64) error

	// ReplaceItemTags makes tagIDs the complete tag set of the item.
	// Returns ErrUnknownReference, leaving the item unchanged, if any ID is
	// not a tag.
	ReplaceItemTags(ctx context.Context, itemID int64, tagIDs []int64) error

	// ReplaceItemCreators is ReplaceItemTags for creators.
	ReplaceItemCreators(ctx context.Context, itemID int64, creatorIDs []int64) error
}

// Store defines all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	CatalogStore
	ItemStore

	// Close releases any resources held by the store.
	Close() error
}
