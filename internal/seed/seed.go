// Package seed loads the demo data set into an empty MediaLog database.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/storage"
)

// DefaultPassword is the password every demo account is created with.
const DefaultPassword = "password123"

type userFixture struct {
	username, first, last string
}

type itemFixture struct {
	title    string
	category string
	imageURL string
	tags     []string
	creators []string
}

var (
	users = []userFixture{
		{"jack", "Jack", "Reader"},
		{"guest", "Guest", "User"},
	}
	categories = []string{"Game", "Book"}
	tags       = []string{"RPG", "Fantasy", "Classic", "Adventure"}
	creators   = []string{"CD Projekt Red", "Robert Jordan"}

	// Items belong to the first user.
	items = []itemFixture{
		{
			title:    "The Witcher 3",
			category: "Game",
			imageURL: "https://example.com/witcher3.jpg",
			tags:     []string{"RPG", "Fantasy"},
			creators: []string{"CD Projekt Red"},
		},
		{
			title:    "The Wheel of Time",
			category: "Book",
			imageURL: "https://example.com/wheel-of-time.jpg",
			tags:     []string{"Fantasy", "Classic", "Adventure"},
			creators: []string{"Robert Jordan"},
		},
	}
)

// Result counts what was written.
type Result struct {
	Users      int
	Categories int
	Tags       int
	Creators   int
	Items      int
}

// Seeder writes the fixtures through the storage layer. Accounts go through
// the authenticator so their passwords are hashed like real sign-ups.
type Seeder struct {
	store    storage.Store
	auth     auth.Authenticator
	password string
	logger   *slog.Logger
}

// New creates a seeder. An empty password means DefaultPassword.
func New(store storage.Store, authn auth.Authenticator, password string, logger *slog.Logger) *Seeder {
	if password == "" {
		password = DefaultPassword
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, auth: authn, password: password, logger: logger}
}

// Run writes every fixture. It expects an empty database and fails on the
// first duplicate.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	var res Result

	var owner *models.User
	for _, u := range users {
		user, err := s.auth.Register(ctx, auth.Registration{
			Username:  u.username,
			FirstName: u.first,
			LastName:  u.last,
			Email:     u.username + "@example.com",
			Password:  s.password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.username, err)
		}
		if owner == nil {
			owner = user
		}
		res.Users++
	}

	categoryIDs := make(map[string]int64, len(categories))
	for _, name := range categories {
		category := &models.Category{Name: name}
		if err := s.store.CreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", name, err)
		}
		categoryIDs[name] = category.ID
		res.Categories++
	}

	tagIDs := make(map[string]int64, len(tags))
	for _, name := range tags {
		tag := &models.Tag{Name: name}
		if err := s.store.CreateTag(ctx, tag); err != nil {
			return nil, fmt.Errorf("failed to create tag %s: %w", name, err)
		}
		tagIDs[name] = tag.ID
		res.Tags++
	}

	creatorIDs := make(map[string]int64, len(creators))
	for _, name := range creators {
		creator := &models.Creator{Name: name}
		if err := s.store.CreateCreator(ctx, creator); err != nil {
			return nil, fmt.Errorf("failed to create creator %s: %w", name, err)
		}
		creatorIDs[name] = creator.ID
		res.Creators++
	}

	for _, f := range items {
		url := f.imageURL
		item := &models.Item{
			Title:      f.title,
			CategoryID: categoryIDs[f.category],
			UserID:     owner.ID,
			ImageURL:   &url,
		}
		if err := s.store.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create item %s: %w", f.title, err)
		}
		if err := s.store.ReplaceItemTags(ctx, item.ID, lookup(tagIDs, f.tags)); err != nil {
			return nil, fmt.Errorf("failed to tag item %s: %w", f.title, err)
		}
		if err := s.store.ReplaceItemCreators(ctx, item.ID, lookup(creatorIDs, f.creators)); err != nil {
			return nil, fmt.Errorf("failed to credit item %s: %w", f.title, err)
		}
		s.logger.Debug("Seeded item", "item_id", item.ID, "title", f.title)
		res.Items++
	}

	s.logger.Info("Seed complete",
		"users", res.Users,
		"categories", res.Categories,
		"tags", res.Tags,
		"creators", res.Creators,
		"items", res.Items,
	)
	return &res, nil
}

func lookup(ids map[string]int64, names []string) []int64 {
	out := make([]int64, 0, len(names))
	for _, name := range names {
		out = append(out, ids[name])
	}
	return out
}
