package seed

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/storage/sqlite"
	"github.com/mmynk/medialog/pkg/logging"
)

func newSeeder(t *testing.T) (*Seeder, *sqlite.SQLiteStore, *auth.PasswordAuthenticator) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authn := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	return New(store, authn, "", logging.Discard()), store, authn
}

func TestRun(t *testing.T) {
	seeder, store, authn := newSeeder(t)
	ctx := context.Background()

	res, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := Result{Users: 2, Categories: 2, Tags: 4, Creators: 2, Items: 2}
	if *res != want {
		t.Errorf("result = %+v, want %+v", *res, want)
	}

	jack, err := authn.Authenticate(ctx, "jack@example.com", DefaultPassword)
	if err != nil {
		t.Fatalf("seeded user cannot sign in: %v", err)
	}

	items, err := store.ListItemsByUser(ctx, jack.ID)
	if err != nil {
		t.Fatalf("ListItemsByUser failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	byTitle := make(map[string][]string)
	for _, item := range items {
		byTitle[item.Title] = item.Tags
	}
	if got := byTitle["The Wheel of Time"]; !reflect.DeepEqual(got, []string{"Adventure", "Classic", "Fantasy"}) {
		t.Errorf("Wheel of Time tags = %v", got)
	}
	if got := byTitle["The Witcher 3"]; !reflect.DeepEqual(got, []string{"Fantasy", "RPG"}) {
		t.Errorf("Witcher tags = %v", got)
	}
}

func TestRunTwiceFails(t *testing.T) {
	seeder, _, _ := newSeeder(t)
	ctx := context.Background()

	if _, err := seeder.Run(ctx); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	_, err := seeder.Run(ctx)
	if !errors.Is(err, auth.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}
