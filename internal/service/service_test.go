package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/medialog/internal/apiclient"
	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/catalog"
	"github.com/mmynk/medialog/internal/editor"
	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/session"
	"github.com/mmynk/medialog/internal/storage/sqlite"
	"github.com/mmynk/medialog/pkg/logging"
)

type testEnv struct {
	server   *httptest.Server
	store    *sqlite.SQLiteStore
	client   *apiclient.Client
	sessions *session.Store
}

// setupTestServer starts the API over a temp database and returns a client
// whose token comes from sessions.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := logging.Discard()
	srv := NewServer(Config{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		JWTManager:    auth.NewJWTManager("test-secret", time.Hour),
		Logger:        logger,
	})
	server := httptest.NewServer(srv)

	sessions := session.New(logger)
	client := apiclient.New(server.URL,
		apiclient.WithTokenSource(sessions),
		apiclient.WithRateLimit(0, 0),
		apiclient.WithLogger(logger),
	)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &testEnv{server: server, store: store, client: client, sessions: sessions}
}

// signup registers a user and starts a session for it.
func (e *testEnv) signup(t *testing.T, username string) models.User {
	t.Helper()
	res, err := e.client.Signup(context.Background(), apiclient.SignupRequest{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", username, err)
	}
	e.sessions.Login(res.User, res.Token)
	return res.User
}

// seedCatalog creates a shared category plus tags and creators.
func (e *testEnv) seedCatalog(t *testing.T) (categoryID int64) {
	t.Helper()
	ctx := context.Background()

	category := &models.Category{Name: "Movie"}
	if err := e.store.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	for _, name := range []string{"Sci-Fi", "Classic", "Noir"} {
		if err := e.store.CreateTag(ctx, &models.Tag{Name: name}); err != nil {
			t.Fatalf("CreateTag failed: %v", err)
		}
	}
	for _, name := range []string{"Ridley Scott", "Philip K. Dick"} {
		if err := e.store.CreateCreator(ctx, &models.Creator{Name: name}); err != nil {
			t.Fatalf("CreateCreator failed: %v", err)
		}
	}
	return category.ID
}

func requireCode(t *testing.T, err error, want apperrors.Code) *apperrors.Error {
	t.Helper()
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if appErr.Code != want {
		t.Fatalf("code = %s, want %s (message %q)", appErr.Code, want, appErr.Message)
	}
	return appErr
}

func TestSignupAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	user := env.signup(t, "jack")
	if user.ID == 0 {
		t.Fatal("expected user ID")
	}
	if env.sessions.Token() == "" {
		t.Fatal("expected token from signup")
	}

	t.Run("login succeeds", func(t *testing.T) {
		res, err := env.client.Login(ctx, "jack@example.com", "password123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if res.User.ID != user.ID || res.Token == "" {
			t.Errorf("unexpected login result: %+v", res)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.client.Login(ctx, "jack@example.com", "wrong-password")
		appErr := requireCode(t, err, apperrors.CodeUnauthorized)
		if appErr.Message != "Invalid credentials" {
			t.Errorf("message = %q", appErr.Message)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.client.Signup(ctx, apiclient.SignupRequest{
			Username: "jack", FirstName: "J", LastName: "B", Email: "other@example.com", Password: "password123",
		})
		appErr := requireCode(t, err, apperrors.CodeRejected)
		if appErr.Message != "Username already taken" {
			t.Errorf("message = %q", appErr.Message)
		}
	})

	t.Run("validation lists every problem", func(t *testing.T) {
		_, err := env.client.Signup(ctx, apiclient.SignupRequest{Username: "ann", Email: "not-an-email", Password: "short"})
		appErr := requireCode(t, err, apperrors.CodeRejected)
		want := []string{
			"first_name is required",
			"last_name is required",
			"email must be a valid email address",
			"password must be at least 8 characters",
		}
		if !reflect.DeepEqual(appErr.List(), want) {
			t.Errorf("messages = %q, want %q", appErr.List(), want)
		}
		if appErr.Message != strings.Join(want, ", ") {
			t.Errorf("message = %q", appErr.Message)
		}
	})

	t.Run("user lookup requires a token", func(t *testing.T) {
		resp := env.get(t, "/users/1")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestItemsRequireAuth(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.client.ListItems(context.Background())
	appErr := requireCode(t, err, apperrors.CodeUnauthorized)
	if appErr.Message != auth.ErrMissingToken.Error() {
		t.Errorf("message = %q", appErr.Message)
	}

	// Catalog reads stay public.
	if _, err := env.client.ListTags(context.Background()); err != nil {
		t.Errorf("ListTags without token failed: %v", err)
	}
}

func TestItemLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	categoryID := env.seedCatalog(t)
	env.signup(t, "jack")

	item, err := env.client.CreateItem(ctx, apiclient.CreateItemRequest{Title: "Blade Runner", CategoryID: categoryID})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.ID == 0 || len(item.Tags) != 0 {
		t.Fatalf("unexpected created item: %+v", item)
	}

	t.Run("replace tags answers with refreshed item", func(t *testing.T) {
		got, err := env.client.ReplaceItemTags(ctx, item.ID, []int64{2, 1})
		if err != nil {
			t.Fatalf("ReplaceItemTags failed: %v", err)
		}
		if !reflect.DeepEqual(got.Tags, []string{"Classic", "Sci-Fi"}) {
			t.Errorf("tags = %v", got.Tags)
		}
	})

	t.Run("unknown tag is rejected and nothing changes", func(t *testing.T) {
		_, err := env.client.ReplaceItemTags(ctx, item.ID, []int64{3, 99})
		appErr := requireCode(t, err, apperrors.CodeRejected)
		if appErr.Message != "One or more tag_ids do not exist" {
			t.Errorf("message = %q", appErr.Message)
		}

		got, err := env.client.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if !reflect.DeepEqual(got.Tags, []string{"Classic", "Sci-Fi"}) {
			t.Errorf("tags changed to %v", got.Tags)
		}
	})

	t.Run("empty creator set clears", func(t *testing.T) {
		if _, err := env.client.ReplaceItemCreators(ctx, item.ID, []int64{1}); err != nil {
			t.Fatalf("ReplaceItemCreators failed: %v", err)
		}
		got, err := env.client.ReplaceItemCreators(ctx, item.ID, nil)
		if err != nil {
			t.Fatalf("ReplaceItemCreators failed: %v", err)
		}
		if len(got.Creators) != 0 {
			t.Errorf("creators = %v", got.Creators)
		}
	})

	t.Run("update", func(t *testing.T) {
		title := "Blade Runner: The Final Cut"
		got, err := env.client.UpdateItem(ctx, item.ID, apiclient.UpdateItemRequest{Title: &title})
		if err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		if got.Title != title || len(got.Tags) != 2 {
			t.Errorf("unexpected updated item: %+v", got)
		}

		empty := ""
		_, err = env.client.UpdateItem(ctx, item.ID, apiclient.UpdateItemRequest{Title: &empty})
		appErr := requireCode(t, err, apperrors.CodeRejected)
		if appErr.Message != "Title cannot be empty" {
			t.Errorf("message = %q", appErr.Message)
		}

		_, err = env.client.UpdateItem(ctx, item.ID, apiclient.UpdateItemRequest{})
		requireCode(t, err, apperrors.CodeRejected)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		owner, _ := env.sessions.Current()
		env.signup(t, "jill")
		defer env.sessions.Login(owner.User, owner.Token)

		items, err := env.client.ListItems(ctx)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("jill sees %d items", len(items))
		}

		_, err = env.client.GetItem(ctx, item.ID)
		appErr := requireCode(t, err, apperrors.CodeRejected)
		if appErr.Status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", appErr.Status)
		}
		_, err = env.client.ReplaceItemTags(ctx, item.ID, nil)
		requireCode(t, err, apperrors.CodeRejected)
	})

	t.Run("delete", func(t *testing.T) {
		if err := env.client.DeleteItem(ctx, item.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		_, err := env.client.GetItem(ctx, item.ID)
		appErr := requireCode(t, err, apperrors.CodeRejected)
		if appErr.Message != "Item with id 1 not found" {
			t.Errorf("message = %q", appErr.Message)
		}
	})
}

func TestCreateItemValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.seedCatalog(t)
	env.signup(t, "jack")

	_, err := env.client.CreateItem(ctx, apiclient.CreateItemRequest{Title: "Dune", CategoryID: 42})
	appErr := requireCode(t, err, apperrors.CodeRejected)
	if appErr.Message != "Category does not exist" {
		t.Errorf("message = %q", appErr.Message)
	}

	_, err = env.client.CreateItem(ctx, apiclient.CreateItemRequest{})
	appErr = requireCode(t, err, apperrors.CodeRejected)
	if len(appErr.List()) != 2 {
		t.Errorf("expected two messages, got %q", appErr.List())
	}
}

func TestCategories(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.seedCatalog(t)
	user := env.signup(t, "jack")

	categories, err := env.client.ListCategories(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Movie" {
		t.Errorf("categories = %+v", categories)
	}

	_, err = env.client.ListCategories(ctx, user.ID+1)
	requireCode(t, err, apperrors.CodeRejected)
}

// TestEditorAgainstServer drives the association editor end to end.
func TestEditorAgainstServer(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	categoryID := env.seedCatalog(t)
	env.signup(t, "jack")

	item, err := env.client.CreateItem(ctx, apiclient.CreateItemRequest{Title: "Blade Runner", CategoryID: categoryID})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if _, err := env.client.ReplaceItemTags(ctx, item.ID, []int64{1, 2}); err != nil {
		t.Fatalf("ReplaceItemTags failed: %v", err)
	}
	item, _ = env.client.GetItem(ctx, item.ID)

	ed := editor.New(env.client, catalog.New(env.client, time.Minute, logging.Discard()), logging.Discard())
	if err := ed.Open(ctx, item); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := ed.Selected(editor.KindTag); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("initial selection = %v, want [1 2]", got)
	}

	for _, step := range []struct {
		kind editor.Kind
		id   int64
	}{{editor.KindTag, 1}, {editor.KindTag, 3}, {editor.KindCreator, 1}} {
		if err := ed.Toggle(step.kind, step.id); err != nil {
			t.Fatalf("Toggle(%s, %d) failed: %v", step.kind, step.id, err)
		}
	}
	if err := ed.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if ed.State() != editor.Viewing {
		t.Errorf("state = %s, want viewing", ed.State())
	}
	saved := ed.Item()
	if !reflect.DeepEqual(saved.Tags, []string{"Classic", "Noir"}) {
		t.Errorf("tags = %v", saved.Tags)
	}
	if !reflect.DeepEqual(saved.Creators, []string{"Ridley Scott"}) {
		t.Errorf("creators = %v", saved.Creators)
	}

	// Signing out makes the next save a rejected, recoverable failure.
	if err := ed.Edit(); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	env.sessions.Logout()
	err = ed.Save(ctx)
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("Save after logout: code = %s, err = %v", apperrors.CodeOf(err), err)
	}
	if ed.State() != editor.Editing {
		t.Errorf("state = %s, want editing", ed.State())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestServer(t)

	resp := env.get(t, "/health")
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	resp.Body.Close()
	if body["status"] != "healthy" {
		t.Errorf("health = %v", body)
	}

	resp = env.get(t, "/metrics")
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(raw), `medialog_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Errorf("metrics missing health request:\n%s", raw)
	}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}
