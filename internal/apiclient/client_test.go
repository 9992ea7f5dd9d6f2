package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/pkg/logging"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithHTTPClient(server.Client()),
		WithRateLimit(0, 0),
		WithLogger(logging.Discard()),
	}, opts...)
	return New(server.URL, opts...)
}

func TestWithTimeout(t *testing.T) {
	t.Run("default client", func(t *testing.T) {
		c := New("http://api.test", WithTimeout(3*time.Second))
		assert.Equal(t, 3*time.Second, c.http.Timeout)
	})

	t.Run("caller client left alone in either order", func(t *testing.T) {
		shared := &http.Client{Timeout: time.Minute}

		c := New("http://api.test", WithHTTPClient(shared), WithTimeout(time.Second))
		assert.Same(t, shared, c.http)

		c = New("http://api.test", WithTimeout(time.Second), WithHTTPClient(shared))
		assert.Same(t, shared, c.http)

		assert.Equal(t, time.Minute, shared.Timeout)
	})
}

func TestResponseErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode apperrors.Code
	}{
		{
			name:     "errors list joined",
			status:   http.StatusBadRequest,
			body:     `{"errors": ["Missing field: title", "Missing field: category_id"]}`,
			wantMsg:  "Missing field: title, Missing field: category_id",
			wantCode: apperrors.CodeRejected,
		},
		{
			name:     "single error string",
			status:   http.StatusUnauthorized,
			body:     `{"error": "Invalid email or password"}`,
			wantMsg:  "Invalid email or password",
			wantCode: apperrors.CodeUnauthorized,
		},
		{
			name:     "empty errors list falls back to error",
			status:   http.StatusBadRequest,
			body:     `{"errors": [], "error": "bad input"}`,
			wantMsg:  "bad input",
			wantCode: apperrors.CodeRejected,
		},
		{
			name:     "unparsable body uses status text",
			status:   http.StatusNotFound,
			body:     `<html>nope</html>`,
			wantMsg:  "Not Found",
			wantCode: apperrors.CodeRejected,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     ``,
			wantMsg:  "Internal Server Error",
			wantCode: apperrors.CodeServer,
		},
		{
			name:     "unknown status without body",
			status:   599,
			body:     ``,
			wantMsg:  "Request failed",
			wantCode: apperrors.CodeServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := responseError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestClient_GetItem(t *testing.T) {
	t.Run("decodes item", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/items/4", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Write([]byte(`{"id": 4, "title": "Dune", "category_id": 2, "user_id": 1,
				"image_url": null, "tags": ["Sci-Fi", "Classic"], "creators": ["Frank Herbert"]}`))
		})

		item, err := client.GetItem(context.Background(), 4)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "Dune", item.Title)
		assert.Nil(t, item.ImageURL)
		assert.Equal(t, []string{"Sci-Fi", "Classic"}, item.Tags)
		assert.Equal(t, []string{"Frank Herbert"}, item.Creators)
	})

	t.Run("unparsable success body is null data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		item, err := client.GetItem(context.Background(), 4)
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("not found surfaces server message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors": ["Item with id 4 not found"]}`))
		})

		_, err := client.GetItem(context.Background(), 4)
		require.Error(t, err)
		assert.Equal(t, "Item with id 4 not found", err.Error())
		assert.Equal(t, http.StatusNotFound, StatusOf(err))
		assert.True(t, apperrors.Is(err, apperrors.ErrRejected))
	})
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(url, WithRateLimit(0, 0), WithLogger(logging.Discard()))
	_, err := client.ListTags(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNetwork, apperrors.CodeOf(err))
	assert.Equal(t, 0, StatusOf(err))
	assert.NotEmpty(t, err.Error())
}

func TestClient_BearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, WithTokenSource(staticToken("abc123")))

	_, err := client.ListItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id": 1, "name": "RPG"}]`))
	}, WithTokenSource(staticToken("")))

	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Len(t, tags, 1)
}

func TestClient_ReplaceItemTags(t *testing.T) {
	t.Run("sends full replacement set", func(t *testing.T) {
		var body map[string][]int64
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/items/9/tags", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Write([]byte(`{"id": 9, "title": "Dune", "tags": ["Classic", "Sci-Fi"], "creators": []}`))
		})

		item, err := client.ReplaceItemTags(context.Background(), 9, []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, body["tag_ids"])
		assert.Equal(t, []string{"Classic", "Sci-Fi"}, item.Tags)
	})

	t.Run("nil set is sent as empty list", func(t *testing.T) {
		var raw map[string]json.RawMessage
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			w.Write([]byte(`{"id": 9}`))
		})

		_, err := client.ReplaceItemCreators(context.Background(), 9, nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw["creator_ids"]))
	})
}

func TestClient_Login(t *testing.T) {
	t.Run("returns user and token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/login", r.URL.Path)
			w.Write([]byte(`{"user": {"id": 3, "username": "jack", "email": "jack@example.com"}, "token": "t0k"}`))
		})

		res, err := client.Login(context.Background(), "jack@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.User.ID)
		assert.Equal(t, "t0k", res.Token)
	})

	t.Run("success without user is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		_, err := client.Login(context.Background(), "jack@example.com", "password123")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestClient_Signup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "guest", req.Username)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 5, "username": "guest", "first_name": "Gus", "token": "xyz"}`))
	})

	res, err := client.Signup(context.Background(), SignupRequest{Username: "guest", Email: "g@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.User.ID)
	assert.Equal(t, "Gus", res.User.FirstName)
	assert.Equal(t, "xyz", res.Token)
}
