package gate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/session"
	"github.com/mmynk/medialog/pkg/logging"
)

// countingView records how often it rendered, standing in for a view whose
// render fetches data.
type countingView struct {
	renders int
}

func (v *countingView) Render(_ context.Context, w io.Writer, _ []string) error {
	v.renders++
	_, err := io.WriteString(w, "secret")
	return err
}

func TestCheck(t *testing.T) {
	assert.Equal(t, Unauthorized, Check(context.Background()))

	store := session.New(logging.Discard())
	ctx := session.NewContext(context.Background(), store)
	assert.Equal(t, Unauthorized, Check(ctx))

	store.Login(models.User{ID: 1}, "tok")
	assert.Equal(t, Authorized, Check(ctx))

	store.Logout()
	assert.Equal(t, Unauthorized, Check(ctx))
}

func TestProtectWithoutSessionNeverRenders(t *testing.T) {
	g := New("", logging.Discard())
	view := &countingView{}
	protected := g.Protect(view)

	store := session.New(logging.Discard())
	ctx := session.NewContext(context.Background(), store)

	var out bytes.Buffer
	err := protected.Render(ctx, &out, nil)

	var redirect *Redirect
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, DefaultLoginPath, redirect.To)
	assert.Equal(t, 0, view.renders)
	assert.Empty(t, out.String())
}

func TestProtectRendersWhenAuthorized(t *testing.T) {
	g := New("login", logging.Discard())
	view := &countingView{}
	protected := g.Protect(view)

	store := session.New(logging.Discard())
	store.Login(models.User{ID: 1, Username: "jack"}, "tok")
	ctx := session.NewContext(context.Background(), store)

	var out bytes.Buffer
	require.NoError(t, protected.Render(ctx, &out, nil))
	assert.Equal(t, 1, view.renders)
	assert.Equal(t, "secret", out.String())
}

func TestLogoutWhileMountedRedirectsOnNextCheck(t *testing.T) {
	g := New("login", logging.Discard())
	view := &countingView{}
	mounted := g.Protect(view)

	store := session.New(logging.Discard())
	store.Login(models.User{ID: 1}, "tok")
	ctx := session.NewContext(context.Background(), store)

	require.NoError(t, mounted.Render(ctx, io.Discard, nil))

	store.Logout()

	err := mounted.Render(ctx, io.Discard, nil)
	var redirect *Redirect
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, "login", redirect.To)
	assert.Equal(t, 1, view.renders)
}
