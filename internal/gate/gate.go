// Package gate decides whether protected views may render.
//
// The decision is recomputed from the session on every check; the gate keeps
// no state of its own, so a logout takes effect on the very next render of an
// already mounted view.
package gate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmynk/medialog/internal/session"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	Unauthorized Decision = iota
	Authorized
)

func (d Decision) String() string {
	if d == Authorized {
		return "authorized"
	}
	return "unauthorized"
}

// DefaultLoginPath is the login entry point unauthorized renders are sent to.
const DefaultLoginPath = "login"

// View is anything the UI can render.
type View interface {
	Render(ctx context.Context, w io.Writer, args []string) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, w io.Writer, args []string) error

// Render calls f.
func (f ViewFunc) Render(ctx context.Context, w io.Writer, args []string) error {
	return f(ctx, w, args)
}

// Redirect is returned instead of rendering a protected view.
type Redirect struct {
	To string
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("authentication required: redirect to %s", r.To)
}

// Check reports whether the session attached to ctx holds a user.
// A context without a session store is unauthorized.
func Check(ctx context.Context) Decision {
	store := session.FromContext(ctx)
	if store == nil || !store.Authenticated() {
		return Unauthorized
	}
	return Authorized
}

// Gate wraps protected views.
type Gate struct {
	loginPath string
	logger    *slog.Logger
}

// New creates a gate redirecting to loginPath (DefaultLoginPath if empty).
func New(loginPath string, logger *slog.Logger) *Gate {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{loginPath: loginPath, logger: logger}
}

// LoginPath returns the redirect target.
func (g *Gate) LoginPath() string {
	return g.loginPath
}

// Protect returns a view that renders v only when authorized. Otherwise v is
// not invoked at all and a *Redirect is returned.
func (g *Gate) Protect(v View) View {
	return ViewFunc(func(ctx context.Context, w io.Writer, args []string) error {
		if Check(ctx) != Authorized {
			g.logger.Debug("Protected view blocked", "redirect", g.loginPath)
			return &Redirect{To: g.loginPath}
		}
		return v.Render(ctx, w, args)
	})
}
