// Package console is the line-oriented terminal UI for MediaLog. Each command
// is a route rendering a view; protected routes are wrapped by the access
// gate and redirect to the login command when no one is signed in.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mmynk/medialog/internal/apiclient"
	"github.com/mmynk/medialog/internal/editor"
	"github.com/mmynk/medialog/internal/gate"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/session"
)

// ErrQuit is returned by Execute when the user asked to leave.
var ErrQuit = errors.New("quit")

// API is the Resource Client surface the console uses.
type API interface {
	editor.Client

	Login(ctx context.Context, email, password string) (*apiclient.AuthResult, error)
	Signup(ctx context.Context, req apiclient.SignupRequest) (*apiclient.AuthResult, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	CreateItem(ctx context.Context, req apiclient.CreateItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, req apiclient.UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

type route struct {
	usage   string
	summary string
	view    gate.View
}

// Console dispatches command lines to views.
type Console struct {
	api      API
	catalogs editor.Catalogs
	sessions *session.Store
	gate     *gate.Gate
	out      io.Writer
	logger   *slog.Logger
	routes   map[string]route

	mu     sync.Mutex
	editor *editor.Editor
}

// New creates a console writing to out.
func New(api API, catalogs editor.Catalogs, sessions *session.Store, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		api:      api,
		catalogs: catalogs,
		sessions: sessions,
		gate:     gate.New(gate.DefaultLoginPath, logger),
		out:      out,
		logger:   logger,
	}
	c.routes = c.buildRoutes()
	return c
}

func (c *Console) buildRoutes() map[string]route {
	public := map[string]route{
		"login":  {usage: "login <email> <password>", summary: "sign in", view: gate.ViewFunc(c.login)},
		"signup": {usage: "signup <username> <first> <last> <email> <password>", summary: "create an account and sign in", view: gate.ViewFunc(c.signup)},
		"logout": {usage: "logout", summary: "sign out", view: gate.ViewFunc(c.logout)},
		"help":   {usage: "help", summary: "list commands", view: gate.ViewFunc(c.help)},
	}
	protected := map[string]route{
		"whoami":     {usage: "whoami", summary: "show the signed-in user", view: gate.ViewFunc(c.whoami)},
		"items":      {usage: "items", summary: "list your items", view: gate.ViewFunc(c.items)},
		"item":       {usage: "item <id>", summary: "show one item", view: gate.ViewFunc(c.item)},
		"categories": {usage: "categories", summary: "list your categories", view: gate.ViewFunc(c.categories)},
		"add":        {usage: "add <category-id> <title>", summary: "create an item", view: gate.ViewFunc(c.add)},
		"rename":     {usage: "rename <id> <title>", summary: "change an item's title", view: gate.ViewFunc(c.rename)},
		"delete":     {usage: "delete <id>", summary: "delete an item", view: gate.ViewFunc(c.remove)},
		"edit":       {usage: "edit <id>", summary: "edit an item's tags and creators", view: gate.ViewFunc(c.edit)},
		"toggle":     {usage: "toggle <tag|creator> <id>", summary: "select or unselect a tag or creator", view: gate.ViewFunc(c.toggle)},
		"show":       {usage: "show", summary: "show the editor", view: gate.ViewFunc(c.show)},
		"save":       {usage: "save", summary: "save tags and creators", view: gate.ViewFunc(c.save)},
		"cancel":     {usage: "cancel", summary: "discard the current edit", view: gate.ViewFunc(c.cancel)},
		"reload":     {usage: "reload", summary: "refetch the tag and creator catalogs", view: gate.ViewFunc(c.reload)},
	}

	routes := make(map[string]route, len(public)+len(protected))
	for name, r := range public {
		routes[name] = r
	}
	for name, r := range protected {
		r.view = c.gate.Protect(r.view)
		routes[name] = r
	}
	return routes
}

// Run reads commands from in until EOF or quit.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	defer c.closeEditor()

	scanner := bufio.NewScanner(in)
	fmt.Fprintln(c.out, "MediaLog. Type 'help' for commands.")
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			break
		}
		if err := c.Execute(ctx, scanner.Text()); errors.Is(err, ErrQuit) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Execute runs a single command line. Failures are written to the output;
// the returned error is only for callers that need the outcome.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	if name == "quit" || name == "exit" {
		return ErrQuit
	}

	r, ok := c.routes[name]
	if !ok {
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help' for commands.\n", name)
		return fmt.Errorf("unknown command %q", name)
	}

	ctx = session.NewContext(ctx, c.sessions)
	err := r.view.Render(ctx, c.out, args)

	var redirect *gate.Redirect
	var usage *usageError
	switch {
	case err == nil:
	case errors.As(err, &redirect):
		fmt.Fprintf(c.out, "Please sign in first: %s\n", c.routes[redirect.To].usage)
	case errors.As(err, &usage):
		fmt.Fprintf(c.out, "Usage: %s\n", r.usage)
	default:
		fmt.Fprintf(c.out, "Error: %s\n", err)
	}
	if err != nil {
		c.logger.Debug("Command failed", "command", name, "error", err)
	}
	return err
}

func (c *Console) help(_ context.Context, w io.Writer, _ []string) error {
	names := make([]string, 0, len(c.routes))
	for name := range c.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := c.routes[name]
		fmt.Fprintf(w, "  %-52s %s\n", r.usage, r.summary)
	}
	fmt.Fprintf(w, "  %-52s %s\n", "quit", "leave")
	return nil
}

// openEditor replaces the current editor with a fresh one.
func (c *Console) openEditor() *editor.Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor != nil {
		c.editor.Close()
	}
	c.editor = editor.New(c.api, c.catalogs, c.logger)
	return c.editor
}

func (c *Console) currentEditor() (*editor.Editor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor == nil {
		return nil, errNoEditor
	}
	return c.editor, nil
}

func (c *Console) closeEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor != nil {
		c.editor.Close()
		c.editor = nil
	}
}

// closeEditorFor closes the editor if it holds item id.
func (c *Console) closeEditorFor(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor == nil {
		return
	}
	if item := c.editor.Item(); item != nil && item.ID == id {
		c.editor.Close()
		c.editor = nil
	}
}
