package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmynk/medialog/internal/apiclient"
	"github.com/mmynk/medialog/internal/editor"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/session"
)

var errNoEditor = errors.New("no item is being edited, use: edit <id>")

// usageError marks malformed arguments; the console prints the route usage.
type usageError struct{ reason string }

func (e *usageError) Error() string { return e.reason }

func wantArgs(args []string, n int) error {
	if len(args) < n {
		return &usageError{reason: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &usageError{reason: fmt.Sprintf("invalid id %q", s)}
	}
	return id, nil
}

func (c *Console) login(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	res, err := c.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	c.closeEditor()
	c.sessions.Login(res.User, res.Token)
	fmt.Fprintf(w, "Welcome, %s!\n", res.User.DisplayName())
	return nil
}

func (c *Console) signup(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 5); err != nil {
		return err
	}
	res, err := c.api.Signup(ctx, apiclient.SignupRequest{
		Username:  args[0],
		FirstName: args[1],
		LastName:  args[2],
		Email:     args[3],
		Password:  args[4],
	})
	if err != nil {
		return err
	}
	c.closeEditor()
	c.sessions.Login(res.User, res.Token)
	fmt.Fprintf(w, "Account created. Welcome, %s!\n", res.User.DisplayName())
	return nil
}

func (c *Console) logout(_ context.Context, w io.Writer, _ []string) error {
	c.closeEditor()
	c.sessions.Logout()
	fmt.Fprintln(w, "Signed out.")
	return nil
}

func (c *Console) whoami(ctx context.Context, w io.Writer, _ []string) error {
	user, _ := session.FromContext(ctx).User()
	fmt.Fprintf(w, "%s (@%s, %s)\n", user.DisplayName(), user.Username, user.Email)
	return nil
}

func (c *Console) items(ctx context.Context, w io.Writer, _ []string) error {
	items, err := c.api.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No items yet. Add one with: add <category-id> <title>")
		return nil
	}
	for i := range items {
		writeItemLine(w, &items[i])
	}
	return nil
}

func (c *Console) item(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	// Navigating to an item leaves any edit in progress.
	c.closeEditor()

	item, err := c.api.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", id)
	}
	writeItem(w, item)
	return nil
}

func (c *Console) categories(ctx context.Context, w io.Writer, _ []string) error {
	user, _ := session.FromContext(ctx).User()
	categories, err := c.api.ListCategories(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories.")
		return nil
	}
	for _, cat := range categories {
		fmt.Fprintf(w, "  [%d] %s\n", cat.ID, cat.Name)
	}
	return nil
}

func (c *Console) add(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	categoryID, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := c.api.CreateItem(ctx, apiclient.CreateItemRequest{
		Title:      strings.Join(args[1:], " "),
		CategoryID: categoryID,
	})
	if err != nil {
		return err
	}
	if item == nil {
		return apiclient.ErrEmptyResponse
	}
	fmt.Fprintf(w, "Created item %d.\n", item.ID)
	return nil
}

func (c *Console) rename(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c.closeEditorFor(id)

	title := strings.Join(args[1:], " ")
	if _, err := c.api.UpdateItem(ctx, id, apiclient.UpdateItemRequest{Title: &title}); err != nil {
		return err
	}
	fmt.Fprintf(w, "Renamed item %d to %q.\n", id, title)
	return nil
}

func (c *Console) remove(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c.closeEditorFor(id)

	if err := c.api.DeleteItem(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted item %d.\n", id)
	return nil
}

func (c *Console) edit(ctx context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	item, err := c.api.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", id)
	}

	ed := c.openEditor()
	if err := ed.Open(ctx, item); err != nil {
		if errors.Is(err, editor.ErrClosed) || errors.Is(err, editor.ErrNoItem) {
			return err
		}
		// Catalog trouble is not fatal; the editor opens with what it has.
		fmt.Fprintf(w, "Warning: %s\n", err)
	}
	writeEditor(w, ed)
	return nil
}

func (c *Console) toggle(_ context.Context, w io.Writer, args []string) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	kind, err := editor.ParseKind(strings.ToLower(args[0]))
	if err != nil {
		return &usageError{reason: err.Error()}
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	ed, err := c.currentEditor()
	if err != nil {
		return err
	}
	if err := ed.Toggle(kind, id); err != nil {
		return err
	}
	writeEditor(w, ed)
	return nil
}

func (c *Console) show(_ context.Context, w io.Writer, _ []string) error {
	ed, err := c.currentEditor()
	if err != nil {
		return err
	}
	writeEditor(w, ed)
	return nil
}

func (c *Console) save(ctx context.Context, w io.Writer, _ []string) error {
	ed, err := c.currentEditor()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Saving...")
	if err := ed.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "Saved.")
	writeItem(w, ed.Item())
	return nil
}

func (c *Console) cancel(_ context.Context, w io.Writer, _ []string) error {
	ed, err := c.currentEditor()
	if err != nil {
		return err
	}
	ed.Cancel()
	fmt.Fprintln(w, "Edit discarded.")
	return nil
}

func (c *Console) reload(ctx context.Context, w io.Writer, _ []string) error {
	ed, err := c.currentEditor()
	if err != nil {
		return err
	}
	if err := ed.ReloadCatalogs(ctx); err != nil {
		fmt.Fprintf(w, "Warning: %s\n", err)
	}
	writeEditor(w, ed)
	return nil
}

func writeItemLine(w io.Writer, item *models.Item) {
	fmt.Fprintf(w, "  [%d] %s", item.ID, item.Title)
	if len(item.Tags) > 0 {
		fmt.Fprintf(w, "  #%s", strings.Join(item.Tags, " #"))
	}
	fmt.Fprintln(w)
}

func writeItem(w io.Writer, item *models.Item) {
	if item == nil {
		return
	}
	fmt.Fprintf(w, "[%d] %s\n", item.ID, item.Title)
	if item.ImageURL != nil && *item.ImageURL != "" {
		fmt.Fprintf(w, "  Image:    %s\n", *item.ImageURL)
	}
	fmt.Fprintf(w, "  Tags:     %s\n", listOrNone(item.Tags))
	fmt.Fprintf(w, "  Creators: %s\n", listOrNone(item.Creators))
}

func writeEditor(w io.Writer, ed *editor.Editor) {
	item := ed.Item()
	if item == nil {
		fmt.Fprintln(w, "No item open.")
		return
	}
	if ed.State() != editor.Editing {
		writeItem(w, item)
		fmt.Fprintf(w, "  (%s; type 'edit %d' to change tags and creators)\n", ed.State(), item.ID)
		return
	}

	fmt.Fprintf(w, "Editing [%d] %s\n", item.ID, item.Title)
	writeOptions(w, "Tags", ed.Options(editor.KindTag))
	writeOptions(w, "Creators", ed.Options(editor.KindCreator))
	if err := ed.Err(); err != nil {
		fmt.Fprintf(w, "  Last error: %s\n", err)
	}
}

func writeOptions(w io.Writer, label string, opts []editor.Option) {
	fmt.Fprintf(w, "  %s:\n", label)
	if len(opts) == 0 {
		fmt.Fprintln(w, "    (none available)")
		return
	}
	for _, o := range opts {
		mark := " "
		if o.Selected {
			mark = "x"
		}
		fmt.Fprintf(w, "    [%s] %3d  %s\n", mark, o.ID, o.Name)
	}
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
