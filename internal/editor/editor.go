// Package editor implements the item association editor: it reconciles an
// item's persisted tag/creator names, the global catalogs and a local ID
// selection, and persists the selection as two full-replacement writes.
//
// States move Viewing → Editing → Saving → Viewing on success, or back to
// Editing with an error on failure. The mutex guards editor fields only and
// is never held across a network call. A save in flight blocks Save, Edit and
// Open until its writes return, even after Cancel has abandoned it.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/selection"
)

// Kind selects which association a call refers to.
type Kind string

const (
	KindTag     Kind = "tag"
	KindCreator Kind = "creator"
)

// ParseKind converts user input ("tag", "tags", "creator", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tag", "tags":
		return KindTag, nil
	case "creator", "creators":
		return KindCreator, nil
	default:
		return "", ErrUnknownKind
	}
}

// State is the editor's position in its state machine.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

var (
	ErrNoItem         = errors.New("no item open")
	ErrNotEditing     = errors.New("not editing")
	ErrSaveInProgress = errors.New("save already in progress")
	ErrUnknownID      = errors.New("id is not in the catalog")
	ErrUnknownKind    = errors.New("kind must be tag or creator")
	ErrClosed         = errors.New("editor closed")
)

// Client is the slice of the Resource Client the editor needs.
type Client interface {
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ReplaceItemTags(ctx context.Context, itemID int64, tagIDs []int64) (*models.Item, error)
	ReplaceItemCreators(ctx context.Context, itemID int64, creatorIDs []int64) (*models.Item, error)
}

// Catalogs supplies the global catalogs. Failures must come with an empty,
// usable catalog.
type Catalogs interface {
	Tags(ctx context.Context) ([]models.Tag, error)
	Creators(ctx context.Context) ([]models.Creator, error)
}

// Option is one selectable catalog entry as rendered by a view.
type Option struct {
	ID       int64
	Name     string
	Selected bool
}

// Editor edits the associations of one item at a time.
type Editor struct {
	client   Client
	catalogs Catalogs
	logger   *slog.Logger

	mu          sync.Mutex
	state       State
	item        *models.Item
	tags        []models.Tag
	creators    []models.Creator
	selTags     selection.Set
	selCreators selection.Set
	err         error
	// epoch changes whenever the edit session is replaced or abandoned; a
	// save that started under an older epoch must not touch the editor.
	epoch  uint64
	closed bool
	// inflight is set for the whole duration of Save, independent of state.
	inflight bool
}

// New creates an editor in the Viewing state with no item.
func New(client Client, catalogs Catalogs, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{client: client, catalogs: catalogs, logger: logger}
}

// Open loads the catalogs, takes a copy of item and enters Editing with the
// selection derived from the item's name lists. A catalog failure leaves the
// editor open with an empty catalog; that failure is returned and recorded
// as Err but is not fatal.
func (e *Editor) Open(ctx context.Context, item *models.Item) error {
	if item == nil {
		return ErrNoItem
	}
	if e.isClosed() {
		return ErrClosed
	}

	tags, creators, catErr := e.fetchCatalogs(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.inflight {
		return ErrSaveInProgress
	}

	e.epoch++
	e.item = item.Clone()
	e.tags = tags
	e.creators = creators
	e.deriveLocked()
	e.state = Editing
	e.err = catErr

	e.logger.Debug("Editor opened",
		"item_id", item.ID,
		"tags_selected", e.selTags.Len(),
		"creators_selected", e.selCreators.Len(),
	)
	return catErr
}

// Edit re-enters Editing on the current item, deriving a fresh selection
// from the live item and catalogs.
func (e *Editor) Edit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.closed:
		return ErrClosed
	case e.item == nil:
		return ErrNoItem
	case e.inflight:
		return ErrSaveInProgress
	}

	e.epoch++
	e.deriveLocked()
	e.state = Editing
	e.err = nil
	return nil
}

// Toggle flips membership of id in the selection for kind.
func (e *Editor) Toggle(kind Kind, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Editing {
		return ErrNotEditing
	}

	switch kind {
	case KindTag:
		if !selection.Contains(e.tags, id) {
			return ErrUnknownID
		}
		e.selTags.Toggle(id)
	case KindCreator:
		if !selection.Contains(e.creators, id) {
			return ErrUnknownID
		}
		e.selCreators.Toggle(id)
	default:
		return ErrUnknownKind
	}
	return nil
}

// Cancel abandons the edit and discards the selection. A save in flight keeps
// running but its result is dropped.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.selTags = nil
	e.selCreators = nil
	e.state = Viewing
	e.err = nil
}

// Close unmounts the editor. Results of a save still in flight are dropped.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.epoch++
	e.selTags = nil
	e.selCreators = nil
	e.state = Viewing
}

// ReloadCatalogs refetches both catalogs. While editing, the selection is
// derived again so it cannot hold IDs the catalog no longer has.
func (e *Editor) ReloadCatalogs(ctx context.Context) error {
	if inv, ok := e.catalogs.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
	tags, creators, catErr := e.fetchCatalogs(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	e.tags = tags
	e.creators = creators
	if e.state == Editing {
		e.deriveLocked()
	}
	if catErr != nil {
		e.err = catErr
	}
	return catErr
}

// State returns the current state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Item returns a copy of the local item, or nil if none is open.
func (e *Editor) Item() *models.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.Clone()
}

// Err returns the message-bearing error of the last failed action, if any.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Selected returns the selected IDs for kind in ascending order.
func (e *Editor) Selected(kind Kind) []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch kind {
	case KindTag:
		return e.selTags.IDs()
	case KindCreator:
		return e.selCreators.IDs()
	}
	return []int64{}
}

// Options returns the catalog for kind with selection marks, in catalog order.
func (e *Editor) Options(kind Kind) []Option {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch kind {
	case KindTag:
		return options(e.tags, e.selTags)
	case KindCreator:
		return options(e.creators, e.selCreators)
	}
	return nil
}

func options[E selection.Entry](catalog []E, sel selection.Set) []Option {
	out := make([]Option, 0, len(catalog))
	for _, entry := range catalog {
		out = append(out, Option{
			ID:       entry.EntryID(),
			Name:     entry.EntryName(),
			Selected: sel.Has(entry.EntryID()),
		})
	}
	return out
}

func (e *Editor) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// deriveLocked rebuilds both selections from the item and catalogs.
func (e *Editor) deriveLocked() {
	e.selTags = selection.Derive(e.item.Tags, e.tags)
	e.selCreators = selection.Derive(e.item.Creators, e.creators)
}

func (e *Editor) fetchCatalogs(ctx context.Context) ([]models.Tag, []models.Creator, error) {
	tags, tagErr := e.catalogs.Tags(ctx)
	creators, creatorErr := e.catalogs.Creators(ctx)
	if tags == nil {
		tags = []models.Tag{}
	}
	if creators == nil {
		creators = []models.Creator{}
	}

	var err error
	switch {
	case tagErr != nil && creatorErr != nil:
		err = apperrors.Wrapf(errors.Join(tagErr, creatorErr), apperrors.CodeStaleCatalog,
			"%s; %s", tagErr.Error(), creatorErr.Error())
	case tagErr != nil:
		err = tagErr
	case creatorErr != nil:
		err = creatorErr
	}
	return tags, creators, err
}
