package editor

import (
	"context"

	apperrors "github.com/mmynk/medialog/internal/errors"
)

// Save persists the selection. The tag set is written and awaited before the
// creator set is written; both are full replacements. The two writes are not
// transactional, so a failure of exactly one of them is reported as a
// partial association failure. Until both succeed the local item is left
// untouched and the editor returns to Editing with Err set.
//
// On success the local item is replaced by the server's copy, the selection
// is cleared and the editor returns to Viewing.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return ErrClosed
	case e.item == nil:
		e.mu.Unlock()
		return ErrNoItem
	case e.inflight:
		e.mu.Unlock()
		return ErrSaveInProgress
	case e.state != Editing:
		e.mu.Unlock()
		return ErrNotEditing
	}

	e.state = Saving
	e.inflight = true
	e.err = nil
	epoch := e.epoch
	itemID := e.item.ID
	tagIDs := e.selTags.IDs()
	creatorIDs := e.selCreators.IDs()
	e.mu.Unlock()
	defer e.finish()

	e.logger.Info("Saving associations",
		"item_id", itemID,
		"tag_ids", tagIDs,
		"creator_ids", creatorIDs,
	)

	_, tagErr := e.client.ReplaceItemTags(ctx, itemID, tagIDs)
	updated, creatorErr := e.client.ReplaceItemCreators(ctx, itemID, creatorIDs)

	switch {
	case tagErr != nil && creatorErr != nil:
		return e.fail(epoch, itemID, saveFailure(tagErr, creatorErr))
	case tagErr != nil:
		return e.fail(epoch, itemID, apperrors.Wrapf(tagErr, apperrors.CodePartialAssociation,
			"Creators were saved but tags were not: %s", tagErr.Error()))
	case creatorErr != nil:
		return e.fail(epoch, itemID, apperrors.Wrapf(creatorErr, apperrors.CodePartialAssociation,
			"Tags were saved but creators were not: %s", creatorErr.Error()))
	}

	if updated == nil {
		// Both writes landed but the reply had no item; read it back.
		refreshed, err := e.client.GetItem(ctx, itemID)
		if err != nil {
			return e.fail(epoch, itemID, apperrors.Wrapf(err, apperrors.CodeOf(err),
				"Saved, but the item could not be reloaded: %s", err.Error()))
		}
		if refreshed == nil {
			return e.fail(epoch, itemID, apperrors.Wrap(nil, apperrors.CodeServer,
				"Saved, but the server returned no item"))
		}
		updated = refreshed
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.epoch != epoch {
		e.logger.Debug("Dropping stale save result", "item_id", itemID)
		return nil
	}

	e.item = updated.Clone()
	e.selTags = nil
	e.selCreators = nil
	e.state = Viewing
	e.err = nil

	e.logger.Info("Associations saved",
		"item_id", itemID,
		"tags", updated.Tags,
		"creators", updated.Creators,
	)
	return nil
}

func (e *Editor) finish() {
	e.mu.Lock()
	e.inflight = false
	e.mu.Unlock()
}

// fail records err unless the save it belongs to has been abandoned.
func (e *Editor) fail(epoch uint64, itemID int64, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Warn("Saving associations failed",
		"item_id", itemID,
		"code", apperrors.CodeOf(err),
		"error", err,
	)

	if e.closed || e.epoch != epoch {
		return err
	}
	e.state = Editing
	e.err = err
	return err
}

// saveFailure merges two failed writes into one error. The code of the tag
// write wins since it was issued first.
func saveFailure(tagErr, creatorErr error) error {
	msg := tagErr.Error()
	if creatorErr.Error() != msg {
		msg += "; " + creatorErr.Error()
	}
	return apperrors.Wrapf(apperrors.Join(tagErr, creatorErr), apperrors.CodeOf(tagErr), "Nothing was saved: %s", msg)
}
