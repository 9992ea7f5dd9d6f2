package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/middleware"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/storage"
)

// ItemService handles the caller's items and their associations.
type ItemService struct {
	*deps
}

// NewItemService creates a new item service.
func NewItemService(d *deps) *ItemService {
	return &ItemService{deps: d}
}

type createItemRequest struct {
	Title      string  `json:"title" validate:"required,max=100"`
	CategoryID int64   `json:"category_id" validate:"required,gt=0"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=255"`
}

type updateItemRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=100"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=255"`
}

type tagIDsRequest struct {
	TagIDs []int64 `json:"tag_ids" validate:"required,dive,gt=0"`
}

type creatorIDsRequest struct {
	CreatorIDs []int64 `json:"creator_ids" validate:"required,dive,gt=0"`
}

// List returns the caller's items.
func (s *ItemService) List(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItemsByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, items, s.logger)
}

// Create adds an item owned by the caller.
func (s *ItemService) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req createItemRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, apperrors.Validation("Title cannot be empty"), s.logger)
		return
	}
	if err := s.checkCategory(ctx, req.CategoryID, userID); err != nil {
		writeError(w, err, s.logger)
		return
	}

	item := &models.Item{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		UserID:     userID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		writeError(w, err, s.logger)
		return
	}

	s.logger.Info("Item created", "item_id", item.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, item, s.logger)
}

// Get returns one of the caller's items.
func (s *ItemService) Get(w http.ResponseWriter, r *http.Request) {
	item, err := s.ownedItem(r)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, item, s.logger)
}

// Update applies a partial update; absent fields are left alone.
func (s *ItemService) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := s.ownedItem(r)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	var req updateItemRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}
	if req.Title == nil && req.CategoryID == nil && req.ImageURL == nil {
		writeError(w, apperrors.Validation("No data provided to update"), s.logger)
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, apperrors.Validation("Title cannot be empty"), s.logger)
			return
		}
		item.Title = *req.Title
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID, item.UserID); err != nil {
			writeError(w, err, s.logger)
			return
		}
		item.CategoryID = *req.CategoryID
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.respondItem(w, r, item.ID)
}

// Delete removes one of the caller's items.
func (s *ItemService) Delete(w http.ResponseWriter, r *http.Request) {
	item, err := s.ownedItem(r)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	if err := s.store.DeleteItem(r.Context(), item.ID); err != nil {
		writeError(w, err, s.logger)
		return
	}

	s.logger.Info("Item deleted", "item_id", item.ID)
	writeJSON(w, http.StatusOK, messageBody{Message: fmt.Sprintf("Item %d deleted successfully", item.ID)}, s.logger)
}

// ReplaceTags makes tag_ids the item's complete tag set.
func (s *ItemService) ReplaceTags(w http.ResponseWriter, r *http.Request) {
	var req tagIDsRequest
	s.replace(w, r, &req, "tag_ids", func(ctx context.Context, itemID int64) error {
		return s.store.ReplaceItemTags(ctx, itemID, req.TagIDs)
	})
}

// ReplaceCreators makes creator_ids the item's complete creator set.
func (s *ItemService) ReplaceCreators(w http.ResponseWriter, r *http.Request) {
	var req creatorIDsRequest
	s.replace(w, r, &req, "creator_ids", func(ctx context.Context, itemID int64) error {
		return s.store.ReplaceItemCreators(ctx, itemID, req.CreatorIDs)
	})
}

// replace decodes into req, applies the write and answers with the
// refreshed item.
func (s *ItemService) replace(w http.ResponseWriter, r *http.Request, req any, field string, write func(context.Context, int64) error) {
	item, err := s.ownedItem(r)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	if err := s.decode(w, r, req); err != nil {
		writeError(w, err, s.logger)
		return
	}

	err = write(r.Context(), item.ID)
	if errors.Is(err, storage.ErrUnknownReference) {
		writeError(w, apperrors.Validation(fmt.Sprintf("One or more %s do not exist", field)), s.logger)
		return
	}
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	s.logger.Info("Item associations replaced", "item_id", item.ID, "field", field)
	s.respondItem(w, r, item.ID)
}

// ownedItem loads the {id} item. Items of other users are reported as
// missing.
func (s *ItemService) ownedItem(r *http.Request) (*models.Item, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != middleware.GetUserID(r.Context()) {
		return nil, apperrors.NotFoundf("Item with id %d not found", id)
	}
	return item, nil
}

func (s *ItemService) respondItem(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	if item == nil {
		writeError(w, apperrors.NotFoundf("Item with id %d not found", id), s.logger)
		return
	}
	writeJSON(w, http.StatusOK, item, s.logger)
}

// checkCategory requires a shared category or one owned by userID.
func (s *ItemService) checkCategory(ctx context.Context, categoryID, userID int64) error {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil || (category.UserID != 0 && category.UserID != userID) {
		return apperrors.Validation("Category does not exist")
	}
	return nil
}
