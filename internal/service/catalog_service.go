package service

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/mmynk/medialog/internal/errors"
	"github.com/mmynk/medialog/internal/middleware"
	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/storage"
)

// CatalogService handles tags, creators and categories.
type CatalogService struct {
	*deps
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(d *deps) *CatalogService {
	return &CatalogService{deps: d}
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// ListTags returns the global tag catalog.
func (s *CatalogService) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, tags, s.logger)
}

// CreateTag adds a tag with a unique name.
func (s *CatalogService) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}

	tag := &models.Tag{Name: req.Name}
	err := s.store.CreateTag(r.Context(), tag)
	if errors.Is(err, storage.ErrDuplicate) {
		err = apperrors.AlreadyExists("Tag with this name already exists")
	}
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	s.logger.Info("Tag created", "tag_id", tag.ID, "name", tag.Name)
	writeJSON(w, http.StatusCreated, tag, s.logger)
}

// ListCreators returns the global creator catalog.
func (s *CatalogService) ListCreators(w http.ResponseWriter, r *http.Request) {
	creators, err := s.store.ListCreators(r.Context())
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, creators, s.logger)
}

// CreateCreator adds a creator with a unique name.
func (s *CatalogService) CreateCreator(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}

	creator := &models.Creator{Name: req.Name}
	err := s.store.CreateCreator(r.Context(), creator)
	if errors.Is(err, storage.ErrDuplicate) {
		err = apperrors.AlreadyExists("Creator with this name already exists")
	}
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	s.logger.Info("Creator created", "creator_id", creator.ID, "name", creator.Name)
	writeJSON(w, http.StatusCreated, creator, s.logger)
}

// ListCategories returns the shared categories and the caller's own.
// ?user_id= may only name the caller.
func (s *CatalogService) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		requested, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || requested != userID {
			writeError(w, apperrors.Validation("user_id must be the signed-in user"), s.logger)
			return
		}
	}

	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories, s.logger)
}

// CreateCategory adds a category owned by the caller.
func (s *CatalogService) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err, s.logger)
		return
	}

	category := &models.Category{Name: req.Name, UserID: middleware.GetUserID(r.Context())}
	err := s.store.CreateCategory(r.Context(), category)
	if errors.Is(err, storage.ErrDuplicate) {
		err = apperrors.AlreadyExists("Category with this name already exists")
	}
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category, s.logger)
}
