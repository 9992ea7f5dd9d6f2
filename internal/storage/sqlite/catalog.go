package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/storage"
)

// CreateTag inserts a tag and sets tag.ID. Names are unique.
func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	id, err := s.insertNamed(ctx, "tags", tag.Name)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	tag.ID = id
	return nil
}

// ListTags returns every tag ordered by ID.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.eachNamed(ctx, "tags", func(id int64, name string) {
		tags = append(tags, models.Tag{ID: id, Name: name})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateCreator inserts a creator and sets creator.ID. Names are unique.
func (s *SQLiteStore) CreateCreator(ctx context.Context, creator *models.Creator) error {
	id, err := s.insertNamed(ctx, "creators", creator.Name)
	if err != nil {
		return fmt.Errorf("failed to create creator: %w", err)
	}
	creator.ID = id
	return nil
}

// ListCreators returns every creator ordered by ID.
func (s *SQLiteStore) ListCreators(ctx context.Context) ([]models.Creator, error) {
	creators := []models.Creator{}
	err := s.eachNamed(ctx, "creators", func(id int64, name string) {
		creators = append(creators, models.Creator{ID: id, Name: name})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	return creators, nil
}

// insertNamed inserts into a (id, name) catalog table. table is a constant
// supplied by this package, never user input.
func (s *SQLiteStore) insertNamed(ctx context.Context, table, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name)
	if isUniqueViolation(err) {
		return 0, storage.ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) eachNamed(ctx context.Context, table string, fn func(id int64, name string)) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		fn(id, name)
	}
	return rows.Err()
}

// CreateCategory inserts a category and sets category.ID. A zero UserID
// makes the category shared.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, user_id) VALUES (?, ?)",
		category.Name, nullableID(category.UserID),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create category: %w", storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read category id: %w", err)
	}
	category.ID = id
	return nil
}

// GetCategory returns nil, nil if the category does not exist.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var (
		category models.Category
		userID   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, user_id FROM categories WHERE id = ?", id,
	).Scan(&category.ID, &category.Name, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	category.UserID = userID.Int64
	return &category, nil
}

// ListCategories returns shared categories and those owned by userID.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	query := "SELECT id, name, user_id FROM categories ORDER BY id"
	var args []any
	if userID != 0 {
		query = "SELECT id, name, user_id FROM categories WHERE user_id IS NULL OR user_id = ? ORDER BY id"
		args = append(args, userID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var (
			category models.Category
			owner    sql.NullInt64
		)
		if err := rows.Scan(&category.ID, &category.Name, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		category.UserID = owner.Int64
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
