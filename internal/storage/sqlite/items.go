package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/medialog/internal/models"
	"github.com/mmynk/medialog/internal/storage"
)

// association describes one item-to-catalog join table.
type association struct {
	join    string // join table
	column  string // catalog id column in the join table
	catalog string // catalog table
}

var (
	tagAssoc     = association{join: "item_tags", column: "tag_id", catalog: "tags"}
	creatorAssoc = association{join: "item_creators", column: "creator_id", catalog: "creators"}
)

// CreateItem inserts a new item and sets item.ID. Associations start empty.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO items (title, image_url, category_id, user_id) VALUES (?, ?, ?, ?)",
		item.Title, imageURL(item.ImageURL), item.CategoryID, item.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	item.ID = id
	item.Tags = []string{}
	item.Creators = []string{}
	return nil
}

// GetItem retrieves an item by ID with its tag and creator names.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item := &models.Item{}
	var image sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, image_url, category_id, user_id FROM items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.Title, &image, &item.CategoryID, &item.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if image.Valid {
		item.ImageURL = &image.String
	}

	if err := s.loadNames(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsByUser returns the user's items ordered by ID.
func (s *SQLiteStore) ListItemsByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, image_url, category_id, user_id FROM items WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var (
			item  models.Item
			image sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &image, &item.CategoryID, &item.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if image.Valid {
			url := image.String
			item.ImageURL = &url
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	rows.Close()

	for i := range items {
		if err := s.loadNames(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// UpdateItem writes the item's scalar fields.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET title = ?, image_url = ?, category_id = ? WHERE id = ?",
		item.Title, imageURL(item.ImageURL), item.CategoryID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return requireRow(res, "item")
}

// DeleteItem removes an item; its associations cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRow(res, "item")
}

// ReplaceItemTags replaces the item's tag set in one transaction.
func (s *SQLiteStore) ReplaceItemTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	if err := s.replace(ctx, tagAssoc, itemID, tagIDs); err != nil {
		return fmt.Errorf("failed to replace item tags: %w", err)
	}
	return nil
}

// ReplaceItemCreators replaces the item's creator set in one transaction.
func (s *SQLiteStore) ReplaceItemCreators(ctx context.Context, itemID int64, creatorIDs []int64) error {
	if err := s.replace(ctx, creatorAssoc, itemID, creatorIDs); err != nil {
		return fmt.Errorf("failed to replace item creators: %w", err)
	}
	return nil
}

func (s *SQLiteStore) replace(ctx context.Context, a association, itemID int64, ids []int64) error {
	ids = uniqueIDs(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE id = ?", itemID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	if exists == 0 {
		return storage.ErrNotFound
	}

	if len(ids) > 0 {
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		var found int
		query := "SELECT COUNT(*) FROM " + a.catalog + " WHERE id IN (" + placeholders(len(ids)) + ")"
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
			return fmt.Errorf("failed to check %s: %w", a.catalog, err)
		}
		if found != len(ids) {
			return storage.ErrUnknownReference
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+a.join+" WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", a.join, err)
	}
	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO "+a.join+" (item_id, "+a.column+") VALUES (?, ?)",
			itemID, id,
		)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", a.join, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadNames fills item.Tags and item.Creators, each sorted by name.
func (s *SQLiteStore) loadNames(ctx context.Context, item *models.Item) error {
	var err error
	if item.Tags, err = s.names(ctx, tagAssoc, item.ID); err != nil {
		return fmt.Errorf("failed to get item tags: %w", err)
	}
	if item.Creators, err = s.names(ctx, creatorAssoc, item.ID); err != nil {
		return fmt.Errorf("failed to get item creators: %w", err)
	}
	return nil
}

func (s *SQLiteStore) names(ctx context.Context, a association, itemID int64) ([]string, error) {
	query := "SELECT c.name FROM " + a.join + " j JOIN " + a.catalog + " c ON c.id = j." + a.column +
		" WHERE j.item_id = ? ORDER BY c.name"
	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

func imageURL(url *string) sql.NullString {
	if url == nil || *url == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *url, Valid: true}
}
