package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmynk/medialog/internal/models"
)

// ListTags returns the global tag catalog.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if _, err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListCreators returns the global creator catalog.
func (c *Client) ListCreators(ctx context.Context) ([]models.Creator, error) {
	var creators []models.Creator
	if _, err := c.do(ctx, http.MethodGet, "/creators", nil, &creators); err != nil {
		return nil, err
	}
	return creators, nil
}

// ListCategories returns the categories belonging to userID.
func (c *Client) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	var categories []models.Category
	path := fmt.Sprintf("/categories?user_id=%d", userID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
