package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmynk/medialog/internal/models"
)

// CreateItemRequest carries the new-item form. The owner is the caller.
type CreateItemRequest struct {
	Title      string  `json:"title"`
	CategoryID int64   `json:"category_id"`
	ImageURL   *string `json:"image_url"`
}

// UpdateItemRequest carries a partial item update; nil fields are left alone.
type UpdateItemRequest struct {
	Title      *string `json:"title,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
}

type tagIDsRequest struct {
	TagIDs []int64 `json:"tag_ids"`
}

type creatorIDsRequest struct {
	CreatorIDs []int64 `json:"creator_ids"`
}

// ListItems returns the caller's items.
func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if _, err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem fetches one item. A nil item with a nil error means the server
// answered 2xx without a usable body.
func (c *Client) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return c.itemCall(ctx, http.MethodGet, itemPath(id), nil)
}

// CreateItem adds an item to the caller's collection.
func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) (*models.Item, error) {
	return c.itemCall(ctx, http.MethodPost, "/items", req)
}

// UpdateItem patches an item's scalar fields.
func (c *Client) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*models.Item, error) {
	return c.itemCall(ctx, http.MethodPatch, itemPath(id), req)
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
	return err
}

// ReplaceItemTags declares tagIDs to be the complete tag set of the item and
// returns the item as persisted.
func (c *Client) ReplaceItemTags(ctx context.Context, itemID int64, tagIDs []int64) (*models.Item, error) {
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	return c.itemCall(ctx, http.MethodPost, itemPath(itemID)+"/tags", tagIDsRequest{TagIDs: tagIDs})
}

// ReplaceItemCreators declares creatorIDs to be the complete creator set of
// the item and returns the item as persisted.
func (c *Client) ReplaceItemCreators(ctx context.Context, itemID int64, creatorIDs []int64) (*models.Item, error) {
	if creatorIDs == nil {
		creatorIDs = []int64{}
	}
	return c.itemCall(ctx, http.MethodPost, itemPath(itemID)+"/creators", creatorIDsRequest{CreatorIDs: creatorIDs})
}

func (c *Client) itemCall(ctx context.Context, method, path string, in any) (*models.Item, error) {
	var item models.Item
	ok, err := c.do(ctx, method, path, in, &item)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func itemPath(id int64) string {
	return fmt.Sprintf("/items/%d", id)
}
