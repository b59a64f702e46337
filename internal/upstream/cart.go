package upstream

import (
	"context"
	"net/http"
	"net/url"

	"chrono_store_front/internal/models"
)

type cartItemDTO struct {
	ID       string    `json:"_id"`
	WatchID  string    `json:"watchId"`
	Quantity int       `json:"quantity"`
	Watch    *watchDTO `json:"watch"`
}

func (d cartItemDTO) toModel(c *Client) models.CartItem {
	item := models.CartItem{
		ID:       d.ID,
		WatchID:  d.WatchID,
		Quantity: d.Quantity,
	}
	if d.Watch != nil {
		watch := d.Watch.toModel(c)
		item.Watch = &watch
		if item.WatchID == "" {
			item.WatchID = watch.ID
		}
	}
	return item
}

// BulkItem décrit une ligne d'ajout groupé au panier distant.
type BulkItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// GetCart récupère le panier serveur de la session authentifiée, images
// résolues en URLs absolues.
func (c *Client) GetCart(ctx context.Context, token string) ([]models.CartItem, error) {
	var resp struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    []cartItemDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cart", token, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(resp.Data))
	for _, d := range resp.Data {
		items = append(items, d.toModel(c))
	}
	return items, nil
}

// AddToCart ajoute une montre au panier distant.
func (c *Client) AddToCart(ctx context.Context, token, watchID string, quantity int) error {
	payload := map[string]any{"watchId": watchID, "quantity": quantity}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", token, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Status: http.StatusBadRequest, Message: resp.Message}
	}
	return nil
}

// AddItemsToCart ajoute plusieurs montres en un appel.
func (c *Client) AddItemsToCart(ctx context.Context, token string, items []BulkItem) error {
	payload := map[string]any{"cartedItems": items}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart/addItemToCart", token, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Status: http.StatusBadRequest, Message: resp.Message}
	}
	return nil
}

// UpdateCartItem change la quantité d'une ligne du panier distant.
func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	payload := map[string]any{"itemId": itemID, "quantity": quantity}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/cart/update", token, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Status: http.StatusBadRequest, Message: resp.Message}
	}
	return nil
}

// RemoveCartItem supprime une ligne du panier distant.
func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/remove/"+url.PathEscape(itemID), token, nil, nil)
}

// ClearCart vide le panier distant.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/clear", token, nil, nil)
}
