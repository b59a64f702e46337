package upstream

import (
	"context"
	"net/http"
	"net/url"

	"chrono_store_front/internal/models"
)

// watchDTO suit le format JSON du service distant (identifiants Mongo).
type watchDTO struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	ImageURL    string   `json:"imageUrl"`
	Images      []string `json:"images"`
}

func (d watchDTO) toModel(c *Client) models.Watch {
	imageURL := d.ImageURL
	if imageURL == "" {
		imageURL = c.ResolveImageURL(d.Image)
	}
	images := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, c.ResolveImageURL(img))
	}
	return models.Watch{
		ID:          d.ID,
		Name:        d.Name,
		Brand:       d.Brand,
		Type:        d.Type,
		Price:       d.Price,
		Description: d.Description,
		Image:       d.Image,
		ImageURL:    imageURL,
		Images:      images,
	}
}

// ListWatches récupère la page courante du catalogue.
func (c *Client) ListWatches(ctx context.Context) ([]models.Watch, error) {
	var resp struct {
		Success bool       `json:"success"`
		Data    []watchDTO `json:"data"`
		Watches []watchDTO `json:"watches"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/watches", "", nil, &resp); err != nil {
		return nil, err
	}

	// Certaines versions du service renvoient "watches" au lieu de "data".
	dtos := resp.Data
	if len(dtos) == 0 {
		dtos = resp.Watches
	}

	watches := make([]models.Watch, 0, len(dtos))
	for _, d := range dtos {
		watches = append(watches, d.toModel(c))
	}
	return watches, nil
}

// GetWatch récupère une montre par identifiant.
func (c *Client) GetWatch(ctx context.Context, id string) (*models.Watch, error) {
	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Data    watchDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/watches/"+url.PathEscape(id), "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusNotFound, Message: resp.Message}
	}
	watch := resp.Data.toModel(c)
	return &watch, nil
}

// CreateWatch crée une montre (admin, formulaire multipart avec image).
func (c *Client) CreateWatch(ctx context.Context, token string, fields map[string]string, image *Upload) (*models.Watch, error) {
	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Data    watchDTO `json:"data"`
	}
	err := c.doMultipart(ctx, http.MethodPost, "/api/watches/create-watches", token, fields, image, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: resp.Message}
	}
	watch := resp.Data.toModel(c)
	return &watch, nil
}

// UpdateWatch met à jour une montre existante (admin).
func (c *Client) UpdateWatch(ctx context.Context, token, id string, fields map[string]string, image *Upload) (*models.Watch, error) {
	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Data    watchDTO `json:"data"`
	}
	err := c.doMultipart(ctx, http.MethodPut, "/api/watches/"+url.PathEscape(id), token, fields, image, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: resp.Message}
	}
	watch := resp.Data.toModel(c)
	return &watch, nil
}

// DeleteWatch supprime une montre (admin).
func (c *Client) DeleteWatch(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/watches/"+url.PathEscape(id), token, nil, nil)
}
