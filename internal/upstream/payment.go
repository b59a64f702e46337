package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"chrono_store_front/internal/models"
)

// PaymentInit porte l'URL de la page de paiement hébergée et la référence
// opaque identifiant la tentative, vérifiée au retour de redirection.
type PaymentInit struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// PaymentStatus est le résultat de la vérification d'un paiement.
type PaymentStatus struct {
	Settled bool
	Status  string
	Order   *models.Order
}

type orderDTO struct {
	ID        string  `json:"_id"`
	Status    string  `json:"status"`
	Total     float64 `json:"totalPrice"`
	Reference string  `json:"reference"`
	Items     []struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
		Image     string  `json:"image"`
	} `json:"orderItems"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d orderDTO) toModel() *models.Order {
	order := &models.Order{
		ID:        d.ID,
		Amount:    d.Total,
		Status:    d.Status,
		Reference: d.Reference,
		CreatedAt: d.CreatedAt,
	}
	for _, item := range d.Items {
		order.Items = append(order.Items, models.OrderItem{
			WatchID:  item.ProductID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Image,
		})
	}
	return order
}

// InitializePayment démarre un paiement à partir du panier serveur et des
// informations de livraison.
func (c *Client) InitializePayment(ctx context.Context, token string, info models.DeliveryInfo) (*PaymentInit, error) {
	var resp struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    PaymentInit `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart/initialize-payment", token, info, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data.AuthorizationURL == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: resp.Message}
	}
	return &resp.Data, nil
}

// VerifyPayment interroge une seule fois le statut de règlement d'une
// référence. Aucun retry automatique : l'échec renvoie l'utilisateur au
// panier.
func (c *Client) VerifyPayment(ctx context.Context, token, reference string) (*PaymentStatus, error) {
	var resp struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Status  string    `json:"status"`
		Data    *orderDTO `json:"data"`
	}
	path := "/api/cart/verify-payment?reference=" + url.QueryEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}

	status := &PaymentStatus{Settled: resp.Success, Status: resp.Status}
	if resp.Data != nil {
		status.Order = resp.Data.toModel()
	}
	return status, nil
}

// OrderRequest correspond à la variante "commande puis paiement" du checkout.
type OrderRequest struct {
	ShippingAddress map[string]string  `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingPrice   float64            `json:"shippingPrice"`
	OrderItems      []models.OrderItem `json:"orderItems"`
	ItemsPrice      float64            `json:"itemsPrice"`
	TotalPrice      float64            `json:"totalPrice"`
	OrderNote       string             `json:"orderNote,omitempty"`
}

// CreateOrder crée une commande côté service distant et retourne son
// identifiant.
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (string, error) {
	var resp struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Order   *orderDTO `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders/order", token, req, &resp); err != nil {
		return "", err
	}
	if resp.Order == nil || resp.Order.ID == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "Commande créée sans identifiant"}
	}
	return resp.Order.ID, nil
}

// InitializeOrderPayment démarre le paiement d'une commande existante.
func (c *Client) InitializeOrderPayment(ctx context.Context, token, orderID string) (*PaymentInit, error) {
	payload := map[string]string{"orderId": orderID}
	// Cette variante du service renvoie l'URL au premier niveau, sans
	// enveloppe.
	var resp struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders/payment/initialize", token, payload, &resp); err != nil {
		return nil, err
	}
	if resp.AuthorizationURL == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "Aucune URL de paiement reçue"}
	}
	return &PaymentInit{AuthorizationURL: resp.AuthorizationURL, Reference: resp.Reference}, nil
}

// ConfirmOrderPayment confirme le règlement d'une commande après retour du
// prestataire de paiement.
func (c *Client) ConfirmOrderPayment(ctx context.Context, token, orderID, reference string) error {
	payload := map[string]string{"orderId": orderID, "reference": reference}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders/confirm-payment", token, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Status: http.StatusBadGateway, Message: resp.Message}
	}
	return nil
}

// GetOrder récupère le snapshot d'une commande pour l'écran de confirmation.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	var resp struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Data    *orderDTO `json:"data"`
		Order   *orderDTO `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), token, nil, &resp); err != nil {
		return nil, err
	}

	dto := resp.Data
	if dto == nil {
		dto = resp.Order
	}
	if dto == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: resp.Message}
	}
	return dto.toModel(), nil
}
