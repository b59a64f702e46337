package models

import "time"

// DeliveryInfo est saisi au moment du checkout, distinct de toute adresse de
// profil. Validé localement avant tout appel réseau.
type DeliveryInfo struct {
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryPhone   string `json:"deliveryPhone"`
}

type OrderItem struct {
	WatchID  string  `json:"watch_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// Order est créé par le service distant ; on n'en garde qu'une référence et
// un snapshot pour les écrans de confirmation.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Amount    float64     `json:"amount"`
	Status    string      `json:"status"`
	Reference string      `json:"reference,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
