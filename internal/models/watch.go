package models

// Watch représente une montre du catalogue distant. Lecture seule côté
// boutique, CRUD via le panneau admin.
type Watch struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images,omitempty"`
}
