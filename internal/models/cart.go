package models

// CartMode distingue un panier invité (cache Redis local) d'un panier
// rattaché à un compte (persisté par l'API distante).
type CartMode string

const (
	CartModeGuest  CartMode = "guest"
	CartModeRemote CartMode = "remote"
)

type Cart struct {
	Mode  CartMode   `json:"mode"`
	Items []CartItem `json:"items"`
}

// CartItem garde un snapshot dénormalisé de la montre pour l'affichage des
// sous-totaux, même si le catalogue change entre temps.
type CartItem struct {
	ID       string `json:"id"`
	WatchID  string `json:"watch_id"`
	Quantity int    `json:"quantity"`
	Watch    *Watch `json:"watch,omitempty"`
}

// UnitPrice retourne le prix snapshot de l'item (0 si snapshot absent).
func (i CartItem) UnitPrice() float64 {
	if i.Watch == nil {
		return 0
	}
	return i.Watch.Price
}

// --- Getters purs : aucun I/O, calculés sur l'état courant ---

// TotalItems retourne la somme des quantités du panier.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice retourne la somme des (prix unitaire × quantité).
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice() * float64(item.Quantity)
	}
	return total
}

// ItemQuantity retourne la quantité pour une montre donnée (0 si absente).
func (c Cart) ItemQuantity(watchID string) int {
	for _, item := range c.Items {
		if item.WatchID == watchID {
			return item.Quantity
		}
	}
	return 0
}

// Contains indique si la montre est déjà dans le panier.
func (c Cart) Contains(watchID string) bool {
	return c.ItemQuantity(watchID) > 0
}

// ReconcileSummary résume la synchronisation d'un panier invité vers le
// panier distant après connexion. L'échec partiel est toléré.
type ReconcileSummary struct {
	Synced int      `json:"synced"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}
