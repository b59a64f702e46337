package cache

import (
	"encoding/json"
	"time"

	"chrono_store_front/internal/models"
)

// Paniers invités : cache local de la boutique, le temps qu'une session se
// connecte et soit réconciliée avec le panier serveur.
const GuestCartTTL = 30 * 24 * time.Hour

// GuestCartStore persiste les paniers invités. Interface pour pouvoir tester
// le store de panier sans Redis.
type GuestCartStore interface {
	GetGuestCart(guestID string) ([]models.CartItem, error)
	SaveGuestCart(guestID string, items []models.CartItem) error
	DeleteGuestCart(guestID string) error
}

// RedisGuestCarts est l'implémentation Redis utilisée en production.
type RedisGuestCarts struct{}

func (RedisGuestCarts) GetGuestCart(guestID string) ([]models.CartItem, error) {
	data, err := RedisClient.Get(ctx, "guest_cart:"+guestID).Result()
	if err != nil || data == "" {
		// Pas de panier en cache : panier vide, ce n'est pas une erreur.
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return []models.CartItem{}, nil
	}
	return items, nil
}

func (RedisGuestCarts) SaveGuestCart(guestID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "guest_cart:"+guestID, data, GuestCartTTL).Err()
}

func (RedisGuestCarts) DeleteGuestCart(guestID string) error {
	return RedisClient.Del(ctx, "guest_cart:"+guestID).Err()
}

// PublishCartEvent notifie le canal de synchro panier d'une session
// ("updated" ou "cleared"), consommé par le websocket.
func PublishCartEvent(sessionID, event string) {
	if RedisClient == nil {
		return
	}
	RedisClient.Publish(ctx, "cartsync:"+sessionID, event)
}
