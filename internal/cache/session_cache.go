package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"chrono_store_front/internal/models"
)

const (
	SessionTTL = 30 * 24 * time.Hour

	// Une référence de paiement n'attend jamais plus d'une heure son retour
	// de redirection.
	PendingPaymentTTL = time.Hour
)

// SaveSession écrit l'objet session sous session:<id>.
func SaveSession(s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "session:"+s.ID, data, SessionTTL).Err()
}

// GetSession relit une session ; nil si elle n'existe plus.
func GetSession(sessionID string) (*models.Session, error) {
	data, err := RedisClient.Get(ctx, "session:"+sessionID).Result()
	if err != nil || data == "" {
		return nil, nil
	}

	var s models.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("session illisible: %w", err)
	}
	return &s, nil
}

// DeleteSession détruit la session (logout ou credential rejeté).
func DeleteSession(sessionID string) error {
	return RedisClient.Del(ctx, "session:"+sessionID).Err()
}

// PendingPayment mémorise la référence (et éventuellement la commande) d'un
// paiement en cours, posée AVANT la redirection vers la page de paiement.
type PendingPayment struct {
	Reference string `json:"reference"`
	OrderID   string `json:"order_id,omitempty"`
}

func SavePendingPayment(sessionID string, p PendingPayment) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "pending_payment:"+sessionID, data, PendingPaymentTTL).Err()
}

func GetPendingPayment(sessionID string) (*PendingPayment, error) {
	data, err := RedisClient.Get(ctx, "pending_payment:"+sessionID).Result()
	if err != nil || data == "" {
		return nil, nil
	}

	var p PendingPayment
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePendingPayment consomme la référence, que la vérification ait réussi
// ou non.
func DeletePendingPayment(sessionID string) error {
	return RedisClient.Del(ctx, "pending_payment:"+sessionID).Err()
}

// RedisSessions expose la purge de session derrière une interface, pour le
// store de panier.
type RedisSessions struct{}

func (RedisSessions) Invalidate(sessionID string) error {
	return DeleteSession(sessionID)
}

// RedisPendingPayments est l'implémentation Redis du stockage des paiements
// en attente, utilisée par le flux de checkout.
type RedisPendingPayments struct{}

func (RedisPendingPayments) SavePendingPayment(sessionID string, p PendingPayment) error {
	return SavePendingPayment(sessionID, p)
}

func (RedisPendingPayments) GetPendingPayment(sessionID string) (*PendingPayment, error) {
	return GetPendingPayment(sessionID)
}

func (RedisPendingPayments) DeletePendingPayment(sessionID string) error {
	return DeletePendingPayment(sessionID)
}
