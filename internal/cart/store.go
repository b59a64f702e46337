// Package cart est la source de vérité du panier affiché par la boutique.
// Un panier est soit invité (cache Redis local), soit distant (persisté par
// l'API catalogue/commandes) ; la réconciliation après login est la seule
// transition entre les deux modes.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/models"
	"chrono_store_front/internal/upstream"

	"github.com/google/uuid"
)

// ErrValidation marque une entrée rejetée avant tout appel réseau.
var ErrValidation = errors.New("données invalides")

// RemoteCart est la partie de l'API distante dont le store a besoin.
// Satisfaite par *upstream.Client.
type RemoteCart interface {
	GetCart(ctx context.Context, token string) ([]models.CartItem, error)
	AddToCart(ctx context.Context, token, watchID string, quantity int) error
	AddItemsToCart(ctx context.Context, token string, items []upstream.BulkItem) error
	UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, token, itemID string) error
	ClearCart(ctx context.Context, token string) error
	GetWatch(ctx context.Context, id string) (*models.Watch, error)
}

// SessionInvalidator purge une session dont le credential distant a été
// rejeté.
type SessionInvalidator interface {
	Invalidate(sessionID string) error
}

type Store struct {
	Remote   RemoteCart
	Guest    cache.GuestCartStore
	Sessions SessionInvalidator

	// Les mutations d'une même session sont sérialisées ; deux sessions
	// distinctes ne se coordonnent pas.
	locks sync.Map
}

func NewStore(remote RemoteCart, guest cache.GuestCartStore, sessions SessionInvalidator) *Store {
	return &Store{Remote: remote, Guest: guest, Sessions: sessions}
}

func (s *Store) lock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func guestKey(sess *models.Session) string {
	if sess.GuestID != "" {
		return sess.GuestID
	}
	return sess.ID
}

// forceLogout purge le credential : la prochaine lecture présentera un
// panier vide.
func (s *Store) forceLogout(sess *models.Session) {
	log.Printf("⚠️ Credential rejeté par le service distant, session %s déconnectée", sess.ID)
	if err := s.Sessions.Invalidate(sess.ID); err != nil {
		log.Printf("❌ Erreur purge session %s: %v", sess.ID, err)
	}
	sess.UpstreamToken = ""
	sess.Role = ""
}

// Fetch retourne le panier courant : vue serveur si la session est
// authentifiée (remplace tout état local), cache invité sinon.
func (s *Store) Fetch(ctx context.Context, sess *models.Session) (models.Cart, error) {
	if sess == nil {
		return models.Cart{Mode: models.CartModeGuest, Items: []models.CartItem{}}, nil
	}

	if sess.IsAuthenticated() {
		items, err := s.Remote.GetCart(ctx, sess.UpstreamToken)
		if err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				s.forceLogout(sess)
			}
			return models.Cart{Mode: models.CartModeRemote, Items: []models.CartItem{}}, err
		}
		return models.Cart{Mode: models.CartModeRemote, Items: items}, nil
	}

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return models.Cart{Mode: models.CartModeGuest, Items: []models.CartItem{}}, err
	}
	return models.Cart{Mode: models.CartModeGuest, Items: items}, nil
}

// Add ajoute une montre au panier. En mode distant, l'ajout est suivi d'un
// re-fetch complet pour rester cohérent avec les champs calculés serveur ;
// en mode invité, la quantité est fusionnée par montre (au plus une ligne
// par identifiant produit).
func (s *Store) Add(ctx context.Context, sess *models.Session, watchID string, quantity int, snapshot *models.Watch) (models.Cart, error) {
	if watchID == "" {
		return models.Cart{}, fmt.Errorf("%w: identifiant montre manquant", ErrValidation)
	}
	if quantity <= 0 {
		return models.Cart{}, fmt.Errorf("%w: quantité invalide", ErrValidation)
	}

	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if sess.IsAuthenticated() {
		if err := s.Remote.AddToCart(ctx, sess.UpstreamToken, watchID, quantity); err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				s.forceLogout(sess)
			}
			return models.Cart{}, err
		}
		return s.refetch(ctx, sess)
	}

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return models.Cart{}, err
	}
	items, err = s.mergeGuestItem(ctx, items, watchID, quantity, snapshot)
	if err != nil {
		return models.Cart{}, err
	}
	if err := s.Guest.SaveGuestCart(guestKey(sess), items); err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Mode: models.CartModeGuest, Items: items}, nil
}

// BulkLine décrit une ligne d'ajout groupé.
type BulkLine struct {
	WatchID  string
	Quantity int
	Snapshot *models.Watch
}

// AddBulk ajoute plusieurs montres en une opération.
func (s *Store) AddBulk(ctx context.Context, sess *models.Session, lines []BulkLine) (models.Cart, error) {
	if len(lines) == 0 {
		return models.Cart{}, fmt.Errorf("%w: aucune montre sélectionnée", ErrValidation)
	}
	for _, line := range lines {
		if line.WatchID == "" || line.Quantity <= 0 {
			return models.Cart{}, fmt.Errorf("%w: ligne d'ajout invalide", ErrValidation)
		}
	}

	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if sess.IsAuthenticated() {
		bulk := make([]upstream.BulkItem, 0, len(lines))
		for _, line := range lines {
			bulk = append(bulk, upstream.BulkItem{ItemID: line.WatchID, Quantity: line.Quantity})
		}
		if err := s.Remote.AddItemsToCart(ctx, sess.UpstreamToken, bulk); err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				s.forceLogout(sess)
			}
			return models.Cart{}, err
		}
		return s.refetch(ctx, sess)
	}

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return models.Cart{}, err
	}
	for _, line := range lines {
		items, err = s.mergeGuestItem(ctx, items, line.WatchID, line.Quantity, line.Snapshot)
		if err != nil {
			return models.Cart{}, err
		}
	}
	if err := s.Guest.SaveGuestCart(guestKey(sess), items); err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Mode: models.CartModeGuest, Items: items}, nil
}

// UpdateQuantity change la quantité d'une ligne ; toute quantité sous 1 vaut
// suppression.
func (s *Store) UpdateQuantity(ctx context.Context, sess *models.Session, itemID string, quantity int) (models.Cart, error) {
	if itemID == "" {
		return models.Cart{}, fmt.Errorf("%w: identifiant d'article manquant", ErrValidation)
	}
	if quantity < 1 {
		return s.Remove(ctx, sess, itemID)
	}

	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if sess.IsAuthenticated() {
		if err := s.Remote.UpdateCartItem(ctx, sess.UpstreamToken, itemID, quantity); err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				s.forceLogout(sess)
			}
			return models.Cart{}, err
		}
		return s.refetch(ctx, sess)
	}

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return models.Cart{}, err
	}
	found := false
	for i := range items {
		if items[i].ID == itemID || items[i].WatchID == itemID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return models.Cart{}, fmt.Errorf("%w: article introuvable dans le panier", ErrValidation)
	}
	if err := s.Guest.SaveGuestCart(guestKey(sess), items); err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Mode: models.CartModeGuest, Items: items}, nil
}

// Remove supprime une ligne. Idempotent : retirer un article absent n'est
// pas une erreur.
func (s *Store) Remove(ctx context.Context, sess *models.Session, itemID string) (models.Cart, error) {
	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if sess.IsAuthenticated() {
		if err := s.Remote.RemoveCartItem(ctx, sess.UpstreamToken, itemID); err != nil {
			var apiErr *upstream.APIError
			switch {
			case errors.Is(err, upstream.ErrUnauthorized):
				s.forceLogout(sess)
				return models.Cart{}, err
			case errors.As(err, &apiErr) && apiErr.Status == 404:
				// Déjà absent côté serveur.
			default:
				return models.Cart{}, err
			}
		}
		return s.refetch(ctx, sess)
	}

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return models.Cart{}, err
	}
	kept := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID && item.WatchID != itemID {
			kept = append(kept, item)
		}
	}
	if err := s.Guest.SaveGuestCart(guestKey(sess), kept); err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Mode: models.CartModeGuest, Items: kept}, nil
}

// Clear vide le panier de la session.
func (s *Store) Clear(ctx context.Context, sess *models.Session) error {
	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if sess.IsAuthenticated() {
		err := s.Remote.ClearCart(ctx, sess.UpstreamToken)
		if errors.Is(err, upstream.ErrUnauthorized) {
			s.forceLogout(sess)
		}
		return err
	}
	return s.Guest.DeleteGuestCart(guestKey(sess))
}

// Reconcile rejoue le panier invité contre le panier serveur après login.
// L'échec partiel est toléré et résumé ; le cache invité n'est vidé qu'une
// fois chaque article proposé au serveur. Rejouer un cache déjà vide est un
// no-op.
func (s *Store) Reconcile(ctx context.Context, sess *models.Session) (models.ReconcileSummary, error) {
	summary := models.ReconcileSummary{}
	if !sess.IsAuthenticated() {
		return summary, fmt.Errorf("%w: session non authentifiée", ErrValidation)
	}

	mu := s.lock(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	items, err := s.Guest.GetGuestCart(guestKey(sess))
	if err != nil {
		return summary, err
	}
	if len(items) == 0 {
		return summary, nil
	}

	for _, item := range items {
		err := s.Remote.AddToCart(ctx, sess.UpstreamToken, item.WatchID, item.Quantity)
		if err != nil {
			if errors.Is(err, upstream.ErrUnauthorized) {
				s.forceLogout(sess)
				return summary, err
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", item.WatchID, err))
			continue
		}
		summary.Synced++
	}

	if err := s.Guest.DeleteGuestCart(guestKey(sess)); err != nil {
		log.Printf("❌ Erreur vidage cache invité %s: %v", guestKey(sess), err)
	}
	log.Printf("✅ Panier invité réconcilié pour %s : %d synchronisés, %d échecs", sess.ID, summary.Synced, summary.Failed)
	return summary, nil
}

// refetch relit le panier serveur après une mutation distante réussie.
func (s *Store) refetch(ctx context.Context, sess *models.Session) (models.Cart, error) {
	items, err := s.Remote.GetCart(ctx, sess.UpstreamToken)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			s.forceLogout(sess)
		}
		return models.Cart{}, err
	}
	return models.Cart{Mode: models.CartModeRemote, Items: items}, nil
}

// mergeGuestItem incrémente la quantité si la montre est déjà dans le cache,
// sinon crée la ligne (snapshot récupéré au catalogue si non fourni).
func (s *Store) mergeGuestItem(ctx context.Context, items []models.CartItem, watchID string, quantity int, snapshot *models.Watch) ([]models.CartItem, error) {
	for i := range items {
		if items[i].WatchID == watchID {
			items[i].Quantity += quantity
			return items, nil
		}
	}

	if snapshot == nil {
		watch, err := s.Remote.GetWatch(ctx, watchID)
		if err != nil {
			return nil, err
		}
		snapshot = watch
	}
	return append(items, models.CartItem{
		ID:       uuid.NewString(),
		WatchID:  watchID,
		Quantity: quantity,
		Watch:    snapshot,
	}), nil
}
