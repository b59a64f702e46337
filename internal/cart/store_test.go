package cart

import (
	"context"
	"fmt"
	"testing"

	"chrono_store_front/internal/models"
	"chrono_store_front/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Doublures ---

type fakeRemote struct {
	watches  map[string]*models.Watch
	server   []models.CartItem
	addErr   error
	failAdds map[string]error // erreurs d'ajout par montre (réconciliation)

	addCalls int
	getCalls int
}

func (f *fakeRemote) GetCart(_ context.Context, token string) ([]models.CartItem, error) {
	f.getCalls++
	if token == "expired" {
		return nil, upstream.ErrUnauthorized
	}
	return f.server, nil
}

func (f *fakeRemote) AddToCart(_ context.Context, token, watchID string, quantity int) error {
	f.addCalls++
	if token == "expired" {
		return upstream.ErrUnauthorized
	}
	if f.addErr != nil {
		return f.addErr
	}
	if err, ok := f.failAdds[watchID]; ok {
		return err
	}
	f.server = append(f.server, models.CartItem{ID: "srv-" + watchID, WatchID: watchID, Quantity: quantity})
	return nil
}

func (f *fakeRemote) AddItemsToCart(ctx context.Context, token string, items []upstream.BulkItem) error {
	for _, item := range items {
		if err := f.AddToCart(ctx, token, item.ItemID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRemote) UpdateCartItem(_ context.Context, token, itemID string, quantity int) error {
	if token == "expired" {
		return upstream.ErrUnauthorized
	}
	for i := range f.server {
		if f.server[i].ID == itemID {
			f.server[i].Quantity = quantity
			return nil
		}
	}
	return &upstream.APIError{Status: 404, Message: "Article introuvable"}
}

func (f *fakeRemote) RemoveCartItem(_ context.Context, token, itemID string) error {
	if token == "expired" {
		return upstream.ErrUnauthorized
	}
	kept := f.server[:0]
	found := false
	for _, item := range f.server {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	f.server = kept
	if !found {
		return &upstream.APIError{Status: 404, Message: "Article introuvable"}
	}
	return nil
}

func (f *fakeRemote) ClearCart(_ context.Context, token string) error {
	f.server = nil
	return nil
}

func (f *fakeRemote) GetWatch(_ context.Context, id string) (*models.Watch, error) {
	if w, ok := f.watches[id]; ok {
		return w, nil
	}
	return nil, &upstream.APIError{Status: 404, Message: "Montre introuvable"}
}

type memGuestStore struct {
	carts map[string][]models.CartItem
}

func newMemGuestStore() *memGuestStore {
	return &memGuestStore{carts: map[string][]models.CartItem{}}
}

func (m *memGuestStore) GetGuestCart(guestID string) ([]models.CartItem, error) {
	items := m.carts[guestID]
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *memGuestStore) SaveGuestCart(guestID string, items []models.CartItem) error {
	m.carts[guestID] = items
	return nil
}

func (m *memGuestStore) DeleteGuestCart(guestID string) error {
	delete(m.carts, guestID)
	return nil
}

type fakeSessions struct {
	invalidated []string
}

func (f *fakeSessions) Invalidate(sessionID string) error {
	f.invalidated = append(f.invalidated, sessionID)
	return nil
}

func newTestStore(remote *fakeRemote) (*Store, *memGuestStore, *fakeSessions) {
	guest := newMemGuestStore()
	sessions := &fakeSessions{}
	return NewStore(remote, guest, sessions), guest, sessions
}

func guestSession() *models.Session {
	return &models.Session{ID: "sess-1", GuestID: "guest-1"}
}

func authSession() *models.Session {
	return &models.Session{ID: "sess-2", GuestID: "guest-2", UpstreamToken: "tok", Role: "user"}
}

var submariner = &models.Watch{ID: "p1", Name: "Rolex Submariner", Brand: "Rolex", Price: 45000}

// --- Mode invité ---

func TestGuestAddMergesSameWatch(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	_, err := store.Add(context.Background(), sess, "p1", 1, submariner)
	require.NoError(t, err)
	cart, err := store.Add(context.Background(), sess, "p1", 1, submariner)
	require.NoError(t, err)

	// Deux ajouts de la même montre = une seule ligne, quantités additionnées
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(90000), cart.TotalPrice())
}

func TestGuestUpdateQuantityScenario(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	cart, err := store.Add(context.Background(), sess, "p1", 1, submariner)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = store.UpdateQuantity(context.Background(), sess, itemID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(90000), cart.TotalPrice())
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	cart, err := store.Add(context.Background(), sess, "p1", 2, submariner)
	require.NoError(t, err)

	cart, err = store.UpdateQuantity(context.Background(), sess, cart.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGuestRemoveIsIdempotent(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	cart, err := store.Remove(context.Background(), sess, "jamais-vu")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGuestAddFetchesSnapshotWhenMissing(t *testing.T) {
	remote := &fakeRemote{watches: map[string]*models.Watch{"p1": submariner}}
	store, _, _ := newTestStore(remote)
	sess := guestSession()

	cart, err := store.Add(context.Background(), sess, "p1", 1, nil)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, float64(45000), cart.Items[0].UnitPrice())
}

func TestAddRejectsInvalidInputWithoutIO(t *testing.T) {
	remote := &fakeRemote{}
	store, _, _ := newTestStore(remote)

	_, err := store.Add(context.Background(), guestSession(), "p1", 0, submariner)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.Add(context.Background(), authSession(), "", 1, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, remote.addCalls)
}

func TestGuestBulkAdd(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	cart, err := store.AddBulk(context.Background(), sess, []BulkLine{
		{WatchID: "p1", Quantity: 1, Snapshot: submariner},
		{WatchID: "p1", Quantity: 2, Snapshot: submariner},
		{WatchID: "p2", Quantity: 1, Snapshot: &models.Watch{ID: "p2", Price: 12000}},
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.ItemQuantity("p1"))
	assert.Equal(t, 4, cart.TotalItems())
}

// --- Mode distant ---

func TestRemoteAddRefetchesServerView(t *testing.T) {
	remote := &fakeRemote{}
	store, _, _ := newTestStore(remote)
	sess := authSession()

	cart, err := store.Add(context.Background(), sess, "p1", 2, nil)
	require.NoError(t, err)

	assert.Equal(t, models.CartModeRemote, cart.Mode)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "srv-p1", cart.Items[0].ID)
	// L'ajout distant est toujours suivi d'un re-fetch complet
	assert.Equal(t, 1, remote.getCalls)
}

func TestRemoteRemoveAbsentIsSuccess(t *testing.T) {
	remote := &fakeRemote{}
	store, _, _ := newTestStore(remote)

	_, err := store.Remove(context.Background(), authSession(), "absent")
	assert.NoError(t, err)
}

func TestUnauthorizedPurgesCredential(t *testing.T) {
	remote := &fakeRemote{}
	store, _, sessions := newTestStore(remote)
	sess := &models.Session{ID: "sess-3", GuestID: "guest-3", UpstreamToken: "expired", Role: "user"}

	_, err := store.Add(context.Background(), sess, "p1", 1, nil)
	require.ErrorIs(t, err, upstream.ErrUnauthorized)

	// Credential purgé, session invalidée, lecture suivante = panier vide
	assert.Equal(t, []string{"sess-3"}, sessions.invalidated)
	assert.False(t, sess.IsAuthenticated())

	cart, err := store.Fetch(context.Background(), sess)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// --- Réconciliation ---

func TestReconcilePartialFailure(t *testing.T) {
	remote := &fakeRemote{failAdds: map[string]error{
		"p2": &upstream.APIError{Status: 400, Message: "Stock insuffisant"},
	}}
	store, guest, _ := newTestStore(remote)
	sess := authSession()

	guest.SaveGuestCart("guest-2", []models.CartItem{
		{ID: "i1", WatchID: "p1", Quantity: 1, Watch: submariner},
		{ID: "i2", WatchID: "p2", Quantity: 2},
		{ID: "i3", WatchID: "p3", Quantity: 1},
	})

	summary, err := store.Reconcile(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Synced)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Stock insuffisant")

	// Le cache invité est vidé une fois chaque article proposé au serveur
	items, _ := guest.GetGuestCart("guest-2")
	assert.Empty(t, items)
}

func TestReconcileEmptyCacheIsNoop(t *testing.T) {
	remote := &fakeRemote{}
	store, _, _ := newTestStore(remote)

	summary, err := store.Reconcile(context.Background(), authSession())
	require.NoError(t, err)

	assert.Zero(t, summary.Synced)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, remote.addCalls)
}

func TestReconcileRequiresAuthentication(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})

	_, err := store.Reconcile(context.Background(), guestSession())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReconcileIsIdempotent(t *testing.T) {
	remote := &fakeRemote{}
	store, guest, _ := newTestStore(remote)
	sess := authSession()

	guest.SaveGuestCart("guest-2", []models.CartItem{
		{ID: "i1", WatchID: "p1", Quantity: 1, Watch: submariner},
	})

	first, err := store.Reconcile(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Synced)

	// Rejouer sur un cache déjà vidé ne change plus rien
	second, err := store.Reconcile(context.Background(), sess)
	require.NoError(t, err)
	assert.Zero(t, second.Synced)
	assert.Equal(t, 1, remote.addCalls)
}

func TestFetchWithoutSessionIsEmptyGuestCart(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})

	cart, err := store.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.CartModeGuest, cart.Mode)
	assert.Empty(t, cart.Items)
}

// Propriété : pour toute séquence d'ajouts invités, les totaux restent la
// somme des quantités et des sous-totaux.
func TestGuestTotalsInvariant(t *testing.T) {
	store, _, _ := newTestStore(&fakeRemote{})
	sess := guestSession()

	prices := map[string]float64{"p1": 45000, "p2": 12000, "p3": 700}
	adds := []struct {
		id  string
		qty int
	}{{"p1", 1}, {"p2", 3}, {"p1", 2}, {"p3", 5}, {"p2", 1}}

	wantCount := 0
	var wantTotal float64
	var cart models.Cart
	for _, add := range adds {
		snapshot := &models.Watch{ID: add.id, Price: prices[add.id]}
		var err error
		cart, err = store.Add(context.Background(), sess, add.id, add.qty, snapshot)
		require.NoError(t, err)

		wantCount += add.qty
		wantTotal += prices[add.id] * float64(add.qty)
		assert.Equal(t, wantCount, cart.TotalItems(), fmt.Sprintf("après ajout %s x%d", add.id, add.qty))
		assert.Equal(t, wantTotal, cart.TotalPrice())
	}
	// Fusion par montre : au plus une ligne par identifiant
	assert.Len(t, cart.Items, 3)
}
