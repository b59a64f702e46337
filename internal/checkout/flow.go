// Package checkout orchestre la remise au prestataire de paiement : collecte
// des informations de livraison, initialisation, redirection vers la page de
// paiement hébergée, puis vérification au retour via la référence.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/models"
	"chrono_store_front/internal/upstream"

	qrcode "github.com/skip2/go-qrcode"
)

// PaymentGateway est la surface de paiement du service distant. Satisfaite
// par *upstream.Client.
type PaymentGateway interface {
	InitializePayment(ctx context.Context, token string, info models.DeliveryInfo) (*upstream.PaymentInit, error)
	VerifyPayment(ctx context.Context, token, reference string) (*upstream.PaymentStatus, error)
	CreateOrder(ctx context.Context, token string, req upstream.OrderRequest) (string, error)
	InitializeOrderPayment(ctx context.Context, token, orderID string) (*upstream.PaymentInit, error)
	ConfirmOrderPayment(ctx context.Context, token, orderID, reference string) error
	GetOrder(ctx context.Context, token, orderID string) (*models.Order, error)
}

// PendingStore mémorise la référence d'un paiement en cours entre la
// redirection sortante et le retour du prestataire.
type PendingStore interface {
	SavePendingPayment(sessionID string, p cache.PendingPayment) error
	GetPendingPayment(sessionID string) (*cache.PendingPayment, error)
	DeletePendingPayment(sessionID string) error
}

type Flow struct {
	Gateway PaymentGateway
	Pending PendingStore
}

func NewFlow(gateway PaymentGateway, pending PendingStore) *Flow {
	return &Flow{Gateway: gateway, Pending: pending}
}

// InitResult porte tout ce qu'il faut pour la redirection : l'URL de la page
// de paiement, la référence, et un QR code PNG de l'URL pour basculer le
// paiement sur mobile.
type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	QRCodePNG        []byte `json:"-"`
	OrderID          string `json:"order_id,omitempty"`
}

// Initialize valide la livraison puis démarre le paiement à partir du panier
// serveur. La référence est persistée AVANT de rendre l'URL de redirection :
// le contrôle ne revient ici qu'après le détour par le prestataire.
func (f *Flow) Initialize(ctx context.Context, sess *models.Session, info models.DeliveryInfo) (*InitResult, error) {
	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%w: connexion requise pour payer", ErrValidation)
	}
	if err := ValidateDeliveryInfo(info); err != nil {
		return nil, err
	}

	init, err := f.Gateway.InitializePayment(ctx, sess.UpstreamToken, info)
	if err != nil {
		return nil, err
	}

	if err := f.Pending.SavePendingPayment(sess.ID, cache.PendingPayment{Reference: init.Reference}); err != nil {
		return nil, err
	}

	log.Printf("💳 Paiement initialisé pour %s (référence %s)", sess.ID, init.Reference)
	return f.result(init, ""), nil
}

// PlaceOrder est la variante "commande puis paiement" : création de la
// commande, puis initialisation du paiement par identifiant de commande.
func (f *Flow) PlaceOrder(ctx context.Context, sess *models.Session, snapshot models.Cart, info models.DeliveryInfo, note string) (*InitResult, error) {
	if !sess.IsAuthenticated() {
		return nil, fmt.Errorf("%w: connexion requise pour commander", ErrValidation)
	}
	if err := ValidateDeliveryInfo(info); err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, fmt.Errorf("%w: panier vide", ErrValidation)
	}

	req := upstream.OrderRequest{
		ShippingAddress: map[string]string{
			"address": info.DeliveryAddress,
			"phone":   info.DeliveryPhone,
		},
		PaymentMethod: "Paystack",
		ItemsPrice:    snapshot.TotalPrice(),
		TotalPrice:    snapshot.TotalPrice(),
		OrderNote:     note,
	}
	for _, item := range snapshot.Items {
		line := models.OrderItem{
			WatchID:  item.WatchID,
			Quantity: item.Quantity,
			Price:    item.UnitPrice(),
		}
		if item.Watch != nil {
			line.Name = item.Watch.Name
			line.Image = item.Watch.Image
		}
		req.OrderItems = append(req.OrderItems, line)
	}

	orderID, err := f.Gateway.CreateOrder(ctx, sess.UpstreamToken, req)
	if err != nil {
		return nil, err
	}

	init, err := f.Gateway.InitializeOrderPayment(ctx, sess.UpstreamToken, orderID)
	if err != nil {
		return nil, err
	}

	if err := f.Pending.SavePendingPayment(sess.ID, cache.PendingPayment{Reference: init.Reference, OrderID: orderID}); err != nil {
		return nil, err
	}

	log.Printf("💳 Commande %s créée et paiement initialisé pour %s", orderID, sess.ID)
	return f.result(init, orderID), nil
}

// CallbackResult est l'issue du retour de redirection.
type CallbackResult struct {
	Settled bool          `json:"settled"`
	Order   *models.Order `json:"order,omitempty"`
	Message string        `json:"message"`
}

// HandleCallback vérifie le règlement au retour du prestataire : un seul
// appel de vérification, pas de retry. La référence en attente est consommée
// quelle que soit l'issue.
func (f *Flow) HandleCallback(ctx context.Context, sess *models.Session, reference string) (*CallbackResult, error) {
	pending, err := f.Pending.GetPendingPayment(sess.ID)
	if err != nil {
		return nil, err
	}
	if reference == "" && pending != nil {
		reference = pending.Reference
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: référence de paiement introuvable", ErrValidation)
	}

	// Consommée avant vérification : pas de seconde tentative sur la même
	// référence.
	if delErr := f.Pending.DeletePendingPayment(sess.ID); delErr != nil {
		log.Printf("❌ Erreur suppression référence en attente %s: %v", sess.ID, delErr)
	}

	if pending != nil && pending.OrderID != "" {
		if err := f.Gateway.ConfirmOrderPayment(ctx, sess.UpstreamToken, pending.OrderID, reference); err != nil {
			return f.failed(reference, err)
		}
		order, err := f.Gateway.GetOrder(ctx, sess.UpstreamToken, pending.OrderID)
		if err != nil {
			// Paiement confirmé mais snapshot indisponible : succès quand
			// même, l'écran de confirmation se contentera de l'identifiant.
			order = &models.Order{ID: pending.OrderID, Status: "paid", Reference: reference}
		}
		log.Printf("✅ Paiement confirmé pour la commande %s", pending.OrderID)
		return &CallbackResult{Settled: true, Order: order, Message: "Paiement confirmé"}, nil
	}

	status, err := f.Gateway.VerifyPayment(ctx, sess.UpstreamToken, reference)
	if err != nil {
		return f.failed(reference, err)
	}
	if !status.Settled {
		return f.failed(reference, fmt.Errorf("statut: %s", status.Status))
	}

	log.Printf("✅ Paiement %s vérifié (statut %s)", reference, status.Status)
	return &CallbackResult{Settled: true, Order: status.Order, Message: "Paiement confirmé"}, nil
}

func (f *Flow) failed(reference string, err error) (*CallbackResult, error) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		return nil, err
	}
	log.Printf("❌ Vérification du paiement %s échouée: %v", reference, err)
	return &CallbackResult{
		Settled: false,
		Message: "La vérification du paiement a échoué. Contactez le support avec votre référence: " + reference,
	}, nil
}

func (f *Flow) result(init *upstream.PaymentInit, orderID string) *InitResult {
	res := &InitResult{
		AuthorizationURL: init.AuthorizationURL,
		Reference:        init.Reference,
		OrderID:          orderID,
	}
	// QR de la page de paiement hébergée ; l'échec d'encodage n'empêche pas
	// la redirection.
	if png, err := qrcode.Encode(init.AuthorizationURL, qrcode.Medium, 256); err == nil {
		res.QRCodePNG = png
	}
	return res
}
