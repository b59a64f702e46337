// Package handlers expose la boutique en HTTP : catalogue, panier, checkout,
// panneau admin et authentification, tous adossés au service distant.
package handlers

import (
	"errors"
	"net/http"

	"chrono_store_front/internal/cart"
	"chrono_store_front/internal/checkout"
	"chrono_store_front/internal/upstream"

	"github.com/gin-gonic/gin"
)

var (
	Upstream    *upstream.Client
	CartStore   *cart.Store
	Checkout    *checkout.Flow
	FrontendURL string
)

// Init câble les dépendances partagées des handlers.
func Init(client *upstream.Client, store *cart.Store, flow *checkout.Flow, frontendURL string) {
	Upstream = client
	CartStore = store
	Checkout = flow
	FrontendURL = frontendURL
}

// respondError applique la politique d'erreur de la boutique : tout est
// rattrapé au point d'appel, rien n'est fatal, le pire cas est une action
// échouée avec un message.
func respondError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	switch {
	case errors.Is(err, cart.ErrValidation) || errors.Is(err, checkout.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, upstream.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Session expirée, reconnectez-vous"})
	case errors.Is(err, upstream.ErrUpstreamDown):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Service momentanément indisponible, réessayez"})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		// Message métier du service distant transmis tel quel.
		c.JSON(status, gin.H{"success": false, "message": apiErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Une erreur inattendue est survenue"})
	}
}
