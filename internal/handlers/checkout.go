package handlers

import (
	"encoding/base64"
	"net/http"

	"chrono_store_front/internal/middleware"
	"chrono_store_front/internal/models"

	"github.com/gin-gonic/gin"
)

// ================== CHECKOUT / PAIEMENT ==================

//
// 💳 POST /api/cart/initialize-payment
//
func InitializePayment(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var info models.DeliveryInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	result, err := Checkout.Initialize(c.Request.Context(), sess, info)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"authorization_url": result.AuthorizationURL,
			"reference":         result.Reference,
			"qr_png":            base64.StdEncoding.EncodeToString(result.QRCodePNG),
		},
	})
}

//
// 💳 POST /api/checkout/order — variante commande puis paiement
//
func PlaceOrder(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var input struct {
		DeliveryAddress string `json:"deliveryAddress"`
		DeliveryPhone   string `json:"deliveryPhone"`
		OrderNote       string `json:"orderNote"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	// Snapshot du panier courant pour construire la commande.
	snapshot, err := CartStore.Fetch(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	info := models.DeliveryInfo{DeliveryAddress: input.DeliveryAddress, DeliveryPhone: input.DeliveryPhone}
	result, err := Checkout.PlaceOrder(c.Request.Context(), sess, snapshot, info, input.OrderNote)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"authorization_url": result.AuthorizationURL,
			"reference":         result.Reference,
			"order_id":          result.OrderID,
			"qr_png":            base64.StdEncoding.EncodeToString(result.QRCodePNG),
		},
	})
}

//
// 💳 GET /api/checkout/callback?reference= — retour du prestataire
//
func PaymentCallback(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	result, err := Checkout.HandleCallback(c.Request.Context(), sess, c.Query("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Settled {
		// Échec de vérification : retour panier, message support, pas de
		// nouvelle tentative automatique.
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"message":  result.Message,
			"redirect": FrontendURL + "/cart",
		})
		return
	}

	resp := gin.H{
		"success":  true,
		"message":  result.Message,
		"redirect": FrontendURL + "/order-success",
	}
	if result.Order != nil {
		resp["data"] = result.Order
		resp["redirect"] = FrontendURL + "/order-success/" + result.Order.ID
	}
	c.JSON(http.StatusOK, resp)
}

//
// 🟢 GET /api/orders/:id — snapshot pour l'écran de confirmation
//
func GetOrder(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	order, err := Upstream.GetOrder(c.Request.Context(), sess.UpstreamToken, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}
