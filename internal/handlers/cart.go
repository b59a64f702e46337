package handlers

import (
	"net/http"

	"chrono_store_front/internal/cache"
	cartstore "chrono_store_front/internal/cart"
	"chrono_store_front/internal/middleware"
	"chrono_store_front/internal/models"
	"chrono_store_front/internal/session"

	"github.com/gin-gonic/gin"
)

// ensureSession retourne la session courante, ou crée une session invitée à
// la première action panier. Le JWT fraîchement émis est alors renvoyé dans
// la réponse pour que le client le conserve.
func ensureSession(c *gin.Context) (*models.Session, string, bool) {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess, "", true
	}

	sess, err := session.NewGuest()
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	token, err := session.IssueToken(sess)
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	return sess, token, true
}

func cartResponse(cart models.Cart, message, newToken string) gin.H {
	resp := gin.H{
		"success": true,
		"mode":    cart.Mode,
		"items":   cart.Items,
		"total":   cart.TotalPrice(),
		"count":   cart.TotalItems(),
	}
	if message != "" {
		resp["message"] = message
	}
	if newToken != "" {
		resp["token"] = newToken
	}
	return resp
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	cart, err := CartStore.Fetch(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart, "", ""))
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	sess, newToken, ok := ensureSession(c)
	if !ok {
		return
	}

	var input struct {
		WatchID  string        `json:"watchId"`
		Quantity int           `json:"quantity"`
		Watch    *models.Watch `json:"watch"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	cart, err := CartStore.Add(c.Request.Context(), sess, input.WatchID, input.Quantity, input.Watch)
	if err != nil {
		respondError(c, err)
		return
	}

	cache.PublishCartEvent(sess.ID, "updated")
	c.JSON(http.StatusOK, cartResponse(cart, "Montre ajoutée au panier", newToken))
}

//
// 🟢 POST /api/cart/addItemToCart
//
func AddItemsToCart(c *gin.Context) {
	sess, newToken, ok := ensureSession(c)
	if !ok {
		return
	}

	var input struct {
		CartedItems []struct {
			ItemID   string        `json:"itemId"`
			Quantity int           `json:"quantity"`
			Watch    *models.Watch `json:"watch"`
		} `json:"cartedItems"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	lines := make([]cartstore.BulkLine, 0, len(input.CartedItems))
	for _, item := range input.CartedItems {
		lines = append(lines, cartstore.BulkLine{
			WatchID:  item.ItemID,
			Quantity: item.Quantity,
			Snapshot: item.Watch,
		})
	}

	cart, err := CartStore.AddBulk(c.Request.Context(), sess, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	cache.PublishCartEvent(sess.ID, "updated")
	c.JSON(http.StatusOK, cartResponse(cart, "Montres ajoutées au panier", newToken))
}

//
// 🟢 PUT /api/cart/update
//
func UpdateCartItem(c *gin.Context) {
	sess, newToken, ok := ensureSession(c)
	if !ok {
		return
	}

	var input struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	cart, err := CartStore.UpdateQuantity(c.Request.Context(), sess, input.ItemID, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	cache.PublishCartEvent(sess.ID, "updated")
	c.JSON(http.StatusOK, cartResponse(cart, "Panier mis à jour", newToken))
}

//
// ❌ DELETE /api/cart/remove/:itemId
//
func RemoveFromCart(c *gin.Context) {
	sess, newToken, ok := ensureSession(c)
	if !ok {
		return
	}

	cart, err := CartStore.Remove(c.Request.Context(), sess, c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}

	cache.PublishCartEvent(sess.ID, "updated")
	c.JSON(http.StatusOK, cartResponse(cart, "Montre retirée du panier", newToken))
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	sess, _, ok := ensureSession(c)
	if !ok {
		return
	}

	if err := CartStore.Clear(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	cache.PublishCartEvent(sess.ID, "cleared")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Panier vidé avec succès"})
}
