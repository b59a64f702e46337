package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleCart() Cart {
	return Cart{
		Mode: CartModeGuest,
		Items: []CartItem{
			{ID: "i1", WatchID: "w1", Quantity: 2, Watch: &Watch{ID: "w1", Price: 45000}},
			{ID: "i2", WatchID: "w2", Quantity: 1, Watch: &Watch{ID: "w2", Price: 12000}},
		},
	}
}

func TestCartTotals(t *testing.T) {
	cart := sampleCart()

	// total = somme des quantités, prix = somme des (prix × quantité)
	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, float64(45000*2+12000), cart.TotalPrice())
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := Cart{Mode: CartModeGuest}
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, float64(0), cart.TotalPrice())
}

func TestItemQuantity(t *testing.T) {
	cart := sampleCart()

	assert.Equal(t, 2, cart.ItemQuantity("w1"))
	assert.Equal(t, 0, cart.ItemQuantity("absent"))
	assert.True(t, cart.Contains("w2"))
	assert.False(t, cart.Contains("absent"))
}

func TestUnitPriceWithoutSnapshot(t *testing.T) {
	item := CartItem{ID: "i1", WatchID: "w1", Quantity: 4}
	assert.Equal(t, float64(0), item.UnitPrice())
}
