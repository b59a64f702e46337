package handlers

import (
	"testing"

	"chrono_store_front/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleWatches() []models.Watch {
	return []models.Watch{
		{ID: "w1", Name: "Submariner", Brand: "Rolex", Type: "luxury", Price: 45000, Description: "Montre de plongée iconique"},
		{ID: "w2", Name: "G-Shock", Brand: "Casio", Type: "casual", Price: 150, Description: "Incassable"},
		{ID: "w3", Name: "Speedmaster", Brand: "Omega", Type: "luxury", Price: 6500, Description: "La montre de la Lune"},
	}
}

func TestFilterWatches(t *testing.T) {
	watches := sampleWatches()

	tests := []struct {
		name  string
		query string
		ids   []string
	}{
		{"par nom", "submariner", []string{"w1"}},
		{"par marque", "casio", []string{"w2"}},
		{"par type", "luxury", []string{"w1", "w3"}},
		{"par description", "lune", []string{"w3"}},
		{"par prix", "6500", []string{"w3"}},
		{"insensible à la casse", "ROLEX", []string{"w1"}},
		{"sous-chaîne", "master", []string{"w3"}},
		{"espaces ignorés", "  omega  ", []string{"w3"}},
		{"aucun résultat", "patek", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterWatches(watches, tt.query)
			ids := make([]string, 0, len(got))
			for _, w := range got {
				ids = append(ids, w.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestFilterWatchesEmptyQueryReturnsAll(t *testing.T) {
	watches := sampleWatches()
	assert.Equal(t, watches, FilterWatches(watches, ""))
	assert.Equal(t, watches, FilterWatches(watches, "   "))
}
