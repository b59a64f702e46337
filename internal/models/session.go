package models

import "time"

// Session remplace l'état de session éparpillé du front historique par un
// objet explicite : initialisé au login (ou à la première action panier pour
// un invité), détruit au logout ou sur un 401 de l'API distante.
type Session struct {
	ID            string    `json:"session_id"`
	UpstreamToken string    `json:"upstream_token,omitempty"`
	Role          string    `json:"role,omitempty"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	GuestID       string    `json:"guest_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsAuthenticated indique si la session porte un token de l'API distante.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UpstreamToken != ""
}

// IsAdmin indique si la session porte le rôle admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}
