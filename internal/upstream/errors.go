package upstream

import (
	"errors"
	"fmt"
)

// Taxonomie des erreurs côté client HTTP :
//   - ErrUpstreamDown : aucune réponse reçue (réseau, timeout)
//   - ErrUnauthorized : 401 — le credential doit être purgé
//   - APIError        : erreur métier renvoyée par le service distant
var (
	ErrUpstreamDown = errors.New("service distant injoignable")
	ErrUnauthorized = errors.New("session expirée ou invalide")
)

// APIError transporte le message métier du service distant tel quel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("erreur API distante (HTTP %d)", e.Status)
}

// IsNetwork indique si l'erreur correspond à une absence de réponse.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrUpstreamDown)
}
