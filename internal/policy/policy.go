// Package policy holds the ownership rule applied before every
// resource-scoped mutation. It is a pure function of the actor and the
// resource owner, independent of the HTTP layer.
package policy

import "ngplus/api/internal/models"

// Actor is the authenticated principal performing a request.
type Actor struct {
	ID          string
	Username    string
	AccountType models.AccountType
}

func (a Actor) IsAdmin() bool {
	return a.AccountType == models.AccountTypeAdmin
}

// CanModify reports whether the actor may mutate a resource owned by ownerID.
// Admins may mutate anything; everyone else only their own resources.
func CanModify(actor Actor, ownerID string) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}
