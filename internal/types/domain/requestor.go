package domain

import "github.com/google/uuid"

// Requestor identifies who is performing an operation. Authorization
// decisions are made from the role and the explicit capability list.
type Requestor struct {
	UserID      uuid.UUID
	Role        string
	Permissions []string
}

func (r Requestor) HasCapability(name string) bool {
	for _, p := range r.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
