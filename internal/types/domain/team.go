package domain

import (
	"github.com/google/uuid"
	"time"
)

type Team struct {
	ID               uuid.UUID
	TeamName         string
	IsActive         bool
	TeamCode         string
	Members          []Membership
	CreatedDatetime  time.Time
	ModifiedDatetime time.Time
}

// Membership is the embedded record linking a team to a user profile.
// The visible flag controls whether the team appears in that member's
// own profile view.
type Membership struct {
	UserID      uuid.UUID
	AddDateTime time.Time
	Visible     bool
}

// MemberProfile is the composite membership view: the join date merged
// with the member's profile fields.
type MemberProfile struct {
	UserID      uuid.UUID
	AddDateTime time.Time
	FirstName   string
	LastName    string
	Email       string
	Role        string
	IsActive    bool
}
