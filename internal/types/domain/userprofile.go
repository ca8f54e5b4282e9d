package domain

import (
	"github.com/google/uuid"
	"time"
)

type UserProfile struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Role        string
	Permissions []string
	IsActive    bool
	Teams       []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
