package domain

import (
	"github.com/google/uuid"
	"time"
)

type WBS struct {
	ID               uuid.UUID
	ProjectID        uuid.UUID
	WBSName          string
	IsActive         bool
	CreatedDatetime  time.Time
	ModifiedDatetime time.Time
}
