package events

import (
	"context"

	"github.com/google/uuid"
)

// MembershipListener is notified after a user's team membership set
// changes. Listeners run on the mutation path and must not fail it.
type MembershipListener interface {
	MembershipChanged(ctx context.Context, userID uuid.UUID)
}

// Bus fans membership-change notifications out to registered
// listeners. Delivery is synchronous and best-effort.
type Bus struct {
	listeners []MembershipListener
}

func NewBus(listeners ...MembershipListener) *Bus {
	return &Bus{listeners: listeners}
}

func (b *Bus) MembershipChanged(ctx context.Context, userID uuid.UUID) {
	for _, l := range b.listeners {
		l.MembershipChanged(ctx, userID)
	}
}
