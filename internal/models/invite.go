package models

import "time"

// Invite status values. Pending is the only state transitions fire from;
// the other three are terminal.
const (
	InviteStatusPending   = "pending"
	InviteStatusAccepted  = "accepted"
	InviteStatusDeclined  = "declined"
	InviteStatusCancelled = "cancelled"
)

// ListInvite represents an invitation for one user to collaborate on one
// shopping list. AcceptedAt is set only when the invite is accepted.
type ListInvite struct {
	ID             int64
	ShoppingListID int64
	InviterID      int64
	InviteeID      int64
	Status         string
	CreatedAt      time.Time
	AcceptedAt     *time.Time
}

// IsPending reports whether the invite can still transition.
func (i *ListInvite) IsPending() bool {
	return i.Status == InviteStatusPending
}

// IsTerminal reports whether the invite has reached a final state.
func (i *ListInvite) IsTerminal() bool {
	return !i.IsPending()
}
