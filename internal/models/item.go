package models

import "time"

// Item status values.
const (
	ItemStatusNeed    = "need"
	ItemStatusWillBuy = "will_buy"
	ItemStatusBought  = "bought"
)

// Item represents a single entry on a shopping list. AddedBy is nil when the
// adding user's account has since been removed.
type Item struct {
	ID             int64
	ShoppingListID int64
	Name           string
	Status         string
	AddedBy        *int64
	CreatedAt      time.Time
}

// AddedByUser reports whether userID is the user who added this item.
func (i *Item) AddedByUser(userID int64) bool {
	return i.AddedBy != nil && *i.AddedBy == userID
}

// ValidItemStatus reports whether s is one of the item status values.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusNeed, ItemStatusWillBuy, ItemStatusBought:
		return true
	}
	return false
}
