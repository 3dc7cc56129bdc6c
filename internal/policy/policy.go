// Package policy holds the pure authorization predicates shared by the
// services. Predicates only inspect already-loaded entities; they never
// touch the store.
package policy

import "cartshare/internal/models"

// CanView reports whether userID may see the list: the author and current
// collaborators may. Archived lists are hidden unless the caller asks for
// them.
func CanView(userID int64, list *models.ShoppingList, includeArchived bool) bool {
	if list.IsArchived && !includeArchived {
		return false
	}
	return list.IsOwner(userID) || list.IsCollaborator(userID)
}

// CanMutateItems reports whether userID may add, update or delete items on
// the list. The archived check belongs to the item service, not here: an
// archived list still fails item mutation, but through a state failure
// rather than a permission one.
func CanMutateItems(userID int64, list *models.ShoppingList) bool {
	return list.IsOwner(userID) || list.IsCollaborator(userID)
}
