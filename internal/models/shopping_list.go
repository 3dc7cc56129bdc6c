package models

import "time"

// ShoppingList represents a list owned by one user and optionally shared
// with collaborators. SharedWith holds collaborator user IDs and is loaded
// by the repository when the full list is fetched; summary queries leave it
// nil.
type ShoppingList struct {
	ID         int64
	AuthorID   int64
	Name       string
	IsArchived bool
	CreatedAt  time.Time
	SharedWith []int64
}

// IsOwner reports whether userID is the list's author.
func (l *ShoppingList) IsOwner(userID int64) bool {
	return l.AuthorID == userID
}

// IsCollaborator reports whether userID is in the list's shared_with set.
// The author is never a collaborator.
func (l *ShoppingList) IsCollaborator(userID int64) bool {
	for _, id := range l.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}
