package policy

import (
	"testing"

	"cartshare/internal/models"
)

func TestCanView(t *testing.T) {
	list := &models.ShoppingList{ID: 1, AuthorID: 10, SharedWith: []int64{20, 21}}
	archived := &models.ShoppingList{ID: 2, AuthorID: 10, SharedWith: []int64{20}, IsArchived: true}

	tests := []struct {
		name            string
		userID          int64
		list            *models.ShoppingList
		includeArchived bool
		want            bool
	}{
		{"author sees their list", 10, list, false, true},
		{"collaborator sees the list", 20, list, false, true},
		{"stranger does not", 30, list, false, false},
		{"archived hidden by default", 10, archived, false, false},
		{"archived visible on request", 10, archived, true, true},
		{"collaborator sees archived on request", 20, archived, true, true},
		{"stranger never sees archived", 30, archived, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.userID, tt.list, tt.includeArchived); got != tt.want {
				t.Errorf("CanView(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestCanMutateItems(t *testing.T) {
	list := &models.ShoppingList{ID: 1, AuthorID: 10, SharedWith: []int64{20}}

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"author", 10, true},
		{"collaborator", 20, true},
		{"stranger", 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateItems(tt.userID, list); got != tt.want {
				t.Errorf("CanMutateItems(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}
