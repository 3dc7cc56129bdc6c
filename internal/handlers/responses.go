package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"cartshare/internal/models"
)

type listResponse struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	SharedWith []int64   `json:"shared_with,omitempty"`
}

type itemResponse struct {
	ID             int64     `json:"id"`
	ShoppingListID int64     `json:"shopping_list_id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	AddedBy        *int64    `json:"added_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type inviteResponse struct {
	ID             int64      `json:"id"`
	ShoppingListID int64      `json:"shopping_list_id"`
	InviterID      int64      `json:"inviter_id"`
	InviteeID      int64      `json:"invitee_id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
}

func toListResponse(l *models.ShoppingList) listResponse {
	return listResponse{
		ID:         l.ID,
		AuthorID:   l.AuthorID,
		Name:       l.Name,
		IsArchived: l.IsArchived,
		CreatedAt:  l.CreatedAt,
		SharedWith: l.SharedWith,
	}
}

func toItemResponse(i *models.Item) itemResponse {
	return itemResponse{
		ID:             i.ID,
		ShoppingListID: i.ShoppingListID,
		Name:           i.Name,
		Status:         i.Status,
		AddedBy:        i.AddedBy,
		CreatedAt:      i.CreatedAt,
	}
}

func toInviteResponse(inv *models.ListInvite) inviteResponse {
	return inviteResponse{
		ID:             inv.ID,
		ShoppingListID: inv.ShoppingListID,
		InviterID:      inv.InviterID,
		InviteeID:      inv.InviteeID,
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt,
		AcceptedAt:     inv.AcceptedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
