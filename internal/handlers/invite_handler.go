package handlers

import (
	"net/http"

	"cartshare/internal/models"
	"cartshare/internal/service"
)

// InviteHandler handles invite HTTP requests
type InviteHandler struct {
	inviteService *service.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Index returns the actor's invites. Pending only by default; ?all=true
// includes resolved invites.
func (h *InviteHandler) Index(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	pendingOnly := r.URL.Query().Get("all") != "true"

	invites, err := h.inviteService.VisibleInvites(actor.ID, pendingOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		resp = append(resp, toInviteResponse(&invites[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create sends an invite for a list to another user
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	listID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid list id"})
		return
	}

	var req struct {
		InviteeID int64 `json:"invitee_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	invite, err := h.inviteService.SendInvite(listID, actor.ID, req.InviteeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInviteResponse(invite))
}

// Accept accepts a pending invite
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.inviteService.AcceptInvite)
}

// Decline declines a pending invite
func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.inviteService.DeclineInvite)
}

// Cancel cancels a pending invite
func (h *InviteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.inviteService.CancelInvite)
}

func (h *InviteHandler) transition(w http.ResponseWriter, r *http.Request, fn func(inviteID, actorID int64) (*models.ListInvite, error)) {
	actor := GetActorFromContext(r.Context())
	inviteID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid invite id"})
		return
	}

	invite, err := fn(inviteID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInviteResponse(invite))
}
