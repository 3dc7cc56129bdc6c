package handlers

import (
	"net/http"

	"cartshare/internal/service"
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create adds an item to a list
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	listID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid list id"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.itemService.AddItem(listID, actor.ID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Update applies a change set to an item. Absent fields are left alone; an
// empty body is a no-op.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	itemID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item id"})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Status *string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.itemService.UpdateItem(itemID, actor.ID, service.ItemChanges{
		Name:   req.Name,
		Status: req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Delete removes an item
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	itemID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item id"})
		return
	}

	if err := h.itemService.DeleteItem(actor.ID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
