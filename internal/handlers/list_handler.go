package handlers

import (
	"net/http"
	"strconv"

	"cartshare/internal/service"
)

// ListHandler handles shopping list HTTP requests
type ListHandler struct {
	listService *service.ListService
	itemService *service.ItemService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService, itemService *service.ItemService) *ListHandler {
	return &ListHandler{
		listService: listService,
		itemService: itemService,
	}
}

// Index returns the actor's visible lists
func (h *ListHandler) Index(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	lists, err := h.listService.VisibleLists(actor.ID, includeArchived)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]listResponse, 0, len(lists))
	for i := range lists {
		resp = append(resp, toListResponse(&lists[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create creates a new list owned by the actor
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	list, err := h.listService.CreateList(actor.ID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListResponse(list))
}

// Show returns one list with its items, if the actor may view it
func (h *ListHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	listID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid list id"})
		return
	}

	list, err := h.listService.GetList(listID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items, err := h.itemService.ItemsForList(list.ID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	itemResp := make([]itemResponse, 0, len(items))
	for i := range items {
		itemResp = append(itemResp, toItemResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		List  listResponse   `json:"list"`
		Items []itemResponse `json:"items"`
	}{toListResponse(list), itemResp})
}

// Archive marks a list archived
func (h *ListHandler) Archive(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	listID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid list id"})
		return
	}

	list, err := h.listService.ArchiveList(listID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(list))
}

// Delete removes a list and everything it owns
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	listID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid list id"})
		return
	}

	if err := h.listService.DeleteList(listID, actor.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// pathID parses a numeric path value
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
