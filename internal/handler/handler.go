package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"inspectnet/internal/codec"
	"inspectnet/internal/domain"
	"inspectnet/internal/service"
)

// SettingsHandler handles settings API requests
type SettingsHandler struct {
	svc *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreatedResponse is returned after an add
type CreatedResponse struct {
	ID string `json:"id"`
}

// AddItemTypeRequest selects the group a new item type joins
type AddItemTypeRequest struct {
	Inspected bool `json:"inspected"`
}

// Register adds the settings routes to mux
func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/settings", h.GetSettings)
	mux.HandleFunc("PUT /api/settings", h.ReplaceSettings)
	mux.HandleFunc("GET /api/validation", h.GetValidation)
	mux.HandleFunc("GET /api/database", h.GetDatabase)

	mux.HandleFunc("POST /api/item-types", h.AddItemType)
	mux.HandleFunc("PUT /api/item-types/{id}", h.UpdateItemType)
	mux.HandleFunc("DELETE /api/item-types/{id}", h.RemoveItemType)
	mux.HandleFunc("POST /api/item-types/{id}/components", h.AddComponent)
	mux.HandleFunc("PUT /api/components/{id}", h.UpdateComponent)
	mux.HandleFunc("DELETE /api/components/{id}", h.RemoveComponent)

	mux.HandleFunc("POST /api/collections", h.AddCollection)
	mux.HandleFunc("PUT /api/collections/{id}", h.UpdateCollection)
	mux.HandleFunc("DELETE /api/collections/{id}", h.RemoveCollection)
	mux.HandleFunc("POST /api/collections/{id}/items", h.AddItem)
	mux.HandleFunc("PUT /api/items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.RemoveItem)

	mux.HandleFunc("POST /api/import/{format}", h.Import)
	mux.HandleFunc("GET /api/export/{format}", h.Export)
}

// GetSettings returns the settings tree
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Settings(), http.StatusOK)
}

// ReplaceSettings saves a whole settings tree
func (h *SettingsHandler) ReplaceSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Replace(r.Context(), settings); err != nil {
		h.writeServiceError(w, "Failed to save settings", err)
		return
	}

	h.writeJSON(w, h.svc.Validate(), http.StatusOK)
}

// GetValidation returns the current diagnostics
func (h *SettingsHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Validate(), http.StatusOK)
}

// GetDatabase returns the normalized form that is persisted
func (h *SettingsHandler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Database(), http.StatusOK)
}

// AddItemType creates an item type
func (h *SettingsHandler) AddItemType(w http.ResponseWriter, r *http.Request) {
	var req AddItemTypeRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	id, err := h.svc.AddItemType(r.Context(), req.Inspected)
	if err != nil {
		h.writeServiceError(w, "Failed to add item type", err)
		return
	}

	h.writeJSON(w, CreatedResponse{ID: id}, http.StatusCreated)
}

// UpdateItemType updates an item type
func (h *SettingsHandler) UpdateItemType(w http.ResponseWriter, r *http.Request) {
	var patch service.ItemTypePatch
	if !h.decode(w, r, &patch) {
		return
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		h.writeError(w, "Invalid kind", string(*patch.Kind), http.StatusBadRequest)
		return
	}

	h.reply(w, "Failed to update item type", h.svc.UpdateItemType(r.Context(), r.PathValue("id"), patch))
}

// RemoveItemType deletes an item type
func (h *SettingsHandler) RemoveItemType(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "Failed to remove item type", h.svc.RemoveItemType(r.Context(), r.PathValue("id")))
}

// AddComponent creates a component on an inspected item type
func (h *SettingsHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.AddComponent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to add component", err)
		return
	}

	h.writeJSON(w, CreatedResponse{ID: id}, http.StatusCreated)
}

// UpdateComponent updates a component
func (h *SettingsHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var patch service.ComponentPatch
	if !h.decode(w, r, &patch) {
		return
	}

	h.reply(w, "Failed to update component", h.svc.UpdateComponent(r.Context(), r.PathValue("id"), patch))
}

// RemoveComponent deletes a component
func (h *SettingsHandler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "Failed to remove component", h.svc.RemoveComponent(r.Context(), r.PathValue("id")))
}

// AddCollection creates a collection
func (h *SettingsHandler) AddCollection(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.AddCollection(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to add collection", err)
		return
	}

	h.writeJSON(w, CreatedResponse{ID: id}, http.StatusCreated)
}

// UpdateCollection updates a collection
func (h *SettingsHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var patch service.CollectionPatch
	if !h.decode(w, r, &patch) {
		return
	}

	h.reply(w, "Failed to update collection", h.svc.UpdateCollection(r.Context(), r.PathValue("id"), patch))
}

// RemoveCollection deletes a collection and its items
func (h *SettingsHandler) RemoveCollection(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "Failed to remove collection", h.svc.RemoveCollection(r.Context(), r.PathValue("id")))
}

// AddItem creates an item in a collection
func (h *SettingsHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.AddItem(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to add item", err)
		return
	}

	h.writeJSON(w, CreatedResponse{ID: id}, http.StatusCreated)
}

// UpdateItem updates an item
func (h *SettingsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch service.ItemPatch
	if !h.decode(w, r, &patch) {
		return
	}

	h.reply(w, "Failed to update item", h.svc.UpdateItem(r.Context(), r.PathValue("id"), patch))
}

// RemoveItem deletes an item
func (h *SettingsHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "Failed to remove item", h.svc.RemoveItem(r.Context(), r.PathValue("id")))
}

// Import replaces the settings with an uploaded document
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	if _, err := codec.Lookup(format); err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Import(r.Context(), format, r.Body); err != nil {
		h.writeServiceError(w, "Failed to import settings", err)
		return
	}

	h.writeJSON(w, h.svc.Validate(), http.StatusOK)
}

// Export downloads the settings in the requested format
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	if _, err := codec.Lookup(format); err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	contentType := "application/json"
	if format != "json" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=inspection-settings."+format)

	if err := h.svc.Export(format, w); err != nil {
		log.Printf("Failed to export %s: %v", format, err)
	}
}

// Helper methods

func (h *SettingsHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// decodeOptional accepts an empty body
func (h *SettingsHandler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.ContentLength == 0 {
		return true
	}
	return h.decode(w, r, v)
}

// reply writes 204 after a successful edit, or the error
func (h *SettingsHandler) reply(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		h.writeServiceError(w, msg, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrItemTypeLimit):
		h.writeError(w, "Limit reached", err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidDocument):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: %v", msg, err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func (h *SettingsHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *SettingsHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: strings.TrimSpace(details),
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
