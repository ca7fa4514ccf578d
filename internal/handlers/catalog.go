// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	responder
	service ports.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service ports.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		responder: responder{logger: logger.With(slog.String("handler", "category"))},
		service:   service,
	}
}

// CategoryRequest is the body of POST /category and PUT /category/{id}
type CategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	c := &domain.Category{Name: req.Name}
	if err := h.service.Create(ctx, c); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/category/"+c.ID.String())
	h.respondText(w, http.StatusOK, "Category added successfully.")
}

// UpdateCategory handles PUT /category/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.Rename(ctx, id, req.Name); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Category updated successfully.")
}

// DeleteCategory handles DELETE /category/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Category deleted successfully.")
}

// ListCategories handles GET /category
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.service.List(ctx)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}

	h.respondJSON(w, http.StatusOK, categories)
}

// PharmacyHandler handles pharmacy requests and the categories a pharmacy
// carries
type PharmacyHandler struct {
	responder
	service ports.PharmacyService
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(service ports.PharmacyService, logger *slog.Logger) *PharmacyHandler {
	return &PharmacyHandler{
		responder: responder{logger: logger.With(slog.String("handler", "pharmacy"))},
		service:   service,
	}
}

// PharmacyRequest is the body of POST /pharmacy and PUT /pharmacy/{id}.
// A missing user_id defaults to the caller.
type PharmacyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	UserID   string `json:"user_id,omitempty"`
}

// PharmacyCategoryRequest is the body of the pharmacy category endpoints
type PharmacyCategoryRequest struct {
	CategoryID    string `json:"category_id,omitempty"`
	NewCategoryID string `json:"new_category_id,omitempty"`
}

func (h *PharmacyHandler) toPharmacy(r *http.Request, req *PharmacyRequest) (*domain.Pharmacy, error) {
	userID, err := optionalID(req.UserID, "user")
	if err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		userID, _ = middleware.UserID(r.Context())
	}
	return &domain.Pharmacy{
		Name:     req.Name,
		Location: req.Location,
		UserID:   userID,
	}, nil
}

// CreatePharmacy handles POST /pharmacy
func (h *PharmacyHandler) CreatePharmacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	p, err := h.toPharmacy(r, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.Create(ctx, p); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/pharmacy/"+p.ID.String())
	h.respondText(w, http.StatusOK, "Pharmacy added successfully.")
}

// UpdatePharmacy handles PUT /pharmacy/{id}
func (h *PharmacyHandler) UpdatePharmacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "pharmacy")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req PharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	p, err := h.toPharmacy(r, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	p.ID = id

	if err := h.service.Update(ctx, p); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Pharmacy updated successfully.")
}

// DeletePharmacy handles DELETE /pharmacy/{id}
func (h *PharmacyHandler) DeletePharmacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "pharmacy")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Pharmacy deleted successfully.")
}

// ListPharmacies handles GET /pharmacy and returns the caller's pharmacies
func (h *PharmacyHandler) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		h.respondError(ctx, w, domain.Unauthorized("Unauthorized"))
		return
	}

	pharmacies, err := h.service.ListByOwner(ctx, userID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	if pharmacies == nil {
		pharmacies = []*domain.Pharmacy{}
	}

	h.respondJSON(w, http.StatusOK, pharmacies)
}

// AddCategory handles POST /pharmacy/{id}/category
func (h *PharmacyHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pharmacyID, err := pathID(r, "id", "pharmacy")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req PharmacyCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	categoryID, err := optionalID(req.CategoryID, "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.AddCategory(ctx, pharmacyID, categoryID); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Category added to pharmacy successfully.")
}

// ReplaceCategory handles PUT /pharmacy/{id}/category/{category_id}
func (h *PharmacyHandler) ReplaceCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pharmacyID, err := pathID(r, "id", "pharmacy")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	oldCategoryID, err := pathID(r, "category_id", "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req PharmacyCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	newCategoryID, err := optionalID(req.NewCategoryID, "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.ReplaceCategory(ctx, pharmacyID, oldCategoryID, newCategoryID); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Category updated for pharmacy successfully.")
}

// RemoveCategory handles DELETE /pharmacy/{id}/category/{category_id}
func (h *PharmacyHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pharmacyID, err := pathID(r, "id", "pharmacy")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	categoryID, err := pathID(r, "category_id", "category")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.RemoveCategory(ctx, pharmacyID, categoryID); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Category removed from pharmacy successfully.")
}
