// internal/handlers/medicine.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const medicineCacheTTL = 10 * time.Minute

// MedicineHandler handles medicine catalogue requests
type MedicineHandler struct {
	responder
	service           ports.MedicineService
	cache             ports.CacheRepository
	lowStockThreshold int
}

// NewMedicineHandler creates a new medicine handler. cache may be nil.
func NewMedicineHandler(service ports.MedicineService, cache ports.CacheRepository, lowStockThreshold int, logger *slog.Logger) *MedicineHandler {
	return &MedicineHandler{
		responder:         responder{logger: logger.With(slog.String("handler", "medicine"))},
		service:           service,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
	}
}

// MedicineRequest is the body of POST /medicine and POST|PUT /medicine/{id}.
// Fields left out of an update are not changed.
type MedicineRequest struct {
	Action        string           `json:"action"`
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
}

// ToMedicine converts a create request to a domain model
func (req *MedicineRequest) ToMedicine() (*domain.Medicine, error) {
	if req.Name == nil || req.Description == nil || req.Price == nil || req.CategoryID == nil {
		return nil, domain.Invalid("Missing required fields")
	}
	categoryID, err := optionalID(*req.CategoryID, "category")
	if err != nil {
		return nil, err
	}

	m := &domain.Medicine{
		Name:        *req.Name,
		Description: *req.Description,
		Price:       *req.Price,
		CategoryID:  categoryID,
	}
	if req.StockQuantity != nil {
		m.StockQuantity = *req.StockQuantity
	}
	return m, nil
}

// ToUpdate converts an update request to a partial update
func (req *MedicineRequest) ToUpdate() (domain.MedicineUpdate, error) {
	update := domain.MedicineUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return update, domain.Invalid("Invalid category ID format")
		}
		update.CategoryID = &id
	}
	return update, nil
}

// Action handles POST /medicine and POST /medicine/{id}, dispatching on the
// action field of the body
func (h *MedicineHandler) Action(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MedicineRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	switch req.Action {
	case "create":
		h.create(ctx, w, &req)
	case "update":
		id, err := h.actionTarget(r, "update")
		if err != nil {
			h.respondError(ctx, w, err)
			return
		}
		h.update(ctx, w, id, &req)
	case "delete":
		id, err := h.actionTarget(r, "delete")
		if err != nil {
			h.respondError(ctx, w, err)
			return
		}
		h.delete(ctx, w, id)
	default:
		h.respondError(ctx, w, domain.Invalid("Invalid action"))
	}
}

// UpdateMedicine handles PUT /medicine/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "medicine")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req MedicineRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.update(ctx, w, id, &req)
}

// DeleteMedicine handles DELETE /medicine/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "medicine")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.delete(ctx, w, id)
}

// GetMedicine handles GET /medicine/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id", "medicine")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var medicine domain.Medicine
	if h.cache == nil {
		m, err := h.service.Get(ctx, id)
		if err != nil {
			h.respondError(ctx, w, err)
			return
		}
		medicine = *m
	} else {
		key := redis_a.BuildKey(redis_a.PrefixMedicine, id.String())
		err := h.cache.GetOrSet(ctx, key, &medicine, func() (interface{}, error) {
			return h.service.Get(ctx, id)
		}, medicineCacheTTL)
		if err != nil {
			h.respondError(ctx, w, err)
			return
		}
	}

	h.respondJSON(w, http.StatusOK, medicine)
}

// ListMedicines handles GET /medicine
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := h.parseListParams(r)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *MedicineHandler) create(ctx context.Context, w http.ResponseWriter, req *MedicineRequest) {
	m, err := req.ToMedicine()
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.service.Create(ctx, m); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/medicine/"+m.ID.String())
	h.respondText(w, http.StatusOK, "Medicine added successfully.")
}

func (h *MedicineHandler) update(ctx context.Context, w http.ResponseWriter, id uuid.UUID, req *MedicineRequest) {
	update, err := req.ToUpdate()
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if _, err := h.service.Update(ctx, id, update); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Medicine updated successfully.")
}

func (h *MedicineHandler) delete(ctx context.Context, w http.ResponseWriter, id uuid.UUID) {
	if err := h.service.Delete(ctx, id); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Medicine deleted successfully.")
}

// actionTarget returns the medicine ID in the path, which update and delete
// actions require
func (h *MedicineHandler) actionTarget(r *http.Request, action string) (uuid.UUID, error) {
	if r.PathValue("id") == "" {
		return uuid.Nil, domain.Invalid("Medicine ID is required for " + action)
	}
	return pathID(r, "id", "medicine")
}

// parseListParams parses query parameters for listing medicines
func (h *MedicineHandler) parseListParams(r *http.Request) (domain.MedicineFilter, error) {
	q := r.URL.Query()
	filter := domain.MedicineFilter{
		Search: q.Get("q"),
	}

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if size := q.Get("page_size"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			filter.PageSize = s
		}
	}

	if category := q.Get("category_id"); category != "" {
		id, err := uuid.Parse(category)
		if err != nil {
			return filter, domain.Invalid("Invalid category ID format")
		}
		filter.CategoryID = &id
	}

	if lowStock := q.Get("low_stock"); lowStock != "" {
		if val, err := strconv.ParseBool(lowStock); err == nil && val {
			threshold := h.lowStockThreshold
			filter.MaxStock = &threshold
		}
	}

	filter.Normalize()
	return filter, nil
}
