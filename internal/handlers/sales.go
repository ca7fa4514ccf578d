// internal/handlers/sales.go
package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/core/services"
)

// SalesHandler handles sale requests. Every mutation goes through the
// ledger so stock stays in step with the recorded sales.
type SalesHandler struct {
	responder
	ledger ports.LedgerService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(ledger ports.LedgerService, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		responder: responder{logger: logger.With(slog.String("handler", "sales"))},
		ledger:    ledger,
	}
}

// CreateSaleRequest is the body of POST /sales
type CreateSaleRequest struct {
	MedicineID string          `json:"medicine_id"`
	UnitsSold  Units           `json:"no_of_units_sold"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// UpdateSaleRequest is the body of PUT /sales/{id}
type UpdateSaleRequest struct {
	UnitsSold   Units           `json:"no_of_units_sold"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CurrentDate string          `json:"current_date"`
	CurrentTime string          `json:"current_time"`
}

// Units is a whole number of units. It decodes from a JSON number or a
// string holding one, so "5" and 5 are the same request.
type Units int

// UnmarshalJSON implements json.Unmarshaler
func (u *Units) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return fmt.Errorf("units must be a whole number, got %s", data)
		}
		n = int(f)
	}
	*u = Units(n)
	return nil
}

// CreateSale handles POST /sales
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	medicineID, err := optionalID(req.MedicineID, "medicine")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	sale, err := h.ledger.RecordSale(ctx, domain.SaleRequest{
		MedicineID: medicineID,
		UnitsSold:  int(req.UnitsSold),
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/sales/"+sale.ID.String())
	h.respondText(w, http.StatusOK, "Sale added successfully.")
}

// UpdateSale handles PUT /sales/{id}
func (h *SalesHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	saleID, err := pathID(r, "id", "sale")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	var req UpdateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if _, err := h.ledger.ReviseSale(ctx, saleID, domain.SaleRevision{
		UnitsSold:  int(req.UnitsSold),
		TotalPrice: req.TotalPrice,
		Date:       req.CurrentDate,
		Time:       req.CurrentTime,
	}); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Sale updated successfully.")
}

// DeleteSale handles DELETE /sales/{id}
func (h *SalesHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	saleID, err := pathID(r, "id", "sale")
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.ledger.RemoveSale(ctx, saleID); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondText(w, http.StatusOK, "Sale deleted successfully.")
}

// ExportSales handles GET /sales and streams every sale as an xlsx workbook
func (h *SalesHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sales, err := h.ledger.ListSales(ctx)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	data, err := services.BuildSalesWorkbook(sales)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sales exported",
		slog.Int("sale_count", len(sales)),
		slog.Int("size_bytes", len(data)))

	w.Header().Set("Content-Type", services.SpreadsheetContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.SalesReportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
