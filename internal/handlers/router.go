// internal/handlers/router.go
package handlers

import (
	"net/http"
)

// Handlers groups every HTTP handler the API serves. Import may be nil when
// no task queue is configured.
type Handlers struct {
	Auth      *AuthHandler
	Sales     *SalesHandler
	Medicine  *MedicineHandler
	Category  *CategoryHandler
	Pharmacy  *PharmacyHandler
	Dashboard *DashboardHandler
	Import    *ImportHandler
	Health    *HealthHandler
}

// Register adds all routes to mux using Go 1.22 method patterns. Everything
// except registration, login and the health checks goes through authenticate.
func (h *Handlers) Register(mux *http.ServeMux, authenticate func(http.Handler) http.Handler) {
	private := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authenticate(fn))
	}

	// Public
	mux.HandleFunc("POST /register", h.Auth.Register)
	mux.HandleFunc("POST /login", h.Auth.Login)
	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
	}

	private("POST /logout", h.Auth.Logout)

	// Sales ledger
	private("POST /sales", h.Sales.CreateSale)
	private("PUT /sales/{id}", h.Sales.UpdateSale)
	private("DELETE /sales/{id}", h.Sales.DeleteSale)
	private("GET /sales", h.Sales.ExportSales)

	// Medicines
	private("POST /medicine", h.Medicine.Action)
	private("POST /medicine/{id}", h.Medicine.Action)
	private("PUT /medicine/{id}", h.Medicine.UpdateMedicine)
	private("DELETE /medicine/{id}", h.Medicine.DeleteMedicine)
	private("GET /medicine/{id}", h.Medicine.GetMedicine)
	private("GET /medicine", h.Medicine.ListMedicines)

	// Categories
	private("POST /category", h.Category.CreateCategory)
	private("PUT /category/{id}", h.Category.UpdateCategory)
	private("DELETE /category/{id}", h.Category.DeleteCategory)
	private("GET /category", h.Category.ListCategories)

	// Pharmacies
	private("POST /pharmacy", h.Pharmacy.CreatePharmacy)
	private("PUT /pharmacy/{id}", h.Pharmacy.UpdatePharmacy)
	private("DELETE /pharmacy/{id}", h.Pharmacy.DeletePharmacy)
	private("GET /pharmacy", h.Pharmacy.ListPharmacies)
	private("POST /pharmacy/{id}/category", h.Pharmacy.AddCategory)
	private("PUT /pharmacy/{id}/category/{category_id}", h.Pharmacy.ReplaceCategory)
	private("DELETE /pharmacy/{id}/category/{category_id}", h.Pharmacy.RemoveCategory)

	private("GET /dashboard", h.Dashboard.GetDashboard)

	if h.Import != nil {
		private("POST /import/medicines", h.Import.ImportMedicines)
		private("POST /import/invoice", h.Import.ImportInvoice)
		private("GET /import/status/{jobId}", h.Import.ImportStatus)
	}
}
