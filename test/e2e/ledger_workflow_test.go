//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/adapters/db"
	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

type LedgerE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	token     string
}

func (s *LedgerE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())
	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}

	resp := s.makeRequest(http.MethodPost, "/register", map[string]interface{}{
		"name":          "E2E User",
		"email":         "e2e@example.com",
		"password":      "e2e-secret",
		"mobile_number": "555-0199",
		"age":           30,
	})
	s.expectText(resp, http.StatusOK, "User registered successfully.")

	resp = s.makeRequest(http.MethodPost, "/login", map[string]string{
		"email":    "e2e@example.com",
		"password": "e2e-secret",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.token = middleware.BearerToken(&http.Request{Header: resp.Header})
	resp.Body.Close()
	s.Require().NotEmpty(s.token)
}

func (s *LedgerE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *LedgerE2ESuite) TestSaleLifecycleKeepsStockConsistent() {
	categoryID := s.createCategory("Analgesics")
	medicineID := s.createMedicine("Paracetamol 500mg", categoryID, 10)

	// 1. Sell 3 units
	saleID := s.createSale(medicineID, 3, "13.50")
	s.Equal(7, s.stockOf(medicineID))

	// 2. Revise the sale to 5 units
	now := time.Now()
	resp := s.makeRequest(http.MethodPut, "/sales/"+saleID, map[string]interface{}{
		"no_of_units_sold": 5,
		"total_price":      "22.50",
		"current_date":     now.Format(domain.SaleDateLayout),
		"current_time":     now.Format(domain.SaleTimeLayout),
	})
	s.expectText(resp, http.StatusOK, "Sale updated successfully.")
	s.Equal(5, s.stockOf(medicineID))

	// 3. Overselling is rejected and leaves stock untouched
	resp = s.makeRequest(http.MethodPost, "/sales", map[string]interface{}{
		"medicine_id":      medicineID,
		"no_of_units_sold": 6,
		"total_price":      "27.00",
	})
	s.expectText(resp, http.StatusBadRequest, "Error: Not enough units available in stock")
	s.Equal(5, s.stockOf(medicineID))

	// 4. Revising beyond what is available is rejected too
	resp = s.makeRequest(http.MethodPut, "/sales/"+saleID, map[string]interface{}{
		"no_of_units_sold": 11,
		"total_price":      "49.50",
		"current_date":     now.Format(domain.SaleDateLayout),
		"current_time":     now.Format(domain.SaleTimeLayout),
	})
	s.expectText(resp, http.StatusBadRequest, "Error: Not enough units available in stock")
	s.Equal(5, s.stockOf(medicineID))

	// 5. The sales export lists the sale
	resp = s.makeRequest(http.MethodGet, "/sales", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Require().NoError(err)
	workbook, err := xlsx.OpenBinary(body)
	s.Require().NoError(err)
	s.GreaterOrEqual(workbook.Sheets[0].MaxRow, 2)

	// 6. Deleting the sale returns its units
	resp = s.makeRequest(http.MethodDelete, "/sales/"+saleID, nil)
	s.expectText(resp, http.StatusOK, "Sale deleted successfully.")
	s.Equal(10, s.stockOf(medicineID))

	// 7. The dashboard counts the restored units
	resp = s.makeRequest(http.MethodGet, "/dashboard", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var summary domain.DashboardSummary
	s.decodeResponse(resp, &summary)
	s.GreaterOrEqual(summary.UnitsInStock, int64(10))
}

func (s *LedgerE2ESuite) TestConcurrentSalesNeverOversell() {
	categoryID := s.createCategory("Antibiotics")
	medicineID := s.createMedicine("Amoxicillin 250mg", categoryID, 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.makeRequest(http.MethodPost, "/sales", map[string]interface{}{
				"medicine_id":      medicineID,
				"no_of_units_sold": 1,
				"total_price":      "12.00",
			})
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(5, accepted)
	s.Equal(0, s.stockOf(medicineID))
}

func (s *LedgerE2ESuite) TestCategoryInUseCannotBeDeleted() {
	categoryID := s.createCategory("Vitamins")
	s.createMedicine("Vitamin C 1000mg", categoryID, 3)

	resp := s.makeRequest(http.MethodDelete, "/category/"+categoryID, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *LedgerE2ESuite) TestHealthCheck() {
	resp := s.makeRequest(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health["status"])

	services := health["services"].(map[string]interface{})
	s.Contains(services, "database")
	s.Contains(services, "redis")
}

// Helper methods

func (s *LedgerE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()
	database := s.testDB.Database

	cache := redis_a.NewCache(s.testRedis.Client, time.Hour, logger)
	cacheManager := redis_a.NewCacheManager(cache, logger)
	users := db.NewUserRepository(database, logger)

	auth := services.NewAuthService(users, redis_a.NewSessionStore(s.testRedis.Client, logger), services.AuthConfig{
		Secret:     "e2e-secret-e2e-secret-e2e-secret-e2e",
		Expiration: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, logger)
	ledger := services.NewLedgerService(db.NewLedgerScope(database, logger), cacheManager, logger)
	medicines := services.NewMedicineService(db.NewMedicineRepository(database, logger), cacheManager, logger)

	routes := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(auth, logger),
		Sales:     handlers.NewSalesHandler(ledger, logger),
		Medicine:  handlers.NewMedicineHandler(medicines, cache, 10, logger),
		Category:  handlers.NewCategoryHandler(services.NewCategoryService(db.NewCategoryRepository(database, logger), logger), logger),
		Pharmacy:  handlers.NewPharmacyHandler(services.NewPharmacyService(db.NewPharmacyRepository(database, logger), users, logger), logger),
		Dashboard: handlers.NewDashboardHandler(db.NewDashboardRepository(database, logger), cache, 10, logger),
		Health:    handlers.NewHealthHandler(database, cache, nil, "e2e", "test", logger),
	}

	mux := http.NewServeMux()
	routes.Register(mux, middleware.Auth(auth, logger))

	return httptest.NewServer(middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recovery(logger),
	))
}

func (s *LedgerE2ESuite) createCategory(name string) string {
	resp := s.makeRequest(http.MethodPost, "/category", map[string]string{"name": name})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return path.Base(resp.Header.Get("Location"))
}

func (s *LedgerE2ESuite) createMedicine(name, categoryID string, stock int) string {
	resp := s.makeRequest(http.MethodPost, "/medicine", map[string]interface{}{
		"action":         "create",
		"name":           name,
		"description":    name + " for e2e tests",
		"price":          "4.50",
		"stock_quantity": stock,
		"category_id":    categoryID,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return path.Base(resp.Header.Get("Location"))
}

func (s *LedgerE2ESuite) createSale(medicineID string, units int, total string) string {
	resp := s.makeRequest(http.MethodPost, "/sales", map[string]interface{}{
		"medicine_id":      medicineID,
		"no_of_units_sold": units,
		"total_price":      total,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return path.Base(resp.Header.Get("Location"))
}

func (s *LedgerE2ESuite) stockOf(medicineID string) int {
	resp := s.makeRequest(http.MethodGet, "/medicine/"+medicineID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var m domain.Medicine
	s.decodeResponse(resp, &m)
	return m.StockQuantity
}

func (s *LedgerE2ESuite) makeRequest(method, target string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.server.URL+target, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)

	return resp
}

func (s *LedgerE2ESuite) expectText(resp *http.Response, status int, text string) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.NoError(err)
	s.Equal(status, resp.StatusCode, string(body))
	s.Equal(text, string(body))
}

func (s *LedgerE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(v)
	s.NoError(err, fmt.Sprintf("decoding %s", resp.Request.URL.Path))
}

func TestLedgerE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(LedgerE2ESuite))
}
