// cmd/seeder/demo.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/internal/workers"
)

type demoMedicine struct {
	name        string
	description string
	price       string
	stock       int
	category    string
}

type demoPharmacy struct {
	name       string
	location   string
	owner      string // email
	categories []string
}

type demoSale struct {
	medicine string
	units    int
}

type seedPlan struct {
	users      []domain.Registration
	categories []string
	pharmacies []demoPharmacy
	medicines  []demoMedicine
	sales      []demoSale
}

func demoPlan() seedPlan {
	return seedPlan{
		users: []domain.Registration{
			{Name: "Demo Admin", Email: "admin@pharmacy.local", Password: "admin123", MobileNumber: "555-0100", Age: 40},
			{Name: "Demo Clerk", Email: "clerk@pharmacy.local", Password: "clerk123", MobileNumber: "555-0101", Age: 27},
		},
		categories: []string{"Analgesics", "Antibiotics", "Antihistamines", "Vitamins"},
		pharmacies: []demoPharmacy{
			{name: "Main Street Pharmacy", location: "12 Main St", owner: "admin@pharmacy.local",
				categories: []string{"Analgesics", "Antibiotics", "Vitamins"}},
			{name: "Harbor Drugs", location: "4 Harbor Rd", owner: "clerk@pharmacy.local",
				categories: []string{"Analgesics", "Antihistamines"}},
		},
		medicines: []demoMedicine{
			{"Paracetamol 500mg", "Pain reliever and fever reducer, 20 tablets", "4.50", 120, "Analgesics"},
			{"Ibuprofen 200mg", "Anti-inflammatory pain reliever, 24 tablets", "6.25", 80, "Analgesics"},
			{"Amoxicillin 250mg", "Broad spectrum antibiotic, 21 capsules", "12.00", 40, "Antibiotics"},
			{"Azithromycin 500mg", "Macrolide antibiotic, 3 tablets", "18.75", 8, "Antibiotics"},
			{"Loratadine 10mg", "Non-drowsy allergy relief, 30 tablets", "9.99", 60, "Antihistamines"},
			{"Vitamin C 1000mg", "Immune support, 60 tablets", "7.40", 5, "Vitamins"},
		},
		sales: []demoSale{
			{"Paracetamol 500mg", 3},
			{"Paracetamol 500mg", 2},
			{"Ibuprofen 200mg", 4},
			{"Amoxicillin 250mg", 1},
			{"Loratadine 10mg", 2},
		},
	}
}

// Seeder inserts demo data through the services so stock stays consistent
// with the recorded sales.
type Seeder struct {
	auth       ports.AuthService
	users      ports.UserRepository
	categories ports.CategoryService
	pharmacies ports.PharmacyService
	medicines  ports.MedicineService
	ledger     ports.LedgerService
	logger     *slog.Logger
}

// Seed inserts plan and, when workbook is set, the medicines it lists.
func (s *Seeder) Seed(ctx context.Context, plan seedPlan, workbook string) (SeederState, error) {
	state := SeederState{}

	users := make(map[string]uuid.UUID, len(plan.users))
	for _, reg := range plan.users {
		id, err := s.ensureUser(ctx, reg)
		if err != nil {
			return state, err
		}
		users[reg.Email] = id
		state.Users++
	}

	categories, err := s.ensureCategories(ctx, plan.categories)
	if err != nil {
		return state, err
	}
	state.Categories = len(categories)

	for _, p := range plan.pharmacies {
		pharmacy := &domain.Pharmacy{Name: p.name, Location: p.location, UserID: users[p.owner]}
		if err := s.pharmacies.Create(ctx, pharmacy); err != nil {
			return state, fmt.Errorf("pharmacy %q: %w", p.name, err)
		}
		for _, name := range p.categories {
			if err := s.pharmacies.AddCategory(ctx, pharmacy.ID, categories[name]); err != nil {
				return state, fmt.Errorf("pharmacy %q category %q: %w", p.name, name, err)
			}
		}
		state.Pharmacies++
	}

	medicines := make(map[string]*domain.Medicine, len(plan.medicines))
	for _, dm := range plan.medicines {
		m := &domain.Medicine{
			Name:          dm.name,
			Description:   dm.description,
			Price:         decimal.RequireFromString(dm.price),
			StockQuantity: dm.stock,
			CategoryID:    categories[dm.category],
		}
		if _, err := s.medicines.Upsert(ctx, m); err != nil {
			return state, fmt.Errorf("medicine %q: %w", dm.name, err)
		}
		stored, err := s.medicines.FindByName(ctx, dm.name)
		if err != nil || stored == nil {
			return state, fmt.Errorf("medicine %q not found after insert: %v", dm.name, err)
		}
		medicines[dm.name] = stored
		state.Medicines++
	}

	if workbook != "" {
		fallback := categories[plan.categories[0]]
		n, err := s.loadWorkbook(ctx, workbook, fallback)
		if err != nil {
			return state, err
		}
		state.Medicines += n
	}

	for _, ds := range plan.sales {
		m := medicines[ds.medicine]
		sale, err := s.ledger.RecordSale(ctx, domain.SaleRequest{
			MedicineID: m.ID,
			UnitsSold:  ds.units,
			TotalPrice: m.Price.Mul(decimal.NewFromInt(int64(ds.units))),
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				s.logger.WarnContext(ctx, "skipping demo sale, stock exhausted",
					slog.String("medicine", ds.medicine))
				continue
			}
			return state, fmt.Errorf("sale of %q: %w", ds.medicine, err)
		}
		s.logger.DebugContext(ctx, "demo sale recorded",
			slog.String("sale_id", sale.ID.String()),
			slog.Int("units", sale.UnitsSold))
		state.Sales++
	}

	state.SeededAt = time.Now().UTC()
	return state, nil
}

func (s *Seeder) ensureUser(ctx context.Context, reg domain.Registration) (uuid.UUID, error) {
	user, err := s.auth.Register(ctx, reg)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return uuid.Nil, fmt.Errorf("user %q: %w", reg.Email, err)
	}

	existing, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(reg.Email))
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %q: %w", reg.Email, err)
	}
	return existing.ID, nil
}

func (s *Seeder) ensureCategories(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]uuid.UUID, len(names))
	for _, name := range names {
		for _, c := range existing {
			if strings.EqualFold(c.Name, name) {
				ids[name] = c.ID
			}
		}
		if _, ok := ids[name]; ok {
			continue
		}

		c := &domain.Category{Name: name}
		if err := s.categories.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		ids[name] = c.ID
	}
	return ids, nil
}

// loadWorkbook upserts every valid row of the first sheet. Rows without a
// category use fallback.
func (s *Seeder) loadWorkbook(ctx context.Context, path string, fallback uuid.UUID) (int, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return 0, errors.New("workbook has no sheets")
	}

	loaded, rowIdx := 0, 0
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowIdx++
		if rowIdx == 1 {
			return nil
		}

		m, err := workers.ParseMedicineRow(r, &fallback)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping workbook row",
				slog.Int("row", rowIdx), slog.String("reason", err.Error()))
			return nil
		}
		if _, err := s.medicines.Upsert(ctx, m); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
				msg, _ := domain.Message(err)
				s.logger.WarnContext(ctx, "skipping workbook row",
					slog.Int("row", rowIdx), slog.String("reason", msg))
				return nil
			}
			return err
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("failed to load workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "workbook loaded", slog.String("path", path), slog.Int("medicines", loaded))
	return loaded, nil
}
