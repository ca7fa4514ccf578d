// test/helpers/memory_ledger.go
package helpers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// MemoryLedger is an in-memory LedgerScope. Each Execute works on a copy of
// the state that is committed only when fn succeeds, and calls are
// serialized, which mirrors the row locks taken by the database scope.
type MemoryLedger struct {
	mu         sync.Mutex
	medicines  map[uuid.UUID]domain.Medicine
	sales      map[uuid.UUID]memorySale
	receipts   map[string]string
	categories map[uuid.UUID]bool
	seq        int64

	// FailSaleWrites makes every sale write fail, to exercise rollback.
	FailSaleWrites error
	// StockWriteFault, when set, is consulted before every medicine write
	// and fails the write with the error it returns.
	StockWriteFault func(m domain.Medicine) error
}

type memorySale struct {
	sale domain.Sale
	seq  int64
}

var _ ports.LedgerScope = (*MemoryLedger)(nil)

// NewMemoryLedger creates a ledger holding the given medicines.
func NewMemoryLedger(medicines ...*domain.Medicine) *MemoryLedger {
	l := &MemoryLedger{
		medicines:  make(map[uuid.UUID]domain.Medicine),
		sales:      make(map[uuid.UUID]memorySale),
		receipts:   make(map[string]string),
		categories: make(map[uuid.UUID]bool),
	}
	for _, m := range medicines {
		l.medicines[m.ID] = *m
		l.categories[m.CategoryID] = true
	}
	return l
}

// AddCategory registers a category id that medicines may reference.
func (l *MemoryLedger) AddCategory(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categories[id] = true
}

// Execute runs fn against a snapshot and commits it when fn returns nil.
func (l *MemoryLedger) Execute(ctx context.Context, fn func(stores ports.LedgerStores) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &memoryTx{
		medicines:  make(map[uuid.UUID]domain.Medicine, len(l.medicines)),
		sales:      make(map[uuid.UUID]memorySale, len(l.sales)),
		receipts:   make(map[string]string, len(l.receipts)),
		categories: l.categories,
		seq:        l.seq,
		failSales:  l.FailSaleWrites,
		fault:      l.StockWriteFault,
	}
	for k, v := range l.medicines {
		tx.medicines[k] = v
	}
	for k, v := range l.sales {
		tx.sales[k] = v
	}
	for k, v := range l.receipts {
		tx.receipts[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}

	l.medicines = tx.medicines
	l.sales = tx.sales
	l.receipts = tx.receipts
	l.seq = tx.seq
	return nil
}

// MedicineByName returns the committed medicine with the given name,
// compared case-insensitively.
func (l *MemoryLedger) MedicineByName(name string) (domain.Medicine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.medicines {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return domain.Medicine{}, false
}

// Receipts returns the number of committed intake receipts.
func (l *MemoryLedger) Receipts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.receipts)
}

// Stock returns the committed stock of a medicine.
func (l *MemoryLedger) Stock(id uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.medicines[id].StockQuantity
}

// SaleCount returns the number of committed sales of a medicine.
func (l *MemoryLedger) SaleCount(medicineID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.sales {
		if s.sale.MedicineID == medicineID {
			n++
		}
	}
	return n
}

// SoldUnits sums the units of all committed sales of a medicine.
func (l *MemoryLedger) SoldUnits(medicineID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.sales {
		if s.sale.MedicineID == medicineID {
			n += s.sale.UnitsSold
		}
	}
	return n
}

// DeleteMedicine removes a medicine, leaving its sales behind.
func (l *MemoryLedger) DeleteMedicine(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.medicines, id)
}

type memoryTx struct {
	medicines  map[uuid.UUID]domain.Medicine
	sales      map[uuid.UUID]memorySale
	receipts   map[string]string
	categories map[uuid.UUID]bool
	seq        int64
	failSales  error
	fault      func(m domain.Medicine) error
}

func (t *memoryTx) Medicines() ports.MedicineStore { return memoryMedicines{t} }
func (t *memoryTx) Sales() ports.SaleStore         { return memorySales{t} }
func (t *memoryTx) Receipts() ports.ReceiptStore   { return memoryReceipts{t} }

type memoryMedicines struct{ tx *memoryTx }

func (s memoryMedicines) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.Medicine, error) {
	m, ok := s.tx.medicines[id]
	if !ok {
		return nil, domain.NotFound("Medicine not found")
	}
	return &m, nil
}

func (s memoryMedicines) UpdateStock(_ context.Context, id uuid.UUID, quantity int) error {
	m, ok := s.tx.medicines[id]
	if !ok {
		return domain.NotFound("Medicine not found")
	}
	if quantity < 0 {
		return domain.InsufficientStock()
	}
	if s.tx.fault != nil {
		if err := s.tx.fault(m); err != nil {
			return err
		}
	}
	m.StockQuantity = quantity
	s.tx.medicines[id] = m
	return nil
}

func (s memoryMedicines) FindByNameForUpdate(_ context.Context, name string) (*domain.Medicine, error) {
	name = strings.TrimSpace(name)
	for _, m := range s.tx.medicines {
		if strings.EqualFold(m.Name, name) {
			found := m
			return &found, nil
		}
	}
	return nil, domain.NotFound("Medicine not found")
}

func (s memoryMedicines) Create(ctx context.Context, m *domain.Medicine) error {
	if existing, _ := s.FindByNameForUpdate(ctx, m.Name); existing != nil {
		return domain.Conflict("Medicine already exists")
	}
	if s.tx.fault != nil {
		if err := s.tx.fault(*m); err != nil {
			return err
		}
	}
	s.tx.medicines[m.ID] = *m
	return nil
}

func (s memoryMedicines) Save(_ context.Context, m *domain.Medicine) error {
	if _, ok := s.tx.medicines[m.ID]; !ok {
		return domain.NotFound("Medicine not found")
	}
	if s.tx.fault != nil {
		if err := s.tx.fault(*m); err != nil {
			return err
		}
	}
	s.tx.medicines[m.ID] = *m
	return nil
}

func (s memoryMedicines) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.tx.categories[id], nil
}

type memoryReceipts struct{ tx *memoryTx }

func (s memoryReceipts) Claim(_ context.Context, jobID, kind string) (bool, error) {
	if _, ok := s.tx.receipts[jobID]; ok {
		return false, nil
	}
	s.tx.receipts[jobID] = kind
	return true, nil
}

type memorySales struct{ tx *memoryTx }

func (s memorySales) Create(_ context.Context, sale *domain.Sale) error {
	if s.tx.failSales != nil {
		return s.tx.failSales
	}
	s.tx.seq++
	s.tx.sales[sale.ID] = memorySale{sale: *sale, seq: s.tx.seq}
	return nil
}

func (s memorySales) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	ms, ok := s.tx.sales[id]
	if !ok {
		return nil, domain.NotFound("Sale not found")
	}
	sale := ms.sale
	return &sale, nil
}

func (s memorySales) Update(_ context.Context, sale *domain.Sale) error {
	if s.tx.failSales != nil {
		return s.tx.failSales
	}
	ms, ok := s.tx.sales[sale.ID]
	if !ok {
		return domain.NotFound("Sale not found")
	}
	ms.sale = *sale
	s.tx.sales[sale.ID] = ms
	return nil
}

func (s memorySales) Delete(_ context.Context, id uuid.UUID) error {
	if s.tx.failSales != nil {
		return s.tx.failSales
	}
	if _, ok := s.tx.sales[id]; !ok {
		return domain.NotFound("Sale not found")
	}
	delete(s.tx.sales, id)
	return nil
}

func (s memorySales) List(_ context.Context) ([]*domain.Sale, error) {
	ordered := make([]memorySale, 0, len(s.tx.sales))
	for _, ms := range s.tx.sales {
		ordered = append(ordered, ms)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	sales := make([]*domain.Sale, len(ordered))
	for i := range ordered {
		sale := ordered[i].sale
		sales[i] = &sale
	}
	return sales, nil
}
