// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

var medicineNames = []string{
	"Paracetamol 500mg",
	"Ibuprofen 200mg",
	"Amoxicillin 250mg",
	"Loratadine 10mg",
	"Vitamin C 1000mg",
	"Omeprazole 20mg",
	"Cetirizine 10mg",
	"Metformin 500mg",
}

// createInvoiceText simulates the text extracted from a supplier invoice
func createInvoiceText(numLines int) []string {
	lines := []string{
		"ACME PHARMA SUPPLY",
		"INVOICE #12345",
		"Date: 2024-01-15",
		"-------------------------------------",
	}

	for i := 0; i < numLines; i++ {
		name := medicineNames[i%len(medicineNames)]
		lines = append(lines, fmt.Sprintf("%d x %s @ $%.2f", 10+i%5, name, 2.5+float64(i%7)))
	}

	lines = append(lines, "-------------------------------------", "TOTAL DUE $1234.00")
	return lines
}

// createStockRows builds import rows in column order
func createStockRows(numRows int) []*xlsx.Row {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		panic(err)
	}

	category := uuid.NewString()
	rows := make([]*xlsx.Row, 0, numRows)
	for i := 0; i < numRows; i++ {
		row := sheet.AddRow()
		row.AddCell().SetString(fmt.Sprintf("%s #%d", medicineNames[i%len(medicineNames)], i))
		row.AddCell().SetString("Benchmark medicine")
		row.AddCell().SetString(fmt.Sprintf("%.2f", 1.25+float64(i%9)))
		row.AddCell().SetInt(50 + i%25)
		row.AddCell().SetString(category)
		rows = append(rows, row)
	}
	return rows
}

// createSales builds n sales spread over a few medicines
func createSales(n int) []*domain.Sale {
	medicines := make([]uuid.UUID, 4)
	for i := range medicines {
		medicines[i] = uuid.New()
	}

	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	sales := make([]*domain.Sale, n)
	for i := range sales {
		sales[i] = helpers.CreateTestSale(medicines[i%len(medicines)], 1+i%3, func(s *domain.Sale) {
			s.TotalPrice = decimal.NewFromFloat(4.5).Mul(decimal.NewFromInt(int64(s.UnitsSold)))
			s.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		})
	}
	return sales
}

// stockedMedicine returns a medicine holding the given units
func stockedMedicine(units int) *domain.Medicine {
	return helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.StockQuantity = units
	})
}
