package parsers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
)

func newTestParser(t *testing.T) *InvoiceParser {
	t.Helper()
	p, err := NewInvoiceParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	return p
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoices.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test CSV: %v", err)
	}
	return path
}

func TestParseInvoicesFixture(t *testing.T) {
	parser := newTestParser(t)

	invoices, stats, err := parser.ParseInvoices("../../testdata/invoices.csv")
	if err != nil {
		t.Fatalf("ParseInvoices failed: %v", err)
	}

	if len(invoices) != 5 {
		t.Fatalf("Parsed %d invoices, expected 5", len(invoices))
	}
	if stats.RowsParsed != 5 || stats.RowsSkipped != 0 {
		t.Errorf("Stats = %+v, expected 5 parsed, 0 skipped", stats)
	}

	first := invoices[0]
	if first.ID != "INV-1001" {
		t.Errorf("ID = %q, expected INV-1001", first.ID)
	}
	// Currency symbol and grouping comma must not defeat the amount parser
	if first.Principal.String() != "1250" {
		t.Errorf("Principal = %s, expected 1250", first.Principal.String())
	}
	if !first.DueDate.Equal(models.Date(2025, time.January, 15)) {
		t.Errorf("DueDate = %v, expected 2025-01-15", first.DueDate)
	}
	if first.Tier != models.TierGrowth {
		t.Errorf("Tier = %q, expected growth", first.Tier)
	}
	if first.DebtorType != models.DebtorBusiness {
		t.Errorf("DebtorType = %q, expected business", first.DebtorType)
	}
	if first.PreviousAttempts != 3 {
		t.Errorf("PreviousAttempts = %d, expected 3", first.PreviousAttempts)
	}
	if !first.HasWrittenContract || !first.HasProofOfDelivery {
		t.Error("Expected contract and proof-of-delivery flags set")
	}
	if first.IsDisputed() {
		t.Error("INV-1001 must not be disputed")
	}

	disputed := invoices[2]
	if disputed.ID != "INV-1003" || !disputed.IsDisputed() {
		t.Errorf("Expected INV-1003 to be disputed, got %q disputed=%v", disputed.ID, disputed.IsDisputed())
	}
	if disputed.CollectionStage != 4 {
		t.Errorf("CollectionStage = %d, expected 4", disputed.CollectionStage)
	}
	if disputed.DebtorHasAssets != models.AssetsYes {
		t.Errorf("DebtorHasAssets = %q, expected yes", disputed.DebtorHasAssets)
	}
}

func TestParseInvoicesHeaderAliases(t *testing.T) {
	parser := newTestParser(t)

	// Accounting-package style header names resolve via the alias table
	path := writeCSV(t, "Reference,Total,Payment_Due\nINV-1,100.00,15/01/2025\n")

	invoices, _, err := parser.ParseInvoices(path)
	if err != nil {
		t.Fatalf("ParseInvoices failed: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("Parsed %d invoices, expected 1", len(invoices))
	}
	if invoices[0].ID != "INV-1" {
		t.Errorf("ID = %q, expected INV-1", invoices[0].ID)
	}
	if !invoices[0].DueDate.Equal(models.Date(2025, time.January, 15)) {
		t.Errorf("DueDate = %v, expected 2025-01-15 from UK format", invoices[0].DueDate)
	}
}

func TestParseInvoicesDefaultTier(t *testing.T) {
	parser, err := NewInvoiceParser(&InvoiceParserConfig{
		Delimiter:   ',',
		DefaultTier: models.TierGrowth,
	})
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	path := writeCSV(t, "id,amount,due_date\nINV-1,100.00,2025-01-15\n")

	invoices, _, err := parser.ParseInvoices(path)
	if err != nil {
		t.Fatalf("ParseInvoices failed: %v", err)
	}
	if invoices[0].Tier != models.TierGrowth {
		t.Errorf("Tier = %q, expected the growth default", invoices[0].Tier)
	}
}

func TestParseInvoicesMissingRequiredColumn(t *testing.T) {
	parser := newTestParser(t)

	path := writeCSV(t, "id,amount\nINV-1,100.00\n")

	_, _, err := parser.ParseInvoices(path)
	if err == nil {
		t.Fatal("Expected an error for a missing due_date column")
	}
	if !errors.HasCode(err, errors.CodeMissingColumn) {
		t.Errorf("Expected CodeMissingColumn, got %v", err)
	}
}

func TestParseInvoicesSkipsBadRows(t *testing.T) {
	parser := newTestParser(t)

	path := writeCSV(t, `id,amount,due_date
INV-1,100.00,2025-01-15
INV-2,not-a-number,2025-01-15
INV-3,250.00,never
INV-4,300.00,2025-02-01
`)

	invoices, stats, err := parser.ParseInvoices(path)
	if err != nil {
		t.Fatalf("ParseInvoices failed: %v", err)
	}

	if len(invoices) != 2 {
		t.Fatalf("Parsed %d invoices, expected 2", len(invoices))
	}
	if invoices[0].ID != "INV-1" || invoices[1].ID != "INV-4" {
		t.Errorf("Parsed IDs = %q, %q, expected INV-1 and INV-4", invoices[0].ID, invoices[1].ID)
	}
	if stats.RowsRead != 4 || stats.RowsParsed != 2 || stats.RowsSkipped != 2 {
		t.Errorf("Stats = %+v, expected 4 read, 2 parsed, 2 skipped", stats)
	}
	if len(stats.Errors) != 2 {
		t.Fatalf("Got %d row errors, expected 2", len(stats.Errors))
	}
	if stats.Errors[0].Line != 3 {
		t.Errorf("First error line = %d, expected 3", stats.Errors[0].Line)
	}
}

func TestParseInvoicesSkipsEmptyRows(t *testing.T) {
	parser := newTestParser(t)

	path := writeCSV(t, "id,amount,due_date\nINV-1,100.00,2025-01-15\n,,\nINV-2,200.00,2025-01-20\n")

	invoices, stats, err := parser.ParseInvoices(path)
	if err != nil {
		t.Fatalf("ParseInvoices failed: %v", err)
	}
	if len(invoices) != 2 {
		t.Errorf("Parsed %d invoices, expected 2", len(invoices))
	}
	if stats.RowsSkipped != 0 {
		t.Errorf("RowsSkipped = %d, expected blank rows to be ignored silently", stats.RowsSkipped)
	}
}

func TestParseInvoicesMissingFile(t *testing.T) {
	parser := newTestParser(t)

	_, _, err := parser.ParseInvoices(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !errors.HasCode(err, errors.CodeFileNotFound) {
		t.Errorf("Expected CodeFileNotFound, got %v", err)
	}
}

func TestNewInvoiceParserRejectsBadConfig(t *testing.T) {
	_, err := NewInvoiceParser(&InvoiceParserConfig{Delimiter: 0})
	if err == nil {
		t.Error("Expected an error for a zero delimiter")
	}

	_, err = NewInvoiceParser(&InvoiceParserConfig{
		Delimiter:   ',',
		DefaultTier: models.SubscriptionTier("platinum"),
	})
	if err == nil {
		t.Error("Expected an error for an invalid default tier")
	}
}
