// Package parsers reads invoice data out of the CSV exports small
// businesses actually produce. Column names vary wildly between accounting
// packages, so each logical field accepts a set of header aliases; amounts
// may carry currency symbols and grouping commas, and dates arrive in any
// of the common UK/ISO formats.
//
// Rows that fail to parse are recorded and skipped rather than aborting the
// file: a debt run over 500 invoices should not die on one bad row.
package parsers

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang-collections-engine/internal/models"
	"golang-collections-engine/pkg/errors"
	"golang-collections-engine/pkg/logger"
)

// RowError records one unparsable CSV row
type RowError struct {
	Line    int
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row error at line %d (%s=%q): %s: %v", e.Line, e.Field, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("row error at line %d (%s=%q): %s", e.Line, e.Field, e.Value, e.Message)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseStats summarizes one parsing run
type ParseStats struct {
	RowsRead    int         `json:"rows_read"`
	RowsParsed  int         `json:"rows_parsed"`
	RowsSkipped int         `json:"rows_skipped"`
	Errors      []*RowError `json:"errors,omitempty"`
}

func (s *ParseStats) addError(e *RowError) {
	s.RowsSkipped++
	s.Errors = append(s.Errors, e)
}

// columnAliases maps each logical invoice field to the header names that
// identify it, all compared lowercased with surrounding space stripped.
var columnAliases = map[string][]string{
	"id":                    {"id", "invoice_id", "invoice", "reference", "invoice_number"},
	"amount":                {"amount", "principal", "invoice_amount", "value", "total"},
	"due_date":              {"due_date", "due", "date_due", "payment_due"},
	"tier":                  {"tier", "subscription_tier", "plan", "user_tier"},
	"status":                {"status", "invoice_status"},
	"dispute_status":        {"dispute_status", "disputed", "dispute"},
	"collection_stage":      {"collection_stage", "stage"},
	"debtor_type":           {"debtor_type", "client_type", "customer_type"},
	"previous_attempts":     {"previous_attempts", "attempts", "collection_attempts"},
	"relationship_value":    {"relationship_value", "relationship"},
	"has_written_contract":  {"has_written_contract", "written_contract", "contract"},
	"has_proof_of_delivery": {"has_proof_of_delivery", "proof_of_delivery", "pod"},
	"debtor_has_assets":     {"debtor_has_assets", "has_assets", "assets"},
}

// requiredColumns must resolve from the header row for parsing to proceed
var requiredColumns = []string{"id", "amount", "due_date"}

// InvoiceParserConfig controls CSV dialect handling
type InvoiceParserConfig struct {
	Delimiter rune
	// DefaultTier applies when the file has no tier column
	DefaultTier models.SubscriptionTier
}

// DefaultInvoiceParserConfig returns the config for comma-separated exports
func DefaultInvoiceParserConfig() *InvoiceParserConfig {
	return &InvoiceParserConfig{
		Delimiter:   ',',
		DefaultTier: models.TierStarter,
	}
}

// Validate performs basic validation on the config
func (c *InvoiceParserConfig) Validate() error {
	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be zero")
	}
	if c.DefaultTier != "" && !c.DefaultTier.IsValid() {
		return fmt.Errorf("invalid default tier %q", c.DefaultTier)
	}
	return nil
}

// InvoiceParser parses invoice CSV files
type InvoiceParser struct {
	config *InvoiceParserConfig
	logger logger.Logger
}

// NewInvoiceParser creates an InvoiceParser. A nil config selects defaults.
func NewInvoiceParser(config *InvoiceParserConfig) (*InvoiceParser, error) {
	if config == nil {
		config = DefaultInvoiceParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"invoice_parser_config",
			config,
			err,
		).WithSuggestion("Check the invoice parser configuration values")
	}

	return &InvoiceParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("invoice_parser"),
	}, nil
}

// ParseInvoices parses a CSV file of invoices
func (p *InvoiceParser) ParseInvoices(filePath string) ([]*models.Invoice, *ParseStats, error) {
	return p.ParseInvoicesWithContext(context.Background(), filePath)
}

// ParseInvoicesWithContext parses invoices with cancellation support
func (p *InvoiceParser) ParseInvoicesWithContext(ctx context.Context, filePath string) ([]*models.Invoice, *ParseStats, error) {
	p.logger.WithField("file_path", filePath).Info("Starting invoice parsing")

	file, err := os.Open(filePath)
	if err != nil {
		p.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open invoice file")
		return nil, nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	stats := &ParseStats{}

	header, err := reader.Read()
	if err != nil {
		return nil, stats, errors.ParseError(errors.CodeInvalidFormat, filePath, 1, "headers", "", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, stats, errors.ParseError(errors.CodeMissingColumn, filePath, 1, "headers", strings.Join(header, ","), err).
			WithSuggestion("Ensure the CSV has id, amount and due_date columns (or a recognized alias)")
	}

	var invoices []*models.Invoice
	line := 1

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("Invoice parsing was cancelled")
			return invoices, stats, errors.InternalError("invoice_parsing", err)
		}

		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.RowsRead++
			stats.addError(&RowError{Line: line, Field: "record", Message: "malformed CSV row", Err: err})
			continue
		}

		if isEmptyRow(record) {
			continue
		}
		stats.RowsRead++

		invoice, rowErr := p.buildInvoice(record, columns, line)
		if rowErr != nil {
			p.logger.WithError(rowErr).WithField("line", line).Warn("Skipping unparsable invoice row")
			stats.addError(rowErr)
			continue
		}

		invoices = append(invoices, invoice)
		stats.RowsParsed++
	}

	p.logger.WithFields(logger.Fields{
		"file_path":    filePath,
		"rows_parsed":  stats.RowsParsed,
		"rows_skipped": stats.RowsSkipped,
	}).Info("Completed invoice parsing")

	return invoices, stats, nil
}

// buildInvoice converts one CSV record into a validated invoice
func (p *InvoiceParser) buildInvoice(record []string, columns map[string]int, line int) (*models.Invoice, *RowError) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	tierStr := get("tier")
	if tierStr == "" && p.config.DefaultTier != "" {
		tierStr = p.config.DefaultTier.String()
	}

	invoice, err := models.CreateInvoiceFromCSV(get("id"), get("amount"), get("due_date"), tierStr, get("dispute_status"))
	if err != nil {
		return nil, &RowError{Line: line, Field: "invoice", Value: get("id"), Message: "invalid invoice data", Err: err}
	}

	if v := get("status"); v != "" {
		invoice.Status = models.InvoiceStatus(strings.ToLower(v))
	}
	if v := get("collection_stage"); v != "" {
		stage, err := strconv.Atoi(v)
		if err != nil {
			return nil, &RowError{Line: line, Field: "collection_stage", Value: v, Message: "not an integer", Err: err}
		}
		invoice.CollectionStage = stage
	}
	if v := get("previous_attempts"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return nil, &RowError{Line: line, Field: "previous_attempts", Value: v, Message: "not an integer", Err: err}
		}
		invoice.PreviousAttempts = attempts
	}

	invoice.DebtorType = models.ParseDebtorType(get("debtor_type"))
	invoice.RelationshipValue = models.ParseRelationshipValue(get("relationship_value"))
	invoice.DebtorHasAssets = models.ParseAssetStatus(get("debtor_has_assets"))
	invoice.HasWrittenContract = models.ParseBool(get("has_written_contract"))
	invoice.HasProofOfDelivery = models.ParseBool(get("has_proof_of_delivery"))

	return invoice, nil
}

// resolveColumns maps logical fields onto header positions via the alias
// table, failing when a required field cannot be located.
func resolveColumns(header []string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}

	columns := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, h := range normalized {
				if h == alias {
					columns[field] = i
					break
				}
			}
			if _, ok := columns[field]; ok {
				break
			}
		}
	}

	var missing []string
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func isEmptyRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
