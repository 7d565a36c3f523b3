package rates

import (
	"encoding/json"
	"fmt"
	"os"

	"golang-collections-engine/internal/models"

	"golang-collections-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// fileEntry is the wire form of an Entry in the rates data file
type fileEntry struct {
	EffectiveFrom string `json:"effective_from"`
	Rate          string `json:"rate"`
	ReferenceDate string `json:"reference_date"`
}

// LoadFile reads a base rate history from a JSON data file. The file holds
// an array of entries with ISO dates and decimal rate strings:
//
//	[{"effective_from": "2025-07-01", "rate": "5.25", "reference_date": "2025-06-30"}, ...]
//
// Order in the file does not matter; the table sorts on load.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFileRead, path, err)
	}

	var raw []fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, 0, "", "", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, fe := range raw {
		entry, err := fe.toEntry()
		if err != nil {
			return nil, errors.RateTableError(errors.CodeInvalidRateEntry,
				fmt.Sprintf("%s entry %d: %v", path, i, err), err)
		}
		entries = append(entries, entry)
	}

	return NewTable(entries)
}

func (fe fileEntry) toEntry() (Entry, error) {
	effectiveFrom, err := models.ParseDateWithFormats(fe.EffectiveFrom)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid effective_from: %w", err)
	}

	referenceDate, err := models.ParseDateWithFormats(fe.ReferenceDate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid reference_date: %w", err)
	}

	rate, err := decimal.NewFromString(fe.Rate)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid rate '%s': %w", fe.Rate, err)
	}

	return Entry{
		EffectiveFrom: effectiveFrom,
		Rate:          rate,
		ReferenceDate: referenceDate,
	}, nil
}
