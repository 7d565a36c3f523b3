// Package config assembles the component configurations the CLI hands to
// the library packages.
package config

import (
	"golang-collections-engine/internal/interest"
	"golang-collections-engine/internal/rates"
)

// CreateRateTable loads the base rate history from a file, or returns the
// built-in history when no file is given.
func CreateRateTable(ratesFile string) (*rates.Table, error) {
	if ratesFile == "" {
		return rates.DefaultTable(), nil
	}
	return rates.LoadFile(ratesFile)
}

// CreateCalculator builds an interest calculator over the given rate
// history file (or the built-in history) and the statutory fee schedule.
func CreateCalculator(ratesFile string) (*interest.Calculator, error) {
	table, err := CreateRateTable(ratesFile)
	if err != nil {
		return nil, err
	}
	return interest.NewCalculator(table, nil)
}
