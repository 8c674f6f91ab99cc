package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// Loader handles loading camp and provider snapshots from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

var resourceColumns = []string{"food", "water", "beds", "medical_kits", "ambulances"}

// CampHeader is the expected header of a camps CSV file
var CampHeader = append([]string{"id", "name", "urgency"}, resourceColumns...)

// ProviderHeader is the expected header of a providers CSV file
var ProviderHeader = append([]string{"id", "name", "response_time", "availability", "eta_label"}, resourceColumns...)

// LoadCamps loads camps from a CSV file
func (l *Loader) LoadCamps(filename string) ([]*entities.Camp, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open camps file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadCamps(file)
}

// ReadCamps parses camps from CSV content
func (l *Loader) ReadCamps(r io.Reader) ([]*entities.Camp, error) {
	records, err := readRecords(r, "camps", CampHeader)
	if err != nil {
		return nil, err
	}

	camps := make([]*entities.Camp, 0, len(records))
	for i, record := range records {
		camp, err := parseCamp(record)
		if err != nil {
			return nil, fmt.Errorf("camps CSV row %d: %w", i+2, err)
		}
		camps = append(camps, camp)
	}
	return camps, nil
}

// LoadProviders loads providers from a CSV file
func (l *Loader) LoadProviders(filename string) ([]*entities.Provider, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open providers file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadProviders(file)
}

// ReadProviders parses providers from CSV content
func (l *Loader) ReadProviders(r io.Reader) ([]*entities.Provider, error) {
	records, err := readRecords(r, "providers", ProviderHeader)
	if err != nil {
		return nil, err
	}

	providers := make([]*entities.Provider, 0, len(records))
	for i, record := range records {
		provider, err := parseProvider(record)
		if err != nil {
			return nil, fmt.Errorf("providers CSV row %d: %w", i+2, err)
		}
		providers = append(providers, provider)
	}
	return providers, nil
}

// readRecords reads every row, validates the header and column counts, and
// returns the data rows. A file with only a header yields no rows.
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseCamp(record []string) (*entities.Camp, error) {
	needs, err := parseQuantities(record[3:])
	if err != nil {
		return nil, err
	}

	return &entities.Camp{
		ID:      strings.TrimSpace(record[0]),
		Name:    strings.TrimSpace(record[1]),
		Urgency: entities.ParseUrgencyLevel(record[2]),
		Needs:   needs,
	}, nil
}

func parseProvider(record []string) (*entities.Provider, error) {
	inventory, err := parseQuantities(record[5:])
	if err != nil {
		return nil, err
	}

	responseTime := entities.ParseUrgencyLevel(record[2])
	etaLabel := strings.TrimSpace(record[4])
	if etaLabel == "" {
		etaLabel = entities.FormatETA(responseTime.String())
	}

	return &entities.Provider{
		ID:           strings.TrimSpace(record[0]),
		Name:         strings.TrimSpace(record[1]),
		ResponseTime: responseTime,
		Availability: entities.ParseAvailabilityStatus(record[3]),
		Inventory:    inventory,
		ETALabel:     etaLabel,
	}, nil
}

// parseQuantities reads the resource columns in enumeration order. Blank cells
// mean no quantity; negative values are passed through for the ingestion step.
func parseQuantities(cells []string) (entities.ResourceQuantities, error) {
	quantities := make(entities.ResourceQuantities, len(entities.AllResourceTypes))
	for i, rt := range entities.AllResourceTypes {
		raw := strings.TrimSpace(cells[i])
		if raw == "" {
			continue
		}
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s quantity: %s", resourceColumns[i], raw)
		}
		quantities[rt] = entities.Quantity(qty)
	}
	return quantities, nil
}
