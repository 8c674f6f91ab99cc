package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// SaveCamps writes camps to a CSV file readable by LoadCamps
func SaveCamps(filename string, camps []*entities.Camp) error {
	return saveFile(filename, func(w io.Writer) error { return WriteCamps(w, camps) })
}

// WriteCamps writes camps with CampHeader
func WriteCamps(w io.Writer, camps []*entities.Camp) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CampHeader); err != nil {
		return err
	}
	for _, camp := range camps {
		record := []string{camp.ID, camp.Name, camp.Urgency.String()}
		record = append(record, formatQuantities(camp.Needs)...)
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveProviders writes providers to a CSV file readable by LoadProviders
func SaveProviders(filename string, providers []*entities.Provider) error {
	return saveFile(filename, func(w io.Writer) error { return WriteProviders(w, providers) })
}

// WriteProviders writes providers with ProviderHeader
func WriteProviders(w io.Writer, providers []*entities.Provider) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ProviderHeader); err != nil {
		return err
	}
	for _, provider := range providers {
		record := []string{
			provider.ID,
			provider.Name,
			provider.ResponseTime.String(),
			provider.Availability.String(),
			provider.ETALabel,
		}
		record = append(record, formatQuantities(provider.Inventory)...)
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatQuantities(q entities.ResourceQuantities) []string {
	cells := make([]string, len(entities.AllResourceTypes))
	for i, rt := range entities.AllResourceTypes {
		if qty := q.Get(rt); qty != 0 {
			cells[i] = strconv.FormatInt(int64(qty), 10)
		}
	}
	return cells
}

func saveFile(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
