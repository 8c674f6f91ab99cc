package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idro/reliefmatch/pkg/application/dto"
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format      string
	OutputDir   string
	Verbose     bool
	ComputeTime time.Duration
	Writer      io.Writer
}

// Result bundles everything rendered for one run
type Result struct {
	Plan       *dto.AllocationPlan   `json:"plan"`
	Report     dto.FulfillmentReport `json:"report"`
	MissionLog []entities.LogEntry   `json:"missionLog"`
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(result Result, config Config) error {
	if result.Plan == nil {
		return fmt.Errorf("no allocation plan to render")
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func formatResources(lines []entities.ResourceLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s=%d", line.Label, line.Quantity))
	}
	return strings.Join(parts, ", ")
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result Result, config Config) error {
	w := config.writer()
	plan := result.Plan

	fmt.Fprintf(w, "📊 Relief Allocation Summary\n")
	fmt.Fprintf(w, "============================\n\n")

	fmt.Fprintf(w, "Run: %s\n", plan.RunID)
	fmt.Fprintf(w, "Camps: %d\n", plan.CampCount)
	fmt.Fprintf(w, "Providers: %d\n", plan.ProviderCount)
	fmt.Fprintf(w, "Allocations: %d\n", len(plan.Allocations))
	fmt.Fprintf(w, "Shortfalls: %d\n", len(plan.Shortfalls))
	fmt.Fprintf(w, "Overall Coverage: %s%%\n", result.Report.OverallCoverage.StringFixed(2))
	if config.ComputeTime > 0 {
		fmt.Fprintf(w, "Compute Time: %v\n", config.ComputeTime)
	}
	fmt.Fprintln(w)

	if len(plan.Allocations) > 0 {
		fmt.Fprintf(w, "🚚 Allocations:\n")
		fmt.Fprintf(w, "%-14s %-28s %-18s %-24s %-10s %-11s %s\n",
			"ID", "Camp", "Urgency", "Provider", "ETA", "Status", "Resources")
		fmt.Fprintf(w, "%-14s %-28s %-18s %-24s %-10s %-11s %s\n",
			"--------------", "----------------------------", "------------------",
			"------------------------", "----------", "-----------", "---------")

		for _, alloc := range plan.Allocations {
			fmt.Fprintf(w, "%-14s %-28s %-18s %-24s %-10s %-11s %s\n",
				alloc.ID,
				alloc.CampName,
				alloc.CampUrgency,
				alloc.ProviderName,
				alloc.ETALabel,
				alloc.Status,
				formatResources(alloc.Resources))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Shortfalls) > 0 {
		fmt.Fprintf(w, "⚠️  Shortfalls:\n")
		fmt.Fprintf(w, "%-28s %-18s %-11s %-10s %-10s %-10s\n",
			"Camp", "Urgency", "Resource", "Requested", "Fulfilled", "Unmet")
		fmt.Fprintf(w, "%-28s %-18s %-11s %-10s %-10s %-10s\n",
			"----------------------------", "------------------", "-----------",
			"----------", "----------", "----------")

		for _, s := range plan.Shortfalls {
			fmt.Fprintf(w, "%-28s %-18s %-11s %-10d %-10d %-10d\n",
				s.CampName, s.Urgency, s.Resource.Label(), s.Requested, s.Fulfilled, s.Unmet)
		}
		fmt.Fprintln(w)
	}

	if len(result.Report.Totals) > 0 {
		fmt.Fprintf(w, "📈 Coverage by Resource:\n")
		for _, total := range result.Report.Totals {
			fmt.Fprintf(w, "  %-11s %6d / %-6d %7s%%\n",
				total.Label, total.Fulfilled, total.Requested, total.Coverage.StringFixed(2))
		}
		fmt.Fprintln(w)
	}

	if len(result.MissionLog) > 0 {
		fmt.Fprintf(w, "🛰️  Mission Log:\n")
		limit := len(result.MissionLog)
		if !config.Verbose && limit > 10 {
			limit = 10
		}
		for _, entry := range result.MissionLog[:limit] {
			fmt.Fprintf(w, "  [%s] %s\n", entry.Time.Format("15:04:05"), entry.Text)
		}
		if limit < len(result.MissionLog) {
			fmt.Fprintf(w, "  ... %d more (use --verbose)\n", len(result.MissionLog)-limit)
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		return generateJSONOutput(result, config)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result Result, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "relief_plan.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes allocations, shortfalls and the mission log as CSV files
func generateCSVOutput(result Result, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	allocFile := filepath.Join(config.OutputDir, "allocations.csv")
	if err := writeCSVFile(allocFile, allocationRows(result.Plan.Allocations)); err != nil {
		return fmt.Errorf("failed to write allocations CSV: %w", err)
	}

	shortfallFile := filepath.Join(config.OutputDir, "shortfalls.csv")
	if err := writeCSVFile(shortfallFile, shortfallRows(result.Plan.Shortfalls)); err != nil {
		return fmt.Errorf("failed to write shortfalls CSV: %w", err)
	}

	logFile := filepath.Join(config.OutputDir, "mission_log.csv")
	if err := writeCSVFile(logFile, missionLogRows(result.MissionLog)); err != nil {
		return fmt.Errorf("failed to write mission log CSV: %w", err)
	}

	if config.Verbose {
		w := config.writer()
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Allocations: %s\n", allocFile)
		fmt.Fprintf(w, "  Shortfalls: %s\n", shortfallFile)
		fmt.Fprintf(w, "  Mission Log: %s\n", logFile)
	}

	return nil
}

func writeCSVFile(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

// allocationRows renders one row per resource line
func allocationRows(allocations []entities.Allocation) [][]string {
	rows := [][]string{{
		"allocation_id", "camp_id", "camp_name", "camp_urgency",
		"provider_id", "provider_name", "eta_label", "resource", "quantity", "status",
	}}
	for _, a := range allocations {
		for _, line := range a.Resources {
			rows = append(rows, []string{
				string(a.ID), a.CampID, a.CampName, a.CampUrgency.String(),
				a.ProviderID, a.ProviderName, a.ETALabel,
				line.Resource.String(), strconv.FormatInt(int64(line.Quantity), 10), a.Status.String(),
			})
		}
	}
	return rows
}

func shortfallRows(shortfalls []entities.Shortfall) [][]string {
	rows := [][]string{{"camp_id", "camp_name", "urgency", "resource", "requested", "fulfilled", "unmet"}}
	for _, s := range shortfalls {
		rows = append(rows, []string{
			s.CampID, s.CampName, s.Urgency.String(), s.Resource.String(),
			strconv.FormatInt(int64(s.Requested), 10),
			strconv.FormatInt(int64(s.Fulfilled), 10),
			strconv.FormatInt(int64(s.Unmet), 10),
		})
	}
	return rows
}

func missionLogRows(entries []entities.LogEntry) [][]string {
	rows := [][]string{{"id", "time", "text"}}
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Time.Format(time.RFC3339), e.Text})
	}
	return rows
}
