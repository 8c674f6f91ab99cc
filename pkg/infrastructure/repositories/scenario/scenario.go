package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// CampRecord is the file representation of a camp snapshot entry
type CampRecord struct {
	ID      string           `yaml:"id"`
	Name    string           `yaml:"name"`
	Urgency string           `yaml:"urgency"`
	Needs   map[string]int64 `yaml:"needs,omitempty"`
}

// ProviderRecord is the file representation of a provider snapshot entry
type ProviderRecord struct {
	ID                 string           `yaml:"id"`
	Name               string           `yaml:"name"`
	Urgency            string           `yaml:"urgency"`
	AvailabilityStatus string           `yaml:"availabilityStatus"`
	Inventory          map[string]int64 `yaml:"inventory,omitempty"`
	ETALabel           string           `yaml:"etaLabel,omitempty"`
}

// File is a camp and provider snapshot pair. JSON documents decode as well since
// they are valid YAML.
type File struct {
	Camps     []CampRecord     `yaml:"camps"`
	Providers []ProviderRecord `yaml:"providers"`
}

// Load reads a scenario file from disk
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file %s: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return file, nil
}

// Decode parses a scenario document
func Decode(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &file, nil
}

// Encode writes a scenario document as YAML
func Encode(w io.Writer, file *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return enc.Close()
}

// FromEntities builds a scenario document from domain snapshots
func FromEntities(camps []*entities.Camp, providers []*entities.Provider) *File {
	file := &File{
		Camps:     make([]CampRecord, 0, len(camps)),
		Providers: make([]ProviderRecord, 0, len(providers)),
	}
	for _, c := range camps {
		file.Camps = append(file.Camps, CampRecord{
			ID:      c.ID,
			Name:    c.Name,
			Urgency: c.Urgency.String(),
			Needs:   encodeQuantities(c.Needs),
		})
	}
	for _, p := range providers {
		file.Providers = append(file.Providers, ProviderRecord{
			ID:                 p.ID,
			Name:               p.Name,
			Urgency:            p.ResponseTime.String(),
			AvailabilityStatus: p.Availability.String(),
			Inventory:          encodeQuantities(p.Inventory),
			ETALabel:           p.ETALabel,
		})
	}
	return file
}

// CampEntities converts camp records to domain camps. Labels are normalized;
// unrecognized urgency becomes UNKNOWN, while an unknown resource name is an error.
func (f *File) CampEntities() ([]*entities.Camp, error) {
	camps := make([]*entities.Camp, 0, len(f.Camps))
	for i, rec := range f.Camps {
		needs, err := decodeQuantities(rec.Needs)
		if err != nil {
			return nil, fmt.Errorf("camp %d (%s): %w", i+1, rec.ID, err)
		}
		camps = append(camps, &entities.Camp{
			ID:      strings.TrimSpace(rec.ID),
			Name:    strings.TrimSpace(rec.Name),
			Urgency: entities.ParseUrgencyLevel(rec.Urgency),
			Needs:   needs,
		})
	}
	return camps, nil
}

// ProviderEntities converts provider records to domain providers
func (f *File) ProviderEntities() ([]*entities.Provider, error) {
	providers := make([]*entities.Provider, 0, len(f.Providers))
	for i, rec := range f.Providers {
		inventory, err := decodeQuantities(rec.Inventory)
		if err != nil {
			return nil, fmt.Errorf("provider %d (%s): %w", i+1, rec.ID, err)
		}
		responseTime := entities.ParseUrgencyLevel(rec.Urgency)
		eta := strings.TrimSpace(rec.ETALabel)
		if eta == "" {
			eta = entities.FormatETA(responseTime.String())
		}
		providers = append(providers, &entities.Provider{
			ID:           strings.TrimSpace(rec.ID),
			Name:         strings.TrimSpace(rec.Name),
			ResponseTime: responseTime,
			Availability: entities.ParseAvailabilityStatus(rec.AvailabilityStatus),
			Inventory:    inventory,
			ETALabel:     eta,
		})
	}
	return providers, nil
}

func decodeQuantities(raw map[string]int64) (entities.ResourceQuantities, error) {
	out := make(entities.ResourceQuantities, len(raw))

	// Sorted so the reported error is stable
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	source := make(map[entities.ResourceType]string, len(raw))
	for _, k := range keys {
		rt, err := entities.ParseResourceType(k)
		if err != nil {
			return nil, err
		}
		if prev, dup := source[rt]; dup {
			return nil, fmt.Errorf("resource %s given twice (%q and %q)", rt, prev, k)
		}
		source[rt] = k
		out[rt] = entities.Quantity(raw[k])
	}
	return out, nil
}

func encodeQuantities(q entities.ResourceQuantities) map[string]int64 {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]int64, len(q))
	for rt, qty := range q {
		out[rt.String()] = int64(qty)
	}
	return out
}

// StatusFile persists operator-set allocation statuses between CLI invocations
type StatusFile struct {
	Statuses map[string]string `yaml:"statuses"`
}

// LoadStatuses reads a status file. A missing file yields an empty map.
func LoadStatuses(path string) (map[entities.AllocationID]entities.AllocationStatus, error) {
	statuses := make(map[entities.AllocationID]entities.AllocationStatus)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return statuses, nil
		}
		return nil, fmt.Errorf("failed to read status file %s: %w", path, err)
	}

	var file StatusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode status file %s: %w", path, err)
	}

	for id, raw := range file.Statuses {
		status, err := entities.ParseAllocationStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("status file %s, allocation %s: %w", path, id, err)
		}
		statuses[entities.AllocationID(id)] = status
	}
	return statuses, nil
}

// SaveStatuses writes statuses to path, replacing the file atomically
func SaveStatuses(path string, statuses map[entities.AllocationID]entities.AllocationStatus) error {
	file := StatusFile{Statuses: make(map[string]string, len(statuses))}
	for id, status := range statuses {
		file.Statuses[string(id)] = status.String()
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to encode statuses: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".statuses-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp status file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close status file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace status file %s: %w", path, err)
	}
	return nil
}
