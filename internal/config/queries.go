package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dfinspect/internal/model"
)

// requiredFields must have a query; a record without size or avail has no data.
var requiredFields = []model.RecordField{model.FieldSize, model.FieldAvail}

// LoadQueries reads the record field queries from the specified YAML file.
func LoadQueries(queriesPath string) (*model.QueriesConfig, error) {
	if queriesPath == "" {
		return nil, fmt.Errorf("queries file path is required")
	}

	if _, err := os.Stat(queriesPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("queries file not found: %s", queriesPath)
	}

	data, err := os.ReadFile(queriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries file: %w", err)
	}

	var cfg model.QueriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse queries file: %w", err)
	}

	if cfg.PathLabel == "" {
		cfg.PathLabel = "path"
	}
	if cfg.DeviceLabel == "" {
		cfg.DeviceLabel = "device"
	}
	if cfg.FSTypeLabel == "" {
		cfg.FSTypeLabel = "fstype"
	}

	seen := make(map[model.RecordField]bool)
	for i, q := range cfg.Queries {
		if q == nil || q.Field == "" {
			return nil, fmt.Errorf("query at index %d has no field", i)
		}
		if !knownField(q.Field) {
			return nil, fmt.Errorf("query at index %d has unknown field %q", i, q.Field)
		}
		if seen[q.Field] {
			return nil, fmt.Errorf("field %q is defined twice", q.Field)
		}
		seen[q.Field] = true
		if q.Unit == "" {
			q.Unit = model.UnitBytes
		}
	}

	for _, f := range requiredFields {
		if d := cfg.Get(f); d == nil || d.IsPending() {
			return nil, fmt.Errorf("no query defined for required field %q in %s", f, queriesPath)
		}
	}

	return &cfg, nil
}

// CountActiveQueries returns the count of non-pending queries.
func CountActiveQueries(cfg *model.QueriesConfig) int {
	count := 0
	for _, q := range cfg.Queries {
		if !q.IsPending() {
			count++
		}
	}
	return count
}

func knownField(f model.RecordField) bool {
	switch f {
	case model.FieldSize, model.FieldAvail, model.FieldReserved, model.FieldInodesTotal, model.FieldInodesFree:
		return true
	}
	return false
}
