package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"dfinspect/internal/model"
)

// Autochecks is the discovery snapshot of one host.
type Autochecks struct {
	Host         string       `yaml:"host"`          // 主机标识
	DiscoveredAt time.Time    `yaml:"discovered_at"` // 发现时间
	Items        []model.Item `yaml:"items"`         // 监控项列表
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AutochecksPath returns the snapshot file of a host below dir.
func AutochecksPath(dir, host string) string {
	return filepath.Join(dir, unsafeFileChars.ReplaceAllString(host, "_")+".yaml")
}

// SaveAutochecks writes the snapshot of a host, replacing any previous one.
func SaveAutochecks(dir string, ac *Autochecks) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create autochecks dir: %w", err)
	}

	data, err := yaml.Marshal(ac)
	if err != nil {
		return fmt.Errorf("failed to encode autochecks: %w", err)
	}

	path := AutochecksPath(dir, ac.Host)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write autochecks: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace autochecks: %w", err)
	}
	return nil
}

// LoadAutochecks reads the snapshot of a host.
// A missing snapshot returns (nil, nil).
func LoadAutochecks(dir, host string) (*Autochecks, error) {
	data, err := os.ReadFile(AutochecksPath(dir, host))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read autochecks: %w", err)
	}

	var ac Autochecks
	if err := yaml.Unmarshal(data, &ac); err != nil {
		return nil, fmt.Errorf("failed to parse autochecks for %s: %w", host, err)
	}
	return &ac, nil
}
