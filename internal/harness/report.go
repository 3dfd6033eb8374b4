package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteReport stores res as YAML at path.
func WriteReport(path string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var res Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &res, nil
}
