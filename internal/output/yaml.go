package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mdstat-exporter/internal/mdstat"
)

// YAMLFormatter formats views as YAML sequences.
type YAMLFormatter struct{}

// FormatArrays formats the array view as YAML.
func (f *YAMLFormatter) FormatArrays(rows []mdstat.ArrayRow) (string, error) {
	return marshalYAML(nonNil(rows))
}

// FormatDrives formats the drive view as YAML.
func (f *YAMLFormatter) FormatDrives(rows []mdstat.DriveRow) (string, error) {
	return marshalYAML(nonNil(rows))
}

// FormatPersonalities formats the personality view as YAML.
func (f *YAMLFormatter) FormatPersonalities(rows []mdstat.PersonalityRow) (string, error) {
	return marshalYAML(nonNil(rows))
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}
