package output

import (
	"encoding/json"
	"fmt"

	"mdstat-exporter/internal/mdstat"
)

// JSONFormatter formats views as JSON arrays.
type JSONFormatter struct{}

// FormatArrays formats the array view as JSON.
func (f *JSONFormatter) FormatArrays(rows []mdstat.ArrayRow) (string, error) {
	return marshalJSON(nonNil(rows))
}

// FormatDrives formats the drive view as JSON.
func (f *JSONFormatter) FormatDrives(rows []mdstat.DriveRow) (string, error) {
	return marshalJSON(nonNil(rows))
}

// FormatPersonalities formats the personality view as JSON.
func (f *JSONFormatter) FormatPersonalities(rows []mdstat.PersonalityRow) (string, error) {
	return marshalJSON(nonNil(rows))
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// nonNil makes empty views render as [] instead of null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
