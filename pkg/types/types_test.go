package types

import "testing"

func TestHealthStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		status   HealthStatus
		expected int
		text     string
	}{
		{"Unknown", HealthStatusUnknown, 0, "unknown"},
		{"OK", HealthStatusOK, 1, "ok"},
		{"Warning", HealthStatusWarning, 2, "warning"},
		{"Critical", HealthStatusCritical, 3, "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.status) != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, int(tt.status))
			}
			if tt.status.String() != tt.text {
				t.Errorf("Expected %q, got %q", tt.text, tt.status.String())
			}
		})
	}

	if HealthStatus(9).String() != "unknown" {
		t.Errorf("Expected out of range status to be unknown")
	}
}
