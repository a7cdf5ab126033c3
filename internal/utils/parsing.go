package utils

import (
	"strconv"
	"strings"

	"mdstat-exporter/pkg/types"
)

// ParseRatio parses an md "total/working" ratio such as "4/3".
func ParseRatio(ratio string) (total, working int, ok bool) {
	left, right, found := strings.Cut(strings.TrimSpace(ratio), "/")
	if !found {
		return 0, 0, false
	}
	total, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	working, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, false
	}
	return total, working, true
}

// ParsePercent extracts the leading percentage of a progress string such as
// "15.5% (303746432/1953514496)" and returns it as a ratio between 0 and 1.
func ParsePercent(progress string) (float64, bool) {
	fields := strings.Fields(progress)
	if len(fields) == 0 {
		return 0, false
	}
	num, found := strings.CutSuffix(fields[0], "%")
	if !found {
		return 0, false
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value / 100, true
}

// ParseSizeToBytes converts human-readable size strings to bytes. The md
// unit "blocks" is 1 KiB.
func ParseSizeToBytes(sizeStr string) int64 {
	if sizeStr == "" {
		return 0
	}

	// Remove spaces and convert to uppercase
	sizeStr = strings.ToUpper(strings.ReplaceAll(sizeStr, " ", ""))

	// Extract numeric part and unit
	var numStr strings.Builder
	var unit string

	for i, r := range sizeStr {
		if r >= '0' && r <= '9' || r == '.' {
			numStr.WriteRune(r)
		} else {
			unit = sizeStr[i:]
			break
		}
	}

	// Parse the numeric value
	value, err := strconv.ParseFloat(numStr.String(), 64)
	if err != nil {
		return 0
	}

	// Convert based on unit
	switch unit {
	case "B", "":
		return int64(value)
	case "KB", "K", "BLOCKS":
		return int64(value * 1024)
	case "MB", "M":
		return int64(value * 1024 * 1024)
	case "GB", "G":
		return int64(value * 1024 * 1024 * 1024)
	case "TB", "T":
		return int64(value * 1024 * 1024 * 1024 * 1024)
	default:
		return 0
	}
}

// ArrayState derives a single state word for an md array from its status,
// its total/working ratio and whether a sync operation is running.
func ArrayState(status, healthyRatio, operation string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "inactive" {
		return "inactive"
	}
	if status != "active" {
		return status
	}

	switch operation {
	case "recovery":
		return "recovering"
	case "resync":
		return "resyncing"
	}

	if total, working, ok := ParseRatio(healthyRatio); ok && working < total {
		return "degraded"
	}

	if operation == "check" {
		return "checking"
	}
	return "clean"
}

// GetSoftwareRAIDStatusValue converts software RAID state to numeric value
func GetSoftwareRAIDStatusValue(state string) int {
	state = strings.ToLower(strings.TrimSpace(state))

	switch state {
	case "clean", "active", "checking":
		return int(types.HealthStatusOK)
	case "degraded", "recovering", "resyncing":
		return int(types.HealthStatusWarning)
	case "failed", "inactive":
		return int(types.HealthStatusCritical)
	default:
		return int(types.HealthStatusUnknown)
	}
}
