package mdstat

import "strings"

// LineKind is the coarse classification of a normalized line.
type LineKind int

const (
	Unrecognized LineKind = iota
	ArrayHeader
	UnusedDevicesTrailer
)

func (k LineKind) String() string {
	switch k {
	case ArrayHeader:
		return "array-header"
	case UnusedDevicesTrailer:
		return "unused-devices"
	default:
		return "unrecognized"
	}
}

// Classify looks at the first two characters of a normalized line.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "md"):
		return ArrayHeader
	case strings.HasPrefix(line, "un"):
		return UnusedDevicesTrailer
	default:
		return Unrecognized
	}
}
