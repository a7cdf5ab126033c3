package tools

import (
	"context"

	"mdstat-exporter/pkg/types"
)

// ToolInterface defines the common interface for all CLI tools
type ToolInterface interface {
	// IsAvailable checks if the tool is available on the system
	IsAvailable() bool

	// GetVersion returns the tool version
	GetVersion() string

	// GetName returns the tool name
	GetName() string
}

// SoftwareRAIDToolInterface defines the interface for software RAID tools
type SoftwareRAIDToolInterface interface {
	ToolInterface

	// Detail returns what the tool knows about one md device
	Detail(ctx context.Context, device string) (*types.MdadmDetail, error)
}
