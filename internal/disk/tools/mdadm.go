package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mdstat-exporter/internal/utils"
	"mdstat-exporter/pkg/types"
)

// commandRunner runs an external command and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// MdadmTool represents the mdadm CLI tool for software RAID
type MdadmTool struct {
	run commandRunner
}

var _ SoftwareRAIDToolInterface = (*MdadmTool)(nil)

// NewMdadmTool creates a new MdadmTool instance
func NewMdadmTool() *MdadmTool {
	return &MdadmTool{run: utils.RunCommand}
}

// IsAvailable checks if mdadm is available on the system
func (m *MdadmTool) IsAvailable() bool {
	return utils.CommandExists("mdadm")
}

// GetVersion returns the mdadm version
func (m *MdadmTool) GetVersion() string {
	if !m.IsAvailable() {
		return ""
	}

	version, err := utils.GetToolVersion("mdadm", "--version")
	if err != nil {
		return "unknown"
	}
	return version
}

// GetName returns the tool name
func (m *MdadmTool) GetName() string {
	return "mdadm"
}

// Detail runs `mdadm --detail` for an md device. Bare names such as "md0"
// are resolved under /dev.
func (m *MdadmTool) Detail(ctx context.Context, device string) (*types.MdadmDetail, error) {
	if !strings.HasPrefix(device, "/") {
		device = "/dev/" + device
	}

	output, err := m.run(ctx, "mdadm", "--detail", device)
	if err != nil {
		return nil, fmt.Errorf("failed to get mdadm details for %s: %w", device, err)
	}
	return parseDetail(device, string(output)), nil
}

// parseDetail reads the "Key : Value" section of `mdadm --detail` output.
// The device table at the end is ignored.
func parseDetail(device, output string) *types.MdadmDetail {
	detail := &types.MdadmDetail{Device: device}

	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), " : ")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Name":
			// "host:0  (local to host host)"
			detail.Name, _, _ = strings.Cut(value, " ")
		case "UUID":
			detail.UUID = value
		case "Raid Level":
			detail.Level = value
		case "State":
			detail.State = value
		case "Array Size":
			detail.ArraySize, _, _ = strings.Cut(value, " ")
		case "Raid Devices":
			detail.RaidDevices = atoi(value)
		case "Total Devices":
			detail.TotalDevices = atoi(value)
		case "Active Devices":
			detail.ActiveDevices = atoi(value)
		case "Working Devices":
			detail.WorkingDevices = atoi(value)
		case "Failed Devices":
			detail.FailedDevices = atoi(value)
		case "Spare Devices":
			detail.SpareDevices = atoi(value)
		case "Persistence":
			detail.Persistence = value
		case "Update Time":
			detail.UpdateTime = value
		case "Intent Bitmap":
			detail.Bitmap = value
		}
	}
	return detail
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
