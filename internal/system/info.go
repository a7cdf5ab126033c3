package system

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"mdstat-exporter/internal/disk/tools"
)

// SystemInfo holds detected system information
type SystemInfo struct {
	OS             string
	Platform       Platform
	MDStatPath     string
	MDStatReadable bool
	HasMdadm       bool
	MdadmPath      string
	MdadmVersion   string
}

// Platform represents the detected platform type
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformUnknown Platform = "unknown"
)

// Detector handles system detection
type Detector struct {
	mdstatPath string
	mdadm      tools.ToolInterface
	info       *SystemInfo
}

// New creates a new system detector for the given md status file
func New(mdstatPath string) *Detector {
	return &Detector{
		mdstatPath: mdstatPath,
		mdadm:      tools.NewMdadmTool(),
	}
}

// Detect performs one-time system detection
func (d *Detector) Detect() *SystemInfo {
	if d.info != nil {
		return d.info
	}

	slog.Debug("performing one-time system detection")

	info := &SystemInfo{
		OS:         runtime.GOOS,
		MDStatPath: d.mdstatPath,
	}

	if info.OS == "linux" {
		info.Platform = PlatformLinux
	} else {
		info.Platform = PlatformUnknown
	}

	info.detectMDStat()
	info.detectMdadm(d.mdadm)

	d.logDetectedCapabilities(info)

	d.info = info
	return info
}

// GetInfo returns the cached system info
func (d *Detector) GetInfo() *SystemInfo {
	if d.info == nil {
		slog.Warn("GetInfo called before Detect")
		return d.Detect()
	}
	return d.info
}

func (info *SystemInfo) detectMDStat() {
	f, err := os.Open(info.MDStatPath)
	if err != nil {
		slog.Warn("md status source not readable", "path", info.MDStatPath, "error", err)
		return
	}
	_ = f.Close()
	info.MDStatReadable = true
}

func (info *SystemInfo) detectMdadm(mdadm tools.ToolInterface) {
	if !mdadm.IsAvailable() {
		slog.Info("mdadm not found, array detail enrichment disabled")
		return
	}
	info.HasMdadm = true
	if path, err := exec.LookPath(mdadm.GetName()); err == nil {
		info.MdadmPath = path
	}
	info.MdadmVersion = mdadm.GetVersion()
}

// logDetectedCapabilities logs the detected system capabilities
func (d *Detector) logDetectedCapabilities(info *SystemInfo) {
	slog.Info("system detection summary",
		"platform", info.Platform,
		"os", info.OS,
		"mdstat_path", info.MDStatPath,
		"mdstat_readable", info.MDStatReadable,
		"mdadm", info.HasMdadm,
		"mdadm_version", info.MdadmVersion)
}

// IsLinux returns true if running on Linux
func (info *SystemInfo) IsLinux() bool {
	return info.Platform == PlatformLinux
}

// CanMonitorRAID returns true if the md status source can be read
func (info *SystemInfo) CanMonitorRAID() bool {
	return info.MDStatReadable
}

// CanEnrich returns true if mdadm is available for array details
func (info *SystemInfo) CanEnrich() bool {
	return info.HasMdadm
}
