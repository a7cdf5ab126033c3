package types

// HealthStatus represents md array health status values
type HealthStatus int

const (
	HealthStatusUnknown  HealthStatus = 0
	HealthStatusOK       HealthStatus = 1
	HealthStatusWarning  HealthStatus = 2
	HealthStatusCritical HealthStatus = 3
)

func (h HealthStatus) String() string {
	switch h {
	case HealthStatusOK:
		return "ok"
	case HealthStatusWarning:
		return "warning"
	case HealthStatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ToolInfo represents information about available system tools
type ToolInfo struct {
	Mdadm        bool
	MdadmPath    string
	MdadmVersion string
}

// MdadmDetail is the subset of `mdadm --detail` output the exporter uses
// to enrich an array.
type MdadmDetail struct {
	Device         string `json:"device"`
	Name           string `json:"name,omitempty"`
	UUID           string `json:"uuid,omitempty"`
	Level          string `json:"level,omitempty"`
	State          string `json:"state,omitempty"`
	ArraySize      string `json:"array_size,omitempty"`
	RaidDevices    int    `json:"raid_devices"`
	TotalDevices   int    `json:"total_devices"`
	ActiveDevices  int    `json:"active_devices"`
	WorkingDevices int    `json:"working_devices"`
	FailedDevices  int    `json:"failed_devices"`
	SpareDevices   int    `json:"spare_devices"`
	Persistence    string `json:"persistence,omitempty"`
	UpdateTime     string `json:"update_time,omitempty"`
	Bitmap         string `json:"bitmap,omitempty"` // "Intent Bitmap" line
}
