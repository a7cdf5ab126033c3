package types

// HealthResponse represents the JSON health response
type HealthResponse struct {
	Status        string        `json:"status"`
	Service       string        `json:"service"`
	Version       string        `json:"version"`
	Timestamp     string        `json:"timestamp"`
	LastCollected string        `json:"last_collected,omitempty"`
	SystemInfo    SystemInfo    `json:"system_info"`
	ArraySummary  ArraySummary  `json:"array_summary"`
	Arrays        []ArrayHealth `json:"arrays"`
	Personalities []string      `json:"personalities"`
	UnusedDevices string        `json:"unused_devices,omitempty"`
	Diagnostics   []string      `json:"diagnostics,omitempty"`
}

// SystemInfo represents system information in JSON
type SystemInfo struct {
	Platform       string `json:"platform"`
	OS             string `json:"os"`
	MDStatPath     string `json:"mdstat_path"`
	MDStatReadable bool   `json:"mdstat_readable"`
	MdadmPath      string `json:"mdadm_path,omitempty"`
	MdadmVersion   string `json:"mdadm_version,omitempty"`
}

// ArraySummary provides a summary of md array health
type ArraySummary struct {
	TotalArrays    int `json:"total_arrays"`
	HealthyArrays  int `json:"healthy_arrays"`
	WarningArrays  int `json:"warning_arrays"`
	CriticalArrays int `json:"critical_arrays"`
	UnknownArrays  int `json:"unknown_arrays"`
	TotalDrives    int `json:"total_drives"`
	DrivesUp       int `json:"drives_up"`
	DrivesDown     int `json:"drives_down"`
}

// ArrayHealth represents individual md array health in JSON
type ArrayHealth struct {
	Device        string        `json:"device"`
	RaidLevel     string        `json:"raid_level"`
	Status        string        `json:"status"`
	State         string        `json:"state"`
	HealthCode    int           `json:"health_code"`
	HealthyDrives string        `json:"healthy_drives"`
	UsableSize    string        `json:"usable_size"`
	Operation     string        `json:"operation,omitempty"`
	Progress      string        `json:"progress,omitempty"`
	Finish        string        `json:"finish,omitempty"`
	Drives        []DriveHealth `json:"drives"`
	Detail        *MdadmDetail  `json:"detail,omitempty"`
}

// DriveHealth represents one member drive in JSON
type DriveHealth struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}
