package health

import (
	"context"
	"log/slog"
	"time"

	"mdstat-exporter/internal/collector"
	"mdstat-exporter/internal/disk/tools"
	"mdstat-exporter/internal/system"
	"mdstat-exporter/internal/utils"
	"mdstat-exporter/pkg/types"
)

const serviceName = "mdstat-exporter"

// ResultProvider returns the latest collection result.
type ResultProvider interface {
	Current() *collector.Result
}

// Service provides health data collection functionality
type Service struct {
	results  ResultProvider
	sysInfo  *system.SystemInfo
	enricher tools.SoftwareRAIDToolInterface
	version  string
}

// New creates a new health service. enricher may be nil to skip mdadm details.
func New(results ResultProvider, sysInfo *system.SystemInfo, enricher tools.SoftwareRAIDToolInterface, version string) *Service {
	return &Service{
		results:  results,
		sysInfo:  sysInfo,
		enricher: enricher,
		version:  version,
	}
}

// GetHealthData builds the JSON health document from the latest collection
func (s *Service) GetHealthData(ctx context.Context) *types.HealthResponse {
	response := &types.HealthResponse{
		Status:     "ok",
		Service:    serviceName,
		Version:    s.version,
		Timestamp:  time.Now().Format(time.RFC3339),
		SystemInfo: s.systemInfo(),
		Arrays:     []types.ArrayHealth{},
	}

	result := s.results.Current()
	if result == nil {
		response.Status = "starting"
		return response
	}

	response.LastCollected = result.Time.Format(time.RFC3339)
	if result.Err != nil {
		response.Status = "degraded"
		response.Diagnostics = append(response.Diagnostics, result.Err.Error())
	}
	for _, d := range result.Diagnostics {
		response.Diagnostics = append(response.Diagnostics, d.String())
	}

	response.UnusedDevices = result.Snapshot.UnusedDevices
	for _, p := range result.Views.Personalities {
		response.Personalities = append(response.Personalities, p.Name)
	}

	drives := make(map[string][]types.DriveHealth)
	for _, d := range result.Views.Drives {
		drives[d.MDDeviceName] = append(drives[d.MDDeviceName], types.DriveHealth{Name: d.DriveName, Status: d.Status})
		response.ArraySummary.TotalDrives++
		switch d.Status {
		case "1":
			response.ArraySummary.DrivesUp++
		case "0":
			response.ArraySummary.DrivesDown++
		}
	}

	for _, a := range result.Snapshot.Arrays {
		operation, progress := a.ActiveOperation()
		state := utils.ArrayState(a.Status, a.HealthyDrivesRatio, operation)
		code := utils.GetSoftwareRAIDStatusValue(state)

		health := types.ArrayHealth{
			Device:        a.Name,
			RaidLevel:     a.RaidLevel,
			Status:        a.Status,
			State:         state,
			HealthCode:    code,
			HealthyDrives: a.HealthyDrivesRatio,
			UsableSize:    a.UsableSize,
			Operation:     operation,
			Drives:        drives[a.Name],
		}
		if progress != nil {
			health.Progress = progress.Progress
			health.Finish = progress.FinishETA
		}
		if s.enricher != nil {
			health.Detail = s.detail(ctx, a.Name)
		}
		response.Arrays = append(response.Arrays, health)

		response.ArraySummary.TotalArrays++
		switch types.HealthStatus(code) {
		case types.HealthStatusOK:
			response.ArraySummary.HealthyArrays++
		case types.HealthStatusWarning:
			response.ArraySummary.WarningArrays++
		case types.HealthStatusCritical:
			response.ArraySummary.CriticalArrays++
		default:
			response.ArraySummary.UnknownArrays++
		}
	}

	if response.Status == "ok" && (response.ArraySummary.WarningArrays > 0 || response.ArraySummary.CriticalArrays > 0) {
		response.Status = "degraded"
	}
	return response
}

// detail asks mdadm about one array. Failures only drop that array's detail.
func (s *Service) detail(ctx context.Context, device string) *types.MdadmDetail {
	detail, err := s.enricher.Detail(ctx, device)
	if err != nil {
		slog.Warn("mdadm detail failed", "device", device, "error", err)
		return nil
	}
	return detail
}

func (s *Service) systemInfo() types.SystemInfo {
	if s.sysInfo == nil {
		return types.SystemInfo{}
	}
	return types.SystemInfo{
		Platform:       string(s.sysInfo.Platform),
		OS:             s.sysInfo.OS,
		MDStatPath:     s.sysInfo.MDStatPath,
		MDStatReadable: s.sysInfo.MDStatReadable,
		MdadmPath:      s.sysInfo.MdadmPath,
		MdadmVersion:   s.sysInfo.MdadmVersion,
	}
}
