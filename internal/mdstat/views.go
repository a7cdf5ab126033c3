package mdstat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnresolvableSlot is returned when a member's slot cannot be located in
// the drive status bitmap.
var ErrUnresolvableSlot = errors.New("unresolvable slot")

// Column names of the three views. They are the external contract of the
// exporter and must not be renamed.
var (
	ArrayColumns = []string{
		"device_name", "status", "raid_level", "healthy_drives", "usable_size",
		"discovery_progress", "discovery_finish", "discovery_speed",
		"resync_progress", "resync_finish", "resync_speed",
		"check_array_progress", "check_array_finish", "check_array_speed",
		"bitmap_on_mem", "bitmap_chunk_size", "bitmap_external_file",
		"unused_devices",
	}
	DriveColumns       = []string{"md_device_name", "drive_name", "status"}
	PersonalityColumns = []string{"name"}
)

// ArrayRow is one row of the array view. Recovery is published under the
// discovery_ prefix.
type ArrayRow struct {
	DeviceName         string `json:"device_name" yaml:"device_name"`
	Status             string `json:"status" yaml:"status"`
	RaidLevel          string `json:"raid_level" yaml:"raid_level"`
	HealthyDrives      string `json:"healthy_drives" yaml:"healthy_drives"`
	UsableSize         string `json:"usable_size" yaml:"usable_size"`
	DiscoveryProgress  string `json:"discovery_progress,omitempty" yaml:"discovery_progress,omitempty"`
	DiscoveryFinish    string `json:"discovery_finish,omitempty" yaml:"discovery_finish,omitempty"`
	DiscoverySpeed     string `json:"discovery_speed,omitempty" yaml:"discovery_speed,omitempty"`
	ResyncProgress     string `json:"resync_progress,omitempty" yaml:"resync_progress,omitempty"`
	ResyncFinish       string `json:"resync_finish,omitempty" yaml:"resync_finish,omitempty"`
	ResyncSpeed        string `json:"resync_speed,omitempty" yaml:"resync_speed,omitempty"`
	CheckArrayProgress string `json:"check_array_progress,omitempty" yaml:"check_array_progress,omitempty"`
	CheckArrayFinish   string `json:"check_array_finish,omitempty" yaml:"check_array_finish,omitempty"`
	CheckArraySpeed    string `json:"check_array_speed,omitempty" yaml:"check_array_speed,omitempty"`
	BitmapOnMem        string `json:"bitmap_on_mem,omitempty" yaml:"bitmap_on_mem,omitempty"`
	BitmapChunkSize    string `json:"bitmap_chunk_size,omitempty" yaml:"bitmap_chunk_size,omitempty"`
	BitmapExternalFile string `json:"bitmap_external_file,omitempty" yaml:"bitmap_external_file,omitempty"`
	UnusedDevices      string `json:"unused_devices" yaml:"unused_devices"`
}

// Values returns the row in ArrayColumns order.
func (r ArrayRow) Values() []string {
	return []string{
		r.DeviceName, r.Status, r.RaidLevel, r.HealthyDrives, r.UsableSize,
		r.DiscoveryProgress, r.DiscoveryFinish, r.DiscoverySpeed,
		r.ResyncProgress, r.ResyncFinish, r.ResyncSpeed,
		r.CheckArrayProgress, r.CheckArrayFinish, r.CheckArraySpeed,
		r.BitmapOnMem, r.BitmapChunkSize, r.BitmapExternalFile,
		r.UnusedDevices,
	}
}

// DriveRow is one member drive of an array. Status is "1" when the slot is
// up, "0" otherwise, and empty when the slot could not be resolved.
type DriveRow struct {
	MDDeviceName string `json:"md_device_name" yaml:"md_device_name"`
	DriveName    string `json:"drive_name" yaml:"drive_name"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Device is the drive name without its slot and flags, e.g. "sdg1" for
// "sdg1[1](F)".
func (r DriveRow) Device() string {
	name, _, _ := strings.Cut(r.DriveName, "[")
	return name
}

// Values returns the row in DriveColumns order.
func (r DriveRow) Values() []string {
	return []string{r.MDDeviceName, r.DriveName, r.Status}
}

// PersonalityRow is one enabled RAID personality.
type PersonalityRow struct {
	Name string `json:"name" yaml:"name"`
}

// Values returns the row in PersonalityColumns order.
func (r PersonalityRow) Values() []string {
	return []string{r.Name}
}

// ArrayRows projects one row per array.
func ArrayRows(s Snapshot, sink Sink) []ArrayRow {
	sink = sinkOrDiscard(sink)
	rows := make([]ArrayRow, 0, len(s.Arrays))
	for _, a := range s.Arrays {
		row := ArrayRow{
			DeviceName:    a.Name,
			Status:        a.Status,
			RaidLevel:     a.RaidLevel,
			HealthyDrives: a.HealthyDrivesRatio,
			UsableSize:    a.UsableSize,
			UnusedDevices: s.UnusedDevices,
		}

		if p, ok := projectProgress(a.Name, "recovery", a.Recovery, sink); ok {
			row.DiscoveryProgress, row.DiscoveryFinish, row.DiscoverySpeed = p.Progress, p.FinishETA, p.Speed
		}
		if p, ok := projectProgress(a.Name, "resync", a.Resync, sink); ok {
			row.ResyncProgress, row.ResyncFinish, row.ResyncSpeed = p.Progress, p.FinishETA, p.Speed
		}
		if p, ok := projectProgress(a.Name, "check", a.CheckArray, sink); ok {
			row.CheckArrayProgress, row.CheckArrayFinish, row.CheckArraySpeed = p.Progress, p.FinishETA, p.Speed
		}

		if a.Bitmap != "" {
			b, err := ParseBitmap(a.Bitmap)
			if err != nil {
				warn(sink, "array %s: bitmap: %v", a.Name, err)
			} else {
				row.BitmapOnMem = b.PagesInMemory
				row.BitmapChunkSize = b.ChunkSize
				row.BitmapExternalFile = b.ExternalFile
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func projectProgress(array, operation, raw string, sink Sink) (ProgressInfo, bool) {
	if raw == "" {
		return ProgressInfo{}, false
	}
	p, err := ParseProgress(raw)
	if err != nil {
		warn(sink, "array %s: %s: %v", array, operation, err)
		return ProgressInfo{}, false
	}
	return p, true
}

// DriveRows projects one row per member token. Tokens without a bracketed
// slot are skipped; tokens whose slot is outside the status bitmap are kept
// without a status.
func DriveRows(s Snapshot, sink Sink) []DriveRow {
	sink = sinkOrDiscard(sink)
	var rows []DriveRow
	for _, a := range s.Arrays {
		for _, token := range a.MemberTokens {
			slot, ok := memberSlot(token)
			if !ok {
				warn(sink, "array %s: member %q has no slot", a.Name, token)
				continue
			}

			row := DriveRow{MDDeviceName: a.Name, DriveName: token}
			status, err := slotStatus(a.DriveStatusBitmap, slot)
			if err != nil {
				warn(sink, "array %s: member %q: %v", a.Name, token, err)
			} else {
				row.Status = status
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// memberSlot returns the text between the first '[' and the following ']'.
func memberSlot(token string) (string, bool) {
	_, rest, ok := strings.Cut(token, "[")
	if !ok {
		return "", false
	}
	slot, _, ok := strings.Cut(rest, "]")
	return slot, ok
}

// slotStatus reads the bitmap character for slot. The bitmap carries its
// brackets, so slot n lives at index n+1 and valid slots are [0, len-2).
func slotStatus(bitmap, slot string) (string, error) {
	n, err := strconv.Atoi(slot)
	if err != nil {
		return "", fmt.Errorf("%w: slot %q is not a number", ErrUnresolvableSlot, slot)
	}
	if n < 0 || n >= len(bitmap)-2 {
		return "", fmt.Errorf("%w: slot %d outside status bitmap %q", ErrUnresolvableSlot, n, bitmap)
	}
	if bitmap[n+1] == 'U' {
		return "1", nil
	}
	return "0", nil
}

// PersonalityRows projects one row per bracketed personality name.
func PersonalityRows(s Snapshot, sink Sink) []PersonalityRow {
	sink = sinkOrDiscard(sink)
	var rows []PersonalityRow
	for _, token := range strings.Fields(s.Personalities) {
		name := unbracket(token)
		if name == token || name == "" {
			warn(sink, "personality %q is not bracketed", token)
			continue
		}
		rows = append(rows, PersonalityRow{Name: name})
	}
	return rows
}

func warn(sink Sink, format string, args ...any) {
	sink.Report(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}
