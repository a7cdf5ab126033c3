package mdstat

// RaidArray is a single md device block as printed in the status text.
// Progress and bitmap lines are kept raw and interpreted on projection.
type RaidArray struct {
	Name               string
	Status             string
	RaidLevel          string
	MemberTokens       []string
	UsableSize         string
	OtherSettings      string
	HealthyDrivesRatio string
	DriveStatusBitmap  string

	Recovery   string
	Resync     string
	CheckArray string
	Bitmap     string
}

// ProgressInfo describes a running recovery, resync or check operation.
type ProgressInfo struct {
	Progress  string
	FinishETA string
	Speed     string
}

// BitmapInfo describes the write-intent bitmap of an array.
type BitmapInfo struct {
	PagesInMemory string
	ChunkSize     string
	ExternalFile  string
}

// Snapshot is the result of one parse of the status text.
type Snapshot struct {
	Personalities string
	Arrays        []RaidArray
	UnusedDevices string
}

// RecoveryProgress returns the parsed recovery line, or nil when the array
// is not recovering or the line could not be parsed.
func (a RaidArray) RecoveryProgress() *ProgressInfo {
	return optionalProgress(a.Recovery)
}

// ResyncProgress returns the parsed resync line, if any.
func (a RaidArray) ResyncProgress() *ProgressInfo {
	return optionalProgress(a.Resync)
}

// CheckProgress returns the parsed check line, if any.
func (a RaidArray) CheckProgress() *ProgressInfo {
	return optionalProgress(a.CheckArray)
}

// BitmapInfo returns the parsed bitmap line, if any.
func (a RaidArray) BitmapInfo() *BitmapInfo {
	if a.Bitmap == "" {
		return nil
	}
	info, err := ParseBitmap(a.Bitmap)
	if err != nil {
		return nil
	}
	return &info
}

// ActiveOperation returns the running operation ("recovery", "resync" or
// "check") and its progress. Recovery wins when several lines are present.
func (a RaidArray) ActiveOperation() (string, *ProgressInfo) {
	switch {
	case a.Recovery != "":
		return "recovery", a.RecoveryProgress()
	case a.Resync != "":
		return "resync", a.ResyncProgress()
	case a.CheckArray != "":
		return "check", a.CheckProgress()
	default:
		return "", nil
	}
}

func optionalProgress(raw string) *ProgressInfo {
	if raw == "" {
		return nil
	}
	info, err := ParseProgress(raw)
	if err != nil {
		return nil
	}
	return &info
}

// Array returns the array with the given name.
func (s Snapshot) Array(name string) (RaidArray, bool) {
	for _, a := range s.Arrays {
		if a.Name == name {
			return a, true
		}
	}
	return RaidArray{}, false
}
