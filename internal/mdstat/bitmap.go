package mdstat

import (
	"fmt"
	"strings"
)

const filePrefix = "file:"

// ParseBitmap parses the remainder of a bitmap line:
//
//	0/8 pages [0KB], 65536KB chunk, file: /var/md0-bitmap
func ParseBitmap(raw string) (BitmapInfo, error) {
	segments := strings.Split(raw, ",")
	if len(segments) < 2 {
		return BitmapInfo{}, fmt.Errorf("%w: bitmap has %d segments, want at least 2", ErrUnexpectedFormat, len(segments))
	}

	info := BitmapInfo{
		PagesInMemory: strings.TrimSpace(segments[0]),
		ChunkSize:     strings.TrimSpace(segments[1]),
	}
	if len(segments) > 2 {
		// a file path may itself contain commas
		rest := strings.TrimSpace(strings.Join(segments[2:], ","))
		if file, ok := strings.CutPrefix(rest, filePrefix); ok {
			info.ExternalFile = strings.TrimSpace(file)
		}
	}
	return info, nil
}
