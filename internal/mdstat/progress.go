package mdstat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedFormat is returned when a progress or bitmap line does not
// have the expected shape.
var ErrUnexpectedFormat = errors.New("unexpected format")

const (
	finishPrefix = "finish="
	speedPrefix  = "speed="
)

// ParseProgress parses the remainder of a recovery, resync or check line:
//
//	15.5% (303746432/1953514496) finish=115.2min speed=162033K/sec
//
// Values are returned verbatim once the finish= and speed= prefixes are
// removed. Any token count other than four is an error.
func ParseProgress(raw string) (ProgressInfo, error) {
	tokens := strings.Fields(raw)
	if len(tokens) != 4 {
		return ProgressInfo{}, fmt.Errorf("%w: progress has %d tokens, want 4", ErrUnexpectedFormat, len(tokens))
	}
	return ProgressInfo{
		Progress:  tokens[0] + " " + tokens[1],
		FinishETA: strings.TrimPrefix(tokens[2], finishPrefix),
		Speed:     strings.TrimPrefix(tokens[3], speedPrefix),
	}, nil
}
