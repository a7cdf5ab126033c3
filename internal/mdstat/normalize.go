package mdstat

import "strings"

const lineCutset = " \t\r\v"

// Normalize splits text into lines, trims surrounding whitespace from each
// and drops the ones left empty. Order is preserved.
func Normalize(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.Trim(line, lineCutset)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
