package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"mdstat-exporter/internal/mdstat"
)

// TableFormatter formats views as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

type valuer interface {
	Values() []string
}

// FormatArrays formats the array view. Only the identifying and health
// columns are shown; use YAML or JSON for every column.
func (f *TableFormatter) FormatArrays(rows []mdstat.ArrayRow) (string, error) {
	if len(rows) == 0 {
		return "No arrays found\n", nil
	}

	header := []string{"device_name", "status", "raid_level", "healthy_drives", "usable_size", "operation", "progress", "finish"}
	lines := make([][]string, 0, len(rows))
	for _, r := range rows {
		operation, progress, finish := "", "", ""
		switch {
		case r.DiscoveryProgress != "":
			operation, progress, finish = "recovery", r.DiscoveryProgress, r.DiscoveryFinish
		case r.ResyncProgress != "":
			operation, progress, finish = "resync", r.ResyncProgress, r.ResyncFinish
		case r.CheckArrayProgress != "":
			operation, progress, finish = "check", r.CheckArrayProgress, r.CheckArrayFinish
		}
		lines = append(lines, []string{r.DeviceName, r.Status, r.RaidLevel, r.HealthyDrives, r.UsableSize, operation, progress, finish})
	}
	return f.render(header, lines), nil
}

// FormatDrives formats the drive view.
func (f *TableFormatter) FormatDrives(rows []mdstat.DriveRow) (string, error) {
	if len(rows) == 0 {
		return "No drives found\n", nil
	}
	return f.render(mdstat.DriveColumns, valuesOf(rows)), nil
}

// FormatPersonalities formats the personality view.
func (f *TableFormatter) FormatPersonalities(rows []mdstat.PersonalityRow) (string, error) {
	if len(rows) == 0 {
		return "No personalities found\n", nil
	}
	return f.render(mdstat.PersonalityColumns, valuesOf(rows)), nil
}

func valuesOf[T valuer](rows []T) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Values())
	}
	return out
}

func (f *TableFormatter) render(header []string, rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, strings.ToUpper(strings.Join(header, "\t")))
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == "" {
				v = "-"
			}
			cells[i] = v
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	_ = w.Flush()
	return buf.String()
}
