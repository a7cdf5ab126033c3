package mcptools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mdstat-exporter/internal/mdstat"
)

const (
	toolNameDevices       = "md_devices"
	toolNameDrives        = "md_drives"
	toolNamePersonalities = "md_personalities"
)

// ViewQuerier returns fresh mdstat views on every call.
type ViewQuerier interface {
	Arrays(ctx context.Context) []mdstat.ArrayRow
	Drives(ctx context.Context) []mdstat.DriveRow
	Personalities(ctx context.Context) []mdstat.PersonalityRow
}

var _ ViewQuerier = (*mdstat.Querier)(nil)

// MDStatTools returns the read-only tool registrations.
func MDStatTools(q ViewQuerier) []Registration {
	return []Registration{
		mdDevices(q),
		mdDrives(q),
		mdPersonalities(q),
	}
}

func mdDevices(q ViewQuerier) Registration {
	tool := mcp.NewTool(toolNameDevices,
		mcp.WithDescription("List Linux software RAID (md) arrays with status, level, healthy drive ratio, size, resync/recovery/check progress and bitmap settings."),
		mcp.WithString("device", mcp.Description("Only return this md device, e.g. md0")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		device := req.GetString("device", "")
		rows := q.Arrays(ctx)
		if device == "" {
			return JSONResult(nonNil(rows)), nil
		}

		for _, r := range rows {
			if r.DeviceName == device {
				return JSONResult([]mdstat.ArrayRow{r}), nil
			}
		}
		slog.Debug("md device not found", "tool", toolNameDevices, "device", device)
		return ErrorResult(fmt.Sprintf("md device %q not found", device)), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func mdDrives(q ViewQuerier) Registration {
	tool := mcp.NewTool(toolNameDrives,
		mcp.WithDescription("List member drives of md arrays. status is \"1\" when the drive is up, \"0\" when it is down, and absent when it cannot be determined."),
		mcp.WithString("device", mcp.Description("Only return members of this md device, e.g. md0")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		device := req.GetString("device", "")
		rows := q.Drives(ctx)
		if device != "" {
			var filtered []mdstat.DriveRow
			for _, r := range rows {
				if r.MDDeviceName == device {
					filtered = append(filtered, r)
				}
			}
			rows = filtered
		}
		return JSONResult(nonNil(rows)), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func mdPersonalities(q ViewQuerier) Registration {
	tool := mcp.NewTool(toolNamePersonalities,
		mcp.WithDescription("List RAID personalities (levels) registered with the kernel."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return JSONResult(nonNil(q.Personalities(ctx))), nil
	}

	return Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
