package mcp

import "github.com/1broseidon/edgedock/internal/ipc"

// DockStatusInput is the input for the dock_status tool.
type DockStatusInput struct{}

// DockStatusOutput is the output for the dock_status tool.
type DockStatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// DockVisibilityInput is the input for the dock_show and dock_hide tools.
type DockVisibilityInput struct {
	Reason string `json:"reason,omitempty" jsonschema:"Optional note recorded in the daemon log"`
}

// DockVisibilityOutput is the output for the dock_show and dock_hide tools.
type DockVisibilityOutput struct {
	Requested string `json:"requested"`
	Queued    bool   `json:"queued"`
}
