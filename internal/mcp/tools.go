package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleDockStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ DockStatusInput) (*mcpsdk.CallToolResult, DockStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, DockStatusOutput{}, fmt.Errorf("dock_status: %w", err)
	}
	return nil, DockStatusOutput{Status: *status}, nil
}

func (s *Server) handleDockShow(_ context.Context, _ *mcpsdk.CallToolRequest, args DockVisibilityInput) (*mcpsdk.CallToolResult, DockVisibilityOutput, error) {
	return s.forceVisibility("show", args, s.client.Show)
}

func (s *Server) handleDockHide(_ context.Context, _ *mcpsdk.CallToolRequest, args DockVisibilityInput) (*mcpsdk.CallToolResult, DockVisibilityOutput, error) {
	return s.forceVisibility("hide", args, s.client.Hide)
}

func (s *Server) forceVisibility(name string, args DockVisibilityInput, send func() error) (*mcpsdk.CallToolResult, DockVisibilityOutput, error) {
	if err := send(); err != nil {
		return nil, DockVisibilityOutput{}, fmt.Errorf("dock_%s: %w", name, err)
	}
	s.logger.Info("mcp: forced visibility", "requested", name, "reason", args.Reason)

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Panel %s queued; it takes effect on the next tick.", name)},
		},
	}, DockVisibilityOutput{Requested: name, Queued: true}, nil
}
