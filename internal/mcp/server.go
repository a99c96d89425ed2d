package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/edgedock/internal/ipc"
)

const (
	ServerName    = "edgedock"
	ServerVersion = "0.1.0"
)

// DockClient is the subset of the IPC client the tools call.
type DockClient interface {
	GetStatus() (*ipc.StatusData, error)
	Show() error
	Hide() error
}

var _ DockClient = (*ipc.Client)(nil)

// Server is the MCP server exposing the running dock.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DockClient
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards to the daemon over IPC.
func NewServer(client DockClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client: client,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock_status",
		Description: "Report the edge dock's state: active policy, whether the panel is shown or hidden, debounce counters, the last action and the panel's x position.",
	}, s.handleDockStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock_show",
		Description: "Bring the docked panel into view immediately, bypassing the edge debounce. The panel retracts again under the normal rules once the pointer leaves it.",
	}, s.handleDockShow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock_hide",
		Description: "Hide the docked panel immediately. It reappears when the pointer is held against the left screen edge.",
	}, s.handleDockHide)
}
