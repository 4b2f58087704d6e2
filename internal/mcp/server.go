// Package mcp exposes the running navcursor daemon to MCP clients over
// stdio. Every tool is a thin forward to the daemon's control socket, so
// the server carries no cursor state of its own.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/navkit/navcursor/internal/ipc"
)

const (
	ServerName    = "navcursor"
	ServerVersion = "0.1.0"
)

// controlClient is the slice of the IPC client the tools need. Tests
// substitute a stub.
type controlClient interface {
	GetStatus() (*ipc.StatusData, error)
	Freeze() error
	Resume() error
	Refocus() error
	GetFocused() (*ipc.FocusedData, error)
}

// Server is the MCP server for navcursor daemon control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    controlClient
}

// NewServer creates an MCP server talking to the daemon at socketPath
// (empty means the default runtime socket).
func NewServer(socketPath string) *Server {
	var client *ipc.Client
	if socketPath == "" {
		client = ipc.NewClient()
	} else {
		client = ipc.NewClientForSocket(socketPath)
	}

	s := &Server{client: client}
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
		Name:        "cursor_status",
		Description: "Get the navcursor daemon status: lifecycle phase, frozen flag, focus marker, currently focused element and uptime.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cursor_freeze",
		Description: "Freeze the cursor overlay: focus changes keep being tracked but the overlay stops moving until cursor_resume.",
	}, s.handleFreeze)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cursor_resume",
		Description: "Resume a frozen cursor overlay and reposition it on the tracked element. No-op when not frozen.",
	}, s.handleResume)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cursor_refocus",
		Description: "Force a fresh focus resolution pass: re-read the marked element and snap the overlay onto it.",
	}, s.handleRefocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cursor_focused",
		Description: "Get the element the cursor currently tracks, if any.",
	}, s.handleFocused)
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorStatusInput) (*mcpsdk.CallToolResult, CursorStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, CursorStatusOutput{}, fmt.Errorf("daemon not reachable: %w", err)
	}
	return nil, CursorStatusOutput{
		Phase:         status.Phase,
		Frozen:        status.Frozen,
		FocusMarker:   status.FocusMarker,
		FocusedID:     status.FocusedID,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleFreeze(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorFreezeInput) (*mcpsdk.CallToolResult, CursorFreezeOutput, error) {
	if err := s.client.Freeze(); err != nil {
		return nil, CursorFreezeOutput{}, err
	}
	return nil, CursorFreezeOutput{Frozen: true}, nil
}

func (s *Server) handleResume(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorResumeInput) (*mcpsdk.CallToolResult, CursorResumeOutput, error) {
	if err := s.client.Resume(); err != nil {
		return nil, CursorResumeOutput{}, err
	}
	return nil, CursorResumeOutput{Frozen: false}, nil
}

func (s *Server) handleRefocus(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorRefocusInput) (*mcpsdk.CallToolResult, CursorRefocusOutput, error) {
	if err := s.client.Refocus(); err != nil {
		return nil, CursorRefocusOutput{}, err
	}
	focused, err := s.client.GetFocused()
	if err != nil {
		return nil, CursorRefocusOutput{}, err
	}
	return nil, CursorRefocusOutput{FocusedID: focused.FocusedID}, nil
}

func (s *Server) handleFocused(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorFocusedInput) (*mcpsdk.CallToolResult, CursorFocusedOutput, error) {
	focused, err := s.client.GetFocused()
	if err != nil {
		return nil, CursorFocusedOutput{}, err
	}
	return nil, CursorFocusedOutput{
		FocusedID: focused.FocusedID,
		Tracked:   focused.Tracked,
	}, nil
}
