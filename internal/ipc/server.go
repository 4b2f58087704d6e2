package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/navkit/navcursor/internal/cursor"
	"github.com/navkit/navcursor/internal/runtimepath"
)

// Server exposes a running cursor engine over a unix control socket.
type Server struct {
	socketPath   string
	listener     net.Listener
	engine       *cursor.Engine
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a control server for the given engine. socketPath may be
// empty to use the runtime default.
func NewServer(engine *cursor.Engine, socketPath string) (*Server, error) {
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve control socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		engine:     engine,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for control connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create control socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("Control server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("Control accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("Control read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandFreeze:
		return s.handleFreeze()
	case CommandResume:
		return s.handleResume()
	case CommandRefocus:
		return s.handleRefocus()
	case CommandGetFocused:
		return s.handleGetFocused()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		Phase:         s.engine.Phase().String(),
		Frozen:        s.engine.Frozen(),
		FocusMarker:   s.engine.Marker(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if el := s.engine.FocusedElement(); el != nil {
		status.FocusedID = el.ElementID()
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleFreeze() *Response {
	log.Println("Control: received FREEZE command")
	s.engine.Freeze()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResume() *Response {
	log.Println("Control: received RESUME command")
	s.engine.Resume()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRefocus() *Response {
	s.engine.Focus()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetFocused() *Response {
	data := FocusedData{}
	if el := s.engine.FocusedElement(); el != nil {
		data.FocusedID = el.ElementID()
		data.Tracked = true
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the control server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
