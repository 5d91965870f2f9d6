package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/wm"
)

// DefaultRequestTimeout bounds how long a connection waits for the daemon.
const DefaultRequestTimeout = 5 * time.Second

// Handler executes IPC commands. Implementations forward them to the daemon
// loop and wait for its reply.
type Handler interface {
	RunAction(ctx context.Context, a action.Action) error
	State(ctx context.Context) (wm.Snapshot, error)
	Reload(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler
	logger     *slog.Logger
	timeout    time.Duration
	startTime  time.Time

	ctx    context.Context
	cancel context.CancelFunc
	conns  sync.WaitGroup

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on socketPath. A stale socket file is
// removed.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	os.Remove(socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
		timeout:    DefaultRequestTimeout,
		startTime:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

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
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	resp := s.handleCommand(req)
	resp.ID = req.ID
	s.writeResponse(conn, resp)
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "id", req.ID, "command", req.Command)

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	switch req.Command {
	case CommandAction:
		return s.handleAction(ctx, req.Payload)
	case CommandGetState:
		return s.handleGetState(ctx)
	case CommandReload:
		return s.handleReload(ctx)
	case CommandStop:
		return s.handleStop(ctx)
	case CommandPing:
		return s.handlePing()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleAction(ctx context.Context, payload json.RawMessage) *Response {
	var p ActionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	a, err := action.Parse(p.Action)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.handler.RunAction(ctx, a); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run %s: %v", a, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetState(ctx context.Context) *Response {
	snap, err := s.handler.State(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get state: %v", err))
	}
	resp, err := NewOKResponse(snap)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("IPC: received RELOAD")
	if err := s.handler.Reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleStop(ctx context.Context) *Response {
	s.logger.Info("IPC: received STOP")
	if err := s.handler.Stop(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to stop daemon: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handlePing() *Response {
	resp, _ := NewOKResponse(PingData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		PID:           os.Getpid(),
	})
	return resp
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// Stop closes the listener, cancels in-flight requests and removes the
// socket. It waits for open connections to finish.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
