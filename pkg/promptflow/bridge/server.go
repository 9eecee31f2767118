package bridge

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/event"
	"github.com/promptflow/promptflow/pkg/promptflow/observability"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// Server is the remote end of the bridge: it accepts WebSocket connections,
// reads execution.start requests, runs them with a local runner, and streams
// status messages back. All connections share one gate, so the single-run
// invariant holds across clients.
type Server struct {
	registry *promptflow.ExecutorRegistry
	gate     *promptflow.ExecutionGate
	provider provider.Client
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	upgrader websocket.Upgrader
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerGate sets the shared execution gate.
func WithServerGate(gate *promptflow.ExecutionGate) ServerOption {
	return func(s *Server) {
		if gate != nil {
			s.gate = gate
		}
	}
}

// WithServerProvider sets the collaborator client handed to executors.
func WithServerProvider(client provider.Client) ServerOption {
	return func(s *Server) { s.provider = client }
}

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerMetrics sets the metrics recorder.
func WithServerMetrics(m observability.MetricsRecorder) ServerOption {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithServerSpanManager sets the trace span manager.
func WithServerSpanManager(sm observability.SpanManager) ServerOption {
	return func(s *Server) {
		if sm != nil {
			s.spans = sm
		}
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates a bridge server dispatching to the given registry.
func NewServer(registry *promptflow.ExecutorRegistry, opts ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		gate:     promptflow.NewGate(),
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the request and serves execution requests until the
// connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := NewWSConn(ws)
	defer conn.Close()
	s.serve(r, conn)
}

func (s *Server) serve(r *http.Request, conn Conn) {
	for {
		msg, err := conn.Receive()
		if err != nil {
			return
		}
		if msg.Type != MsgExecutionStart {
			s.logger.Warn("unexpected message type", slog.String("type", msg.Type))
			continue
		}

		var req promptflow.RunRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.sendFailed(conn, "malformed execution request: "+err.Error())
			continue
		}

		// One run per connection at a time; the next request is read only
		// after this run ends, matching the single-run invariant.
		s.runFlow(r, conn, req)
	}
}

func (s *Server) runFlow(r *http.Request, conn Conn, req promptflow.RunRequest) {
	bus := event.NewBus()
	defer bus.Close()

	runner := promptflow.NewRunner(s.registry,
		promptflow.WithBus(bus),
		promptflow.WithGate(s.gate),
		promptflow.WithMetrics(s.metrics),
		promptflow.WithSpanManager(s.spans),
	)

	sub := bus.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for evt := range sub.C {
			s.forward(conn, evt)
		}
	}()

	ctx := promptflow.NewContext(r.Context(),
		promptflow.WithLogger(s.logger),
		promptflow.WithProvider(s.provider),
	)
	state, err := runner.Run(ctx, req)

	sub.Unsubscribe()
	wg.Wait()

	switch {
	case err != nil:
		s.sendFailed(conn, err.Error())
	case state.GlobalError != "":
		s.sendFailed(conn, state.GlobalError)
	default:
		s.send(conn, MsgExecutionCompleted, CompletedPayload{Outputs: state.NodeOutputs})
	}
}

// forward translates one bus event into its wire message. Terminal per-node
// results travel as completed/failed messages; the plain status message only
// carries non-terminal transitions.
func (s *Server) forward(conn Conn, evt event.Event) {
	switch evt.Type {
	case event.TypeRunStarted:
		s.send(conn, MsgExecutionStarted, StartedPayload{RunID: evt.RunID})

	case event.TypeNodeStatus:
		switch promptflow.NodeStatus(evt.Status) {
		case promptflow.StatusPending, promptflow.StatusRunning, promptflow.StatusSkipped:
			s.send(conn, MsgNodeStatus, NodeStatusPayload{NodeID: evt.NodeID, Status: evt.Status})
		}

	case event.TypeNodeOutput:
		output, ok := evt.Output.(promptflow.NodeOutput)
		if !ok {
			return
		}
		if output.HasError() {
			s.send(conn, MsgNodeFailed, NodeFailedPayload{NodeID: evt.NodeID, Error: output.Error})
		} else {
			s.send(conn, MsgNodeCompleted, NodeCompletedPayload{NodeID: evt.NodeID, Output: output})
		}
	}
}

func (s *Server) send(conn Conn, msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		s.logger.Error("encode message failed",
			slog.String("type", msgType), slog.String("error", err.Error()))
		return
	}
	if err := conn.Send(msg); err != nil {
		s.logger.Warn("send failed",
			slog.String("type", msgType), slog.String("error", err.Error()))
	}
}

func (s *Server) sendFailed(conn Conn, errText string) {
	s.send(conn, MsgExecutionFailed, FailedPayload{Error: errText})
}
