package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/logger"
	"github.com/finlens/insight-go/pipeline"
)

const wsWriteTimeout = 10 * time.Second

// wsRequest is one client frame.
type wsRequest struct {
	Action string `json:"action"`
	Type   string `json:"type,omitempty"`
	Force  bool   `json:"force,omitempty"`
}

// wsFrame is one server frame. Type is "stage", "result", or "error".
type wsFrame struct {
	Type   string               `json:"type"`
	Stage  pipeline.Stage       `json:"stage,omitempty"`
	Result *core.PipelineResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// wsSession serializes writes to one connection.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSession) send(f wsFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := s.conn.WriteJSON(f); err != nil {
		logger.L().Warnf("websocket write failed: %v", err)
	}
}

// handleWS streams pipeline runs over a websocket. The client sends
// {"action":"generate","type":...,"force":...} frames; the server
// answers each with stage frames followed by a result or error frame.
// The connection stays open for further actions.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := &wsSession{conn: conn}
	log := logger.L().WithField("userID", userID)
	log.Info("websocket connected")

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warnf("websocket read failed: %v", err)
			}
			return
		}

		switch req.Action {
		case "generate":
			s.wsGenerate(r.Context(), sess, userID, req)
		default:
			sess.send(wsFrame{Type: "error", Error: fmt.Sprintf("unknown action %q", req.Action)})
		}
	}
}

func (s *Server) wsGenerate(ctx context.Context, sess *wsSession, userID string, req wsRequest) {
	t, err := core.ParseInsightType(req.Type)
	if err != nil {
		sess.send(wsFrame{Type: "error", Error: err.Error()})
		return
	}

	res, err := s.insights.Run(ctx, userID, t, pipeline.RunOptions{
		Force: req.Force,
		OnStage: func(st pipeline.Stage) {
			sess.send(wsFrame{Type: "stage", Stage: st})
		},
	})
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			sess.send(wsFrame{Type: "error", Error: noDataMessage})
			return
		}
		sess.send(wsFrame{Type: "error", Error: err.Error()})
		return
	}
	sess.send(wsFrame{Type: "result", Result: res})
}
