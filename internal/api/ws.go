package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/review"
	"github.com/scribe-ai/scribe/internal/tokens"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgStart      = "start"
	wsMsgRegenerate = "regenerate"
	wsMsgEdit       = "edit"
	wsMsgPrevious   = "previous"
	wsMsgAccept     = "accept"
	wsMsgAbort      = "abort"
)

// WebSocket message types to client.
const (
	wsMsgCandidate = "candidate"
	wsMsgAccepted  = "accepted"
	wsMsgAborted   = "aborted"
	wsMsgError     = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsStart is the payload for "start" messages.
type wsStart struct {
	Diff         string `json:"diff"`
	Instructions string `json:"instructions,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	Gitmoji      *bool  `json:"gitmoji,omitempty"`
}

// wsRegenerate is the payload for "regenerate" messages.
type wsRegenerate struct {
	Refinement string `json:"refinement,omitempty"`
}

// wsEdit is the payload for "edit" messages.
type wsEdit struct {
	Text string `json:"text"`
}

// wsCandidate is sent every time the presented candidate changes.
type wsCandidate struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	State     string `json:"state"`
	History   int    `json:"history"`
}

// wsResult is sent when the session reaches a terminal state.
type wsResult struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text,omitempty"`
}

// wsSession holds one connection's review state. Messages on a
// connection are handled one at a time, so a session never has more
// than one provider call in flight.
type wsSession struct {
	session     *review.Session
	gen         review.Generator
	refinements []string
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var sess *wsSession

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		if msg.Type == wsMsgStart {
			sess = s.handleWSStart(ctx, conn, msg.Data)
			continue
		}
		if sess == nil {
			sendWSError(conn, "no session; send start first")
			continue
		}
		if sess.session.Done() {
			sendWSError(conn, "session already "+sess.session.State.String())
			continue
		}

		switch msg.Type {
		case wsMsgRegenerate:
			handleWSRegenerate(ctx, conn, sess, msg.Data)
		case wsMsgEdit:
			handleWSEdit(conn, sess, msg.Data)
		case wsMsgPrevious:
			handleWSPrevious(conn, sess)
		case wsMsgAccept:
			sess.session.Accept()
			sendWSMessage(conn, wsMsgAccepted, wsResult{SessionID: sess.session.ID, Text: sess.session.Current})
		case wsMsgAbort:
			sess.session.Abort()
			sendWSMessage(conn, wsMsgAborted, wsResult{SessionID: sess.session.ID})
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleWSStart(ctx context.Context, conn *websocket.Conn, data json.RawMessage) *wsSession {
	var req wsStart
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid start data")
		return nil
	}
	if req.Diff == "" {
		sendWSError(conn, "diff is required")
		return nil
	}

	snap, err := git.SnapshotFromDiff(req.Diff)
	if err != nil {
		sendWSError(conn, "parsing diff: "+err.Error())
		return nil
	}

	frags, err := prompt.FromSnapshot(snap, prompt.BuildOptions{Instructions: req.Instructions})
	if err != nil {
		sendWSError(conn, err.Error())
		return nil
	}

	backend, model, limit, err := s.newBackend(req.Provider, req.Model)
	if err != nil {
		sendWSError(conn, err.Error())
		return nil
	}

	gitmoji := s.cfg.Gitmoji
	if req.Gitmoji != nil {
		gitmoji = *req.Gitmoji
	}
	opts := prompt.Options{Task: prompt.TaskCommitMessage, Gitmoji: gitmoji}
	budget := prompt.Budget{MaxTokens: limit, ReservedForResponse: s.cfg.ReservedTokens}
	est := tokens.ForModel(model)
	reserved := s.cfg.ReservedTokens

	gen := review.GeneratorFunc(func(ctx context.Context, refinements []string) ([]string, error) {
		o := opts
		o.Refinements = refinements
		asm, err := prompt.Assemble(frags, budget, est, o)
		if err != nil {
			return nil, err
		}
		resp, err := backend.Complete(ctx, provider.Request{
			System:    asm.System,
			Prompt:    asm.User,
			MaxTokens: reserved,
		})
		if err != nil {
			return nil, err
		}
		return resp.Candidates, nil
	})

	first, err := generateOne(ctx, gen, nil)
	if err != nil {
		sendWSError(conn, err.Error())
		return nil
	}

	sess := &wsSession{session: review.NewSession(first), gen: gen}
	sendCandidate(conn, sess)
	return sess
}

func handleWSRegenerate(ctx context.Context, conn *websocket.Conn, sess *wsSession, data json.RawMessage) {
	if len(data) > 0 {
		var req wsRegenerate
		if err := json.Unmarshal(data, &req); err != nil {
			sendWSError(conn, "invalid regenerate data")
			return
		}
		if r := strings.TrimSpace(req.Refinement); r != "" {
			sess.refinements = append(sess.refinements, r)
		}
	}

	sess.session.BeginRegenerate()
	text, err := generateOne(ctx, sess.gen, sess.refinements)
	if err != nil {
		sess.session.FailRegenerate()
		sendWSError(conn, err.Error())
		sendCandidate(conn, sess)
		return
	}
	sess.session.Push(text)
	sendCandidate(conn, sess)
}

func handleWSEdit(conn *websocket.Conn, sess *wsSession, data json.RawMessage) {
	var req wsEdit
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid edit data")
		return
	}
	if err := sess.session.FinishEdit(req.Text); err != nil {
		sendWSError(conn, err.Error())
		return
	}
	sendCandidate(conn, sess)
}

func handleWSPrevious(conn *websocket.Conn, sess *wsSession) {
	if !sess.session.Previous() {
		sendWSError(conn, "no earlier candidates")
		return
	}
	sendCandidate(conn, sess)
}

// generateOne runs the generator and returns the first usable candidate.
func generateOne(ctx context.Context, gen review.Generator, refinements []string) (string, error) {
	candidates, err := gen.Generate(ctx, refinements)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 || strings.TrimSpace(candidates[0]) == "" {
		return "", provider.ErrResponse
	}
	return strings.TrimSpace(candidates[0]), nil
}

func sendCandidate(conn *websocket.Conn, sess *wsSession) {
	sendWSMessage(conn, wsMsgCandidate, wsCandidate{
		SessionID: sess.session.ID,
		Text:      sess.session.Current,
		State:     sess.session.State.String(),
		History:   len(sess.session.History),
	})
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
