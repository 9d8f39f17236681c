package mcp

import (
	"encoding/json"
	"sync"

	"github.com/mgeist/partydeck/internal/game"
	"github.com/mgeist/partydeck/internal/log"
	"github.com/mgeist/partydeck/internal/web"
)

// GameSession wraps one engine session for stdio tool access. The AI host
// reads the same state view the browsers get, plus the events that
// happened since its last call.
type GameSession struct {
	mu      sync.Mutex
	sess    *game.Session
	logger  *log.MemoryLogger
	lastSeq int
}

// ToolResponse is the JSON envelope returned by every game tool.
type ToolResponse struct {
	Events  []web.EventView `json:"events,omitempty"`
	State   *web.StateView  `json:"state"`
	Waiting string          `json:"waiting,omitempty"` // what the engine is blocked on, if anything
}

// NewGameSession starts a session for the named players.
func NewGameSession(players []string, contentFile string, seed int64) (*GameSession, error) {
	var content *game.Content
	if contentFile != "" {
		c, err := game.LoadContent(contentFile)
		if err != nil {
			return nil, err
		}
		content = c
	}

	logger := log.NewMemoryLogger()
	sess, err := game.NewSession(game.Config{
		PlayerNames: players,
		Content:     content,
		Logger:      logger,
		Seed:        seed,
	})
	if err != nil {
		return nil, err
	}
	return &GameSession{sess: sess, logger: logger}, nil
}

// do runs one command against the session and returns the resulting
// response, consuming the events it produced.
func (gs *GameSession) do(fn func(s *game.Session)) *ToolResponse {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if fn != nil {
		fn(gs.sess)
	}
	return gs.responseLocked()
}

func (gs *GameSession) responseLocked() *ToolResponse {
	resp := &ToolResponse{State: web.BuildStateView(gs.sess)}
	for _, e := range gs.logger.Events() {
		if e.Seq <= gs.lastSeq {
			continue
		}
		gs.lastSeq = e.Seq
		resp.Events = append(resp.Events, web.EventView{
			Seq:              e.Seq,
			Turn:             e.Turn,
			Kind:             e.Kind.String(),
			Details:          e.Details,
			LeaderboardTopic: e.LeaderboardTopic,
		})
	}
	resp.Waiting = gs.waitingLocked()
	return resp
}

// waitingLocked names the suspension the engine is blocked on, so the AI
// host knows which tool to call next.
func (gs *GameSession) waitingLocked() string {
	s := gs.sess
	switch {
	case s.Choice != nil:
		return "choice: resolve with choose_option"
	case s.Target != nil:
		return "target: resolve with pick_player"
	case s.Penalty.Shown && s.Penalty.Source.Blocking():
		return "penalty: resolve with confirm_penalty"
	default:
		return ""
	}
}

// respondJSON marshals a tool response for the text result.
func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "marshal failed"}`
	}
	return string(data)
}
