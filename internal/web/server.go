package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mgeist/partydeck/internal/game"
	"github.com/mgeist/partydeck/internal/log"
)

//go:embed static
var staticFiles embed.FS

// Config holds the web server settings.
type Config struct {
	Addr        string   // listen address, e.g. ":8080"
	PublicURL   string   // URL encoded into the join QR code
	PlayerNames []string // initial table; empty waits for POST /api/game
	ContentFile string   // optional content YAML override
	Seed        int64
}

// Server hosts one shared game session for all connected browsers. Every
// state change is pushed to every client, so phones around the table stay
// in sync.
type Server struct {
	cfg    Config
	logger *logrus.Logger
	router *httprouter.Router

	mu      sync.Mutex
	session *game.Session
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// command is the JSON envelope browsers send over the websocket.
type command struct {
	Cmd    string `json:"cmd"`
	Slot   int    `json:"slot"`
	Player int    `json:"player"`
	ID     string `json:"id"`
	Item   string `json:"item"`
	Topic  string `json:"topic"`
}

// NewServer builds the server and, when player names are configured,
// starts the session immediately.
func NewServer(cfg Config, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  httprouter.New(),
		clients: make(map[*client]struct{}),
	}
	s.routes()

	if len(cfg.PlayerNames) > 0 {
		if err := s.startSession(cfg.PlayerNames); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) routes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.router.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.Copy(w, f)
	})
	s.router.ServeFiles("/static/*filepath", http.FS(staticFS))

	s.router.GET("/qr", s.handleQR)
	s.router.GET("/api/state", s.handleState)
	s.router.POST("/api/game", s.handleNewGame)
	s.router.GET("/ws", s.handleWebSocket)
}

// startSession replaces the active session. Held locks: none.
func (s *Server) startSession(names []string) error {
	var content *game.Content
	if s.cfg.ContentFile != "" {
		c, err := game.LoadContent(s.cfg.ContentFile)
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}
		content = c
	}

	sess, err := game.NewSession(game.Config{
		PlayerNames: names,
		Content:     content,
		Logger:      log.NewMemoryLogger(),
		Seed:        s.cfg.Seed,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session = sess
	sess.OnRefresh(s.broadcastLocked)
	s.mu.Unlock()

	s.logger.WithField("players", names).Info("session started")
	s.broadcast()
	return nil
}

// broadcastLocked pushes the current state to all clients. Callers hold
// s.mu (the refresh callback fires inside locked command handling).
func (s *Server) broadcastLocked() {
	if s.session == nil {
		return
	}
	data, err := json.Marshal(BuildStateView(s.session))
	if err != nil {
		s.logger.WithError(err).Error("marshal state")
		return
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Slow client; it will catch up on its next command.
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked()
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	url := s.cfg.PublicURL
	if url == "" {
		url = "http://" + r.Host + "/"
	}
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BuildStateView(s.session))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Players []string `json:"players"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.startSession(req.Players); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-table phones connect from arbitrary origins
	})
	if err != nil {
		s.logger.WithError(err).Warn("websocket accept")
		return
	}
	defer conn.CloseNow()

	c := &client{conn: conn, send: make(chan []byte, 8)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	ctx := r.Context()
	go c.writeLoop(ctx)

	// Send the initial state to the newcomer.
	s.broadcast()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.logger.WithError(err).Warn("bad command")
			continue
		}
		s.dispatch(cmd)
	}
}

func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

// dispatch runs one browser command against the session under the lock.
// The session's refresh callback handles the resulting broadcast; commands
// that change nothing still push a state so the sender re-syncs.
func (s *Server) dispatch(cmd command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	sess := s.session

	switch cmd.Cmd {
	case "click_card":
		sess.ClickCard(cmd.Slot)
	case "click_player":
		sess.ClickPlayer(cmd.Player)
	case "choose":
		sess.ChooseOption(cmd.ID)
	case "confirm_penalty":
		sess.ConfirmPenalty()
	case "close_penalty":
		sess.ClosePenalty()
	case "redraw":
		sess.Redraw()
	case "use_item":
		sess.UseItem(cmd.Player, cmd.Item)
	case "leaderboard":
		sess.AnnounceLeaderboard(game.ParseStatTopic(cmd.Topic))
	default:
		s.logger.WithField("cmd", cmd.Cmd).Warn("unknown command")
	}
	s.broadcastLocked()
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.cfg.Addr).Info("listening")
	return http.ListenAndServe(s.cfg.Addr, s.router)
}
