package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	gamelog "github.com/peterkuimelis/cardstorm/internal/log"
	"github.com/peterkuimelis/cardstorm/internal/sim"
)

//go:embed static
var staticFiles embed.FS

// Server is the cardstorm replay server.
type Server struct {
	db  *sim.Database
	mux *http.ServeMux
}

// NewServer creates a new web server backed by the given card and
// encounter databases.
func NewServer(cardsFile, encountersFile string) (*Server, error) {
	db, err := sim.LoadDatabase(cardsFile, encountersFile)
	if err != nil {
		return nil, err
	}
	s := &Server{
		db:  db,
		mux: http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/monsters", s.handleMonsters)

	// WebSocket replay streaming
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CardList(s.db))
}

func (s *Server) handleMonsters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MonsterList(s.db))
}

// simulateRequest is the first message the browser sends over /ws.
type simulateRequest struct {
	Type     string            `json:"type"`
	Sides    [2]sim.SideConfig `json:"sides"`
	MaxTicks int               `json:"max_ticks"`
}

// replayFrame carries one tick of the replay plus the events it produced.
type replayFrame struct {
	Type   string          `json:"type"`
	State  *StateView      `json:"state"`
	Events []EventViewJSON `json:"events,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	_, reqData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read request: %v", err)
		return
	}

	var req simulateRequest
	if err := json.Unmarshal(reqData, &req); err != nil || req.Type != "simulate" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected simulate message")
		return
	}

	writeJSON := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return wsConn.Write(ctx, websocket.MessageText, data)
	}

	maxTicks := req.MaxTicks
	if maxTicks == 0 {
		maxTicks = sim.Unbounded
	}

	states, events, result, err := runReplay(s.db, req.Sides, maxTicks)
	if err != nil {
		writeJSON(map[string]string{"type": "error", "result": err.Error()})
		wsConn.Close(websocket.StatusNormalClosure, "simulation failed")
		return
	}

	if err := writeJSON(map[string]any{
		"type":   "start",
		"run_id": uuid.NewString(),
		"frames": len(states),
		"result": result,
	}); err != nil {
		log.Printf("WebSocket write start: %v", err)
		return
	}

	// Stream one frame per tick, attaching the events that happened on it.
	byTick := make(map[int][]EventViewJSON)
	for _, e := range events {
		byTick[e.Tick] = append(byTick[e.Tick], EventViewJSON{
			Tick:    e.Tick,
			Player:  e.Player,
			Type:    e.Type.String(),
			Card:    e.Card,
			Details: e.Details,
		})
	}
	for _, gs := range states {
		frame := replayFrame{
			Type:   "frame",
			State:  BuildStateView(gs),
			Events: byTick[gs.Tick],
		}
		if err := writeJSON(frame); err != nil {
			log.Printf("WebSocket write frame: %v", err)
			return
		}
	}

	writeJSON(map[string]string{"type": "end", "result": result})
	wsConn.Close(websocket.StatusNormalClosure, "replay complete")
}

// runReplay builds and runs a fight, returning the full state history,
// the event log, and the outcome.
func runReplay(db *sim.Database, sides [2]sim.SideConfig, maxTicks int) ([]*sim.GameState, []gamelog.GameEvent, string, error) {
	gs, err := sim.NewInitialState(db, sides)
	if err != nil {
		return nil, nil, "", err
	}
	logger := gamelog.NewMemoryLogger()
	runner := &sim.Runner{Logger: logger}
	states, err := runner.Run(gs, maxTicks)
	if err != nil {
		return nil, nil, "", err
	}
	final := states[len(states)-1]
	return states, logger.Events(), sim.Result(final), nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
