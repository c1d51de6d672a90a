/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Whosthat Creature Game
//
// The player thinks of a creature from the roster and answers yes, no or
// "don't know" to the questions the server asks, until it can name the
// creature or runs out of questions.
//
// Features:
// - WebSockets per game ID: /creatures/:gameid and /creatures/:gameid/ws
// - Everyone connected to a game ID sees the same game; one answer is
//   processed at a time
// - Players identified by cookie (UUID)
// - "Why not X?" explanations list the answers that ruled a creature out
// - Autocomplete suggestions at /creatures/:gameid/suggestions
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/whosthat/games/guess"
	"github.com/Seednode/whosthat/games/roster"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "new_game", "answer", "explain"
	Response string `json:"response,omitempty"` // answer
	Name     string `json:"name,omitempty"`     // explain
}

// GameStateMessage carries a snapshot of the session's game.
type GameStateMessage struct {
	Type string `json:"type"` // "game_state"
	guess.Snapshot
}

// ExplanationMessage answers an "explain" request, to the asking client only.
type ExplanationMessage struct {
	Type string `json:"type"` // "explanation"
	Name string `json:"name"`
	guess.Explanation
}

// ErrorMessage is sent to a single client when its request failed.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type command struct {
	client *Client
	msg    ClientMessage
}

// Hub owns one game. Its run loop is the only goroutine that touches the
// game or the client set, so commands are applied one at a time.
type Hub struct {
	id      string
	game    *guess.Game
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan command
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time
}

func newHub(gameID string, game *guess.Game) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		game:       game,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive
}

// stop ends the run loop, which disconnects every client.
func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				h.drop(c)
				_ = c.conn.Close()
			}

			logf(cfg, "GAMES: Closed game %s after %s", h.id, time.Since(h.createdAt).Round(time.Second))

			return

		case c := <-h.register:
			h.touch()

			h.clients[c] = true

			h.deliver(c, h.stateMessage())

		case c := <-h.unreg:
			h.touch()

			h.drop(c)

		case cmd := <-h.commands:
			h.touch()

			h.handleCommand(cfg, cmd)
		}
	}
}

func (h *Hub) stateMessage() GameStateMessage {
	return GameStateMessage{
		Type:     "game_state",
		Snapshot: h.game.State(),
	}
}

// deliver queues msg for c, dropping clients that cannot keep up. Only
// the run loop calls deliver, drop and broadcastState.
func (h *Hub) deliver(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastState() {
	msg := h.stateMessage()

	for client := range h.clients {
		h.deliver(client, msg)
	}
}

func (h *Hub) handleCommand(cfg *Config, cmd command) {
	c := cmd.client
	msg := cmd.msg

	switch msg.Type {
	case "new_game":
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := h.game.StartNewGame(ctx)
		cancel()

		if err != nil {
			logf(cfg, "GAMES: Failed to start game %s: %v", h.id, err)

			text := "Unable to start a game right now. Please try again."
			if errors.Is(err, roster.ErrUnavailable) || errors.Is(err, guess.ErrNoEntities) {
				text = "The creature roster is unavailable. Please try again later."
			}

			h.deliver(c, ErrorMessage{Type: "error", Message: text})

			return
		}

		logf(cfg, "GAMES: Started a new game in %s", h.id)

		h.broadcastState()

	case "answer":
		r, err := guess.ParseResponse(msg.Response)
		if err != nil {
			h.deliver(c, ErrorMessage{Type: "error", Message: "Please answer yes, no or unknown."})

			return
		}

		h.game.AnswerQuestion(r)

		snap := h.game.State()
		if snap.Complete {
			name := "nothing"
			if snap.Guess != nil {
				name = snap.Guess.Name
			}
			logf(cfg, "GAMES: Game %s finished (%s) guessing %s after %d questions", h.id, snap.Reason, name, snap.Asked)
		}

		h.broadcastState()

	case "explain":
		name := strings.TrimSpace(msg.Name)
		if name == "" {
			h.deliver(c, ErrorMessage{Type: "error", Message: "Enter a creature name to explain."})

			return
		}

		h.deliver(c, ExplanationMessage{
			Type:        "explanation",
			Name:        name,
			Explanation: h.game.ExplainElimination(name),
		})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "whosthat_id"

func getOrSetPlayerID(cfg *Config, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     cfg.prefix + "/",
		HttpOnly: true,
		Secure:   cfg.scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session. All hubs share one roster provider.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	cfg      *Config
	provider guess.Provider

	cancel context.CancelFunc
}

func newGameManager(ctx context.Context, cfg *Config, provider guess.Provider) *GameManager {
	ctx, cancel := context.WithCancel(ctx)

	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		cfg:         cfg,
		provider:    provider,
		cancel:      cancel,
	}

	if gm.idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}

	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	game := guess.New(gm.provider,
		guess.WithBudget(gm.cfg.questions),
		guess.WithLogger(gameLogger(gm.cfg)),
	)

	hub := newHub(gameID, game)
	gm.hubs[gameID] = hub
	go hub.run(gm.cfg)

	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}

		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap stops and forgets hubs idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// stop ends the reaper and every hub.
func (gm *GameManager) stop() {
	gm.cancel()

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.stop()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(cfg, w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			logf(cfg, "SERVE: WebSocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Player %s connected to %s from %s", playerID, gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "new_game", "answer", "explain":
			select {
			case h.commands <- command{client: c, msg: msg}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func serveSuggestions(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		suggestions, err := gm.getHub(ps.ByName("gameid")).game.Suggestions(r.Context())
		if err != nil {
			logf(cfg, "GAMES: Suggestions unavailable: %v", err)
			http.Error(w, "roster unavailable", http.StatusServiceUnavailable)
			return
		}

		data, err := json.Marshal(suggestions)
		if err != nil {
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Suggestions (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// qrHandler generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}

func getIndexHandler(cfg *Config) httprouter.Handle {
	page, err := assets.ReadFile("assets/creatures/index.html")
	if err != nil {
		panic("missing embedded creature page: " + err.Error())
	}

	page = withPrefix(cfg, page)

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(cfg, w, r)

		_, _ = w.Write(page)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerCreatureGame sets up routes so that:
//   - $path                      → redirects to new random game (8-char ID)
//   - $path/:gameid              → HTML client
//   - $path/:gameid/ws           → WebSocket for that game
//   - $path/:gameid/suggestions  → JSON roster listing for autocomplete
//   - $path/:gameid/qr           → PNG QR code for that game URL
func registerCreatureGame(ctx context.Context, cfg *Config, path string, provider guess.Provider, mux *httprouter.Router, errs chan<- error) *GameManager {
	gm := newGameManager(ctx, cfg, provider)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/suggestions", serveSuggestions(cfg, gm, errs))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	return gm
}
