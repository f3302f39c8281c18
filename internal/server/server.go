// Package server exposes the match engine over a WebSocket JSON
// protocol. Each connection is one player; deltas from accepted actions
// are broadcast to every connection subscribed to the match.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/config"
	"github.com/ascentcg/ascent-server-go/internal/game"
	"github.com/ascentcg/ascent-server-go/internal/lobby"
	"github.com/ascentcg/ascent-server-go/internal/repository"
)

// ResultStore persists finished matches. A nil store disables
// persistence.
type ResultStore interface {
	SaveResult(ctx context.Context, res repository.MatchResult) error
}

// Gateway is the WebSocket front of the engine.
type Gateway struct {
	cfg    config.ServerConfig
	replay config.ReplayConfig
	engine *game.Engine
	lobby  *lobby.Manager
	store  ResultStore
	logger *zap.Logger

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	subs    map[uuid.UUID]map[*client]struct{}
	waiting map[string]*client

	httpServer *http.Server
}

// client is one WebSocket connection.
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	matchID  uuid.UUID

	mu     sync.Mutex
	closed bool
}

// deliver queues raw for the write pump. Delivery is best effort: a
// full buffer drops the message and a disconnected client ignores it.
func (c *client) deliver(raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

// shutdown closes the send channel exactly once; only the read pump's
// exit path calls it.
func (c *client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// NewGateway creates the gateway. store may be nil.
func NewGateway(cfg config.ServerConfig, replay config.ReplayConfig, engine *game.Engine, store ResultStore, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		replay: replay,
		engine: engine,
		lobby:  lobby.NewManager(logger),
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs:    make(map[uuid.UUID]map[*client]struct{}),
		waiting: make(map[string]*client),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	g.httpServer = &http.Server{
		Addr:    g.cfg.Address,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("websocket gateway listening", zap.String("address", g.cfg.Address))
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), g.cfg.ShutdownTimeout)
	defer cancel()
	if err := g.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	g.logger.Info("websocket gateway stopped")
	return nil
}

// Handler exposes the mux for tests.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.serveWS)
	return mux
}

func (g *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go g.writePump(c)
	g.readPump(c)
}

func (g *Gateway) readPump(c *client) {
	defer func() {
		if c.playerID != "" && g.lobby.Leave(c.playerID) {
			g.mu.Lock()
			delete(g.waiting, c.playerID)
			g.mu.Unlock()
		}
		g.unsubscribe(c)
		c.shutdown()
		c.conn.Close()
	}()

	if g.cfg.ReadTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(g.cfg.ReadTimeout))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(g.cfg.ReadTimeout))
		})
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			g.reply(c, errorMessage(fmt.Errorf("malformed message: %w", err)))
			continue
		}
		g.handleMessage(c, msg)
	}
}

func (g *Gateway) writePump(c *client) {
	interval := g.cfg.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if g.cfg.WriteTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) handleMessage(c *client, msg clientMessage) {
	switch msg.Type {
	case msgCreateMatch:
		g.handleCreate(c, msg)
	case msgJoinQueue:
		g.handleJoinQueue(c, msg)
	case msgLeaveQueue:
		g.handleLeaveQueue(c, msg)
	case msgSubmitAction:
		g.handleAction(c, msg)
	case msgView:
		g.handleView(c, msg)
	case msgOutcome:
		g.handleOutcome(c, msg)
	default:
		g.reply(c, errorMessage(fmt.Errorf("unknown message type %q", msg.Type)))
	}
}

func (g *Gateway) handleCreate(c *client, msg clientMessage) {
	if msg.Create == nil {
		g.reply(c, errorMessage(fmt.Errorf("create_match needs a create body")))
		return
	}
	id, delta, err := g.engine.CreateMatch(msg.Create.PlayerOne.setup(), msg.Create.PlayerTwo.setup())
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}

	g.subscribe(c, id)
	g.reply(c, serverMessage{Type: msgMatchCreated, MatchID: id.String(), Delta: encodeDelta(delta)})
}

// handleJoinQueue queues the player; the second join pairs both players
// into a fresh match and notifies both connections.
func (g *Gateway) handleJoinQueue(c *client, msg clientMessage) {
	setup := playerBody{ID: msg.PlayerID, Deck: msg.Deck}.setup()
	opponent, paired, err := g.lobby.Join(setup)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	c.playerID = msg.PlayerID

	if !paired {
		g.mu.Lock()
		g.waiting[msg.PlayerID] = c
		g.mu.Unlock()
		g.reply(c, serverMessage{Type: msgQueued})
		return
	}

	g.mu.Lock()
	first := g.waiting[opponent.Player.ID]
	delete(g.waiting, opponent.Player.ID)
	g.mu.Unlock()

	id, delta, err := g.engine.CreateMatch(opponent.Player, setup)
	if err != nil {
		reply := errorMessage(err)
		g.reply(c, reply)
		if first != nil {
			g.reply(first, reply)
		}
		return
	}

	created := serverMessage{Type: msgMatchCreated, MatchID: id.String(), Delta: encodeDelta(delta)}
	g.subscribe(c, id)
	g.reply(c, created)
	if first != nil {
		g.subscribe(first, id)
		g.reply(first, created)
	}
}

func (g *Gateway) handleLeaveQueue(c *client, msg clientMessage) {
	if g.lobby.Leave(msg.PlayerID) {
		g.mu.Lock()
		delete(g.waiting, msg.PlayerID)
		g.mu.Unlock()
	}
	g.reply(c, serverMessage{Type: msgQueued})
}

func (g *Gateway) handleAction(c *client, msg clientMessage) {
	matchID, err := g.resolveMatchID(c, msg)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	if msg.Action == nil {
		g.reply(c, errorMessage(fmt.Errorf("submit_action needs an action body")))
		return
	}
	action, err := msg.Action.action()
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}

	delta, err := g.engine.SubmitAction(matchID, msg.PlayerID, action)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}

	g.broadcast(matchID, serverMessage{Type: msgDelta, MatchID: matchID.String(), Delta: encodeDelta(delta)})
	if delta.Terminal != nil {
		g.finishMatch(matchID, delta)
	}
}

func (g *Gateway) handleView(c *client, msg clientMessage) {
	matchID, err := g.resolveMatchID(c, msg)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	view, err := g.engine.View(matchID, msg.PlayerID)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	g.subscribe(c, matchID)
	g.reply(c, serverMessage{Type: msgViewState, MatchID: matchID.String(), View: view})
}

func (g *Gateway) handleOutcome(c *client, msg clientMessage) {
	matchID, err := g.resolveMatchID(c, msg)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	out, done, err := g.engine.Outcome(matchID)
	if err != nil {
		g.reply(c, errorMessage(err))
		return
	}
	reply := serverMessage{Type: msgOutcomeState, MatchID: matchID.String()}
	if done {
		reply.Outcome = out.String()
	}
	g.reply(c, reply)
}

// finishMatch persists the replay and the result once a match reaches a
// terminal state. Failures are logged, never fatal: the match itself is
// already decided.
func (g *Gateway) finishMatch(matchID uuid.UUID, delta *game.StateDelta) {
	record, err := g.engine.ReplayRecord(matchID)
	if err != nil {
		g.logger.Error("failed to snapshot replay", zap.String("match_id", matchID.String()), zap.Error(err))
		return
	}

	if g.replay.Enabled {
		path := filepath.Join(g.replay.Dir, matchID.String()+".replay")
		if err := record.SaveFile(path); err != nil {
			g.logger.Error("failed to save replay",
				zap.String("match_id", matchID.String()),
				zap.String("path", path),
				zap.Error(err),
			)
		} else {
			g.logger.Info("replay saved", zap.String("match_id", matchID.String()), zap.String("path", path))
		}
	}

	if g.store != nil {
		res := repository.MatchResult{
			MatchID:   matchID,
			PlayerOne: record.Players[0].ID,
			PlayerTwo: record.Players[1].ID,
			Result:    delta.Terminal.Result.String(),
			Winner:    delta.Terminal.Winner,
			Turns:     delta.Turn,
			Checksum:  record.FinalChecksum,
			EndedAt:   time.Now().UTC(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.store.SaveResult(ctx, res); err != nil {
			g.logger.Error("failed to persist match result",
				zap.String("match_id", matchID.String()),
				zap.Error(err),
			)
		}
	}
}

func (g *Gateway) resolveMatchID(c *client, msg clientMessage) (uuid.UUID, error) {
	if msg.MatchID != "" {
		id, err := uuid.Parse(msg.MatchID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid match id %q: %w", msg.MatchID, err)
		}
		return id, nil
	}
	if c.matchID != uuid.Nil {
		return c.matchID, nil
	}
	return uuid.Nil, fmt.Errorf("no match id given and none joined")
}

func (g *Gateway) subscribe(c *client, matchID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.matchID == matchID {
		return
	}
	if c.matchID != uuid.Nil {
		g.dropLocked(c, c.matchID)
	}
	c.matchID = matchID
	set, ok := g.subs[matchID]
	if !ok {
		set = make(map[*client]struct{})
		g.subs[matchID] = set
	}
	set[c] = struct{}{}
}

func (g *Gateway) unsubscribe(c *client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.matchID != uuid.Nil {
		g.dropLocked(c, c.matchID)
	}
}

func (g *Gateway) dropLocked(c *client, matchID uuid.UUID) {
	if set, ok := g.subs[matchID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(g.subs, matchID)
		}
	}
}

func (g *Gateway) broadcast(matchID uuid.UUID, msg serverMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for c := range g.subs[matchID] {
		// A slow consumer misses this delta and can resync with a
		// view request.
		c.deliver(raw)
	}
}

func (g *Gateway) reply(c *client, msg serverMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to marshal reply", zap.Error(err))
		return
	}
	c.deliver(raw)
}
