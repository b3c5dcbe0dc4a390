package hub

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmarlow/cashout-backend/internal/engine"
	"github.com/tmarlow/cashout-backend/pkg/types"
)

type Msg interface{ isHubMsg() }

// Join registers a connected client and its snapshot outbox.
type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

func (Join) isHubMsg() {}

// Leave is transport-originated: the connection is gone. The player record,
// if any, stays; only its client binding is cleared.
type Leave struct{ ClientID string }

func (Leave) isHubMsg() {}

type FromClient struct {
	ClientID string
	Cmd      Command
}

func (FromClient) isHubMsg() {}

type GetOpenGames struct {
	Reply chan []types.OpenGame
}

func (GetOpenGames) isHubMsg() {}

// GetView reflects internal state without data races; test and API use only.
type GetView struct {
	GameID string
	Reply  chan View
}

func (GetView) isHubMsg() {}

type View struct {
	NumClients int
	NumGames   int
	Snapshot   *types.GameSnapshot
}

type Shutdown struct{}

func (Shutdown) isHubMsg() {}

// timer-originated messages; handlers re-validate game and phase because a
// fire can race a delete or a faster round
type verdictShown struct {
	GameID string
	Round  int
}

func (verdictShown) isHubMsg() {}

type revealDone struct{ GameID string }

func (revealDone) isHubMsg() {}

type CommandType string

const (
	CmdCreateGame     CommandType = "CreateGame"
	CmdJoinGame       CommandType = "JoinGame"
	CmdStartGame      CommandType = "StartGame"
	CmdPlayerAction   CommandType = "PlayerAction"
	CmdAccuse         CommandType = "Accuse"
	CmdAnimationsDone CommandType = "AnimationsDone"
	CmdShowBalance    CommandType = "ShowBalance"
	CmdGetGames       CommandType = "GetGames"
	CmdGetGameState   CommandType = "GetGameState"
	CmdDeleteGame     CommandType = "DeleteGame"
	CmdEmoji          CommandType = "Emoji"
)

type Command struct {
	Type       CommandType
	GameID     string
	PlayerName string
	Amount     int
	Accused    string // engine.PassVote for a pass
	Emoji      string
}

type Options struct {
	GameCapacity int
	StartingCash int
	VerdictDelay time.Duration
	RevealDelay  time.Duration
}

func (o *Options) withDefaults() {
	if o.GameCapacity == 0 {
		o.GameCapacity = 10
	}
	if o.StartingCash == 0 {
		o.StartingCash = 1200
	}
	if o.VerdictDelay == 0 {
		o.VerdictDelay = 5 * time.Second
	}
	if o.RevealDelay == 0 {
		o.RevealDelay = time.Second
	}
}

type client struct {
	outbox chan types.ServerMessage
	gameID string
}

// gameTimers holds the at-most-one pending delay of each kind for a game, so
// deletion can cancel them.
type gameTimers struct {
	verdict *time.Timer
	reveal  *time.Timer
}

// Hub owns every game and every connected client. One goroutine processes the
// inbox; each message runs to completion before the next, so no game is ever
// mutated concurrently.
type Hub struct {
	inbox   chan Msg
	games   map[string]*engine.Game
	clients map[string]*client
	timers  map[string]*gameTimers
	opts    Options
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, opts Options, log *zap.Logger) *Hub {
	opts.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan Msg, 64),
		games:   make(map[string]*engine.Game),
		clients: make(map[string]*client),
		timers:  make(map[string]*gameTimers),
		opts:    opts,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Send posts a message unless the hub has shut down, so callers are never
// stuck on an inbox nobody drains. The return value reports acceptance.
func (h *Hub) Send(m Msg) bool {
	select {
	case <-h.ctx.Done():
		return false
	default:
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.clients[msg.ClientID] = &client{outbox: msg.Outbox}
				h.sendTo(msg.ClientID, types.ServerMessage{GamesList: h.openGames()})

			case Leave:
				h.handleLeave(msg.ClientID)

			case FromClient:
				h.handleCommand(msg.ClientID, msg.Cmd)

			case verdictShown:
				g := h.games[msg.GameID]
				if g == nil || g.Round != msg.Round {
					break
				}
				if err := g.FinishRound(); err != nil {
					break
				}
				h.broadcastGame(g)

			case revealDone:
				g := h.games[msg.GameID]
				if g == nil || g.BalanceReveal == nil {
					break
				}
				g.BalanceReveal = nil
				h.broadcastGame(g)

			case GetOpenGames:
				msg.Reply <- h.openGames()

			case GetView:
				v := View{NumClients: len(h.clients), NumGames: len(h.games)}
				if g := h.games[msg.GameID]; g != nil {
					snap := sanitize(g)
					v.Snapshot = &snap
				}
				msg.Reply <- v

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) handleLeave(clientID string) {
	if c := h.clients[clientID]; c != nil {
		close(c.outbox)
		delete(h.clients, clientID)
	}
	// The registry entry may already be gone (dropped as slow), but the
	// connection can still have a player bound to it: scan so the player
	// never counts as connected past their socket. A departure itself never
	// advances the phase; the next inbound action re-evaluates the count.
	for _, g := range h.games {
		p := g.PlayerByClient(clientID)
		if p == nil {
			continue
		}
		p.ClientID = ""
		h.log.Debug("player disconnected", zap.String("game", g.ID), zap.String("player", p.Name))
		h.broadcastGame(g)
		h.broadcastOpenGames()
		return
	}
}

func (h *Hub) handleCommand(clientID string, cmd Command) {
	switch cmd.Type {
	case CmdCreateGame:
		h.createGame(clientID, cmd)

	case CmdJoinGame:
		h.joinGame(clientID, cmd)

	case CmdStartGame:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		if err := g.Start(); err != nil {
			h.log.Debug("start rejected", zap.String("game", cmd.GameID), zap.Error(err))
			return
		}
		h.log.Info("game started", zap.String("game", g.ID), zap.Int("players", len(g.Players)))
		h.broadcastGame(g)
		h.broadcastOpenGames()

	case CmdPlayerAction:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		settled, err := g.SubmitAction(cmd.PlayerName, clientID, cmd.Amount)
		if err != nil {
			h.log.Debug("action rejected", zap.String("game", cmd.GameID),
				zap.String("player", cmd.PlayerName), zap.Error(err))
			return
		}
		h.bindClient(clientID, g.ID)
		if settled {
			h.log.Info("round settled", zap.String("game", g.ID),
				zap.Int("round", g.Round), zap.Int("bank", g.Bank))
		}
		h.broadcastGame(g)

	case CmdAccuse:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		resolved, err := g.SubmitVote(cmd.PlayerName, clientID, cmd.Accused)
		if err != nil {
			h.log.Debug("vote rejected", zap.String("game", cmd.GameID),
				zap.String("player", cmd.PlayerName), zap.Error(err))
			return
		}
		h.bindClient(clientID, g.ID)
		if resolved {
			if r := g.AccusationResult; r != nil {
				h.log.Info("verdict reached", zap.String("game", g.ID),
					zap.String("accused", r.Accused), zap.Bool("guilty", r.Guilty),
					zap.Int("amount", r.Amount))
			}
			h.schedule(g.ID, verdict, h.opts.VerdictDelay, verdictShown{GameID: g.ID, Round: g.Round})
		}
		h.broadcastGame(g)

	case CmdAnimationsDone:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		if err := g.BeginAccusing(); err != nil {
			return
		}
		h.broadcastGame(g)

	case CmdShowBalance:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		p := g.FindPlayer(cmd.PlayerName)
		if p == nil {
			return
		}
		g.BalanceReveal = &engine.BalanceReveal{PlayerName: p.Name, Cash: p.Cash}
		h.broadcastGame(g)
		h.schedule(g.ID, reveal, h.opts.RevealDelay, revealDone{GameID: g.ID})

	case CmdGetGames:
		h.sendTo(clientID, types.ServerMessage{GamesList: h.openGames()})

	case CmdGetGameState:
		g := h.games[cmd.GameID]
		if g == nil {
			return
		}
		snap := sanitize(g)
		h.sendTo(clientID, types.ServerMessage{GameState: &snap})

	case CmdDeleteGame:
		h.deleteGame(cmd.GameID)

	case CmdEmoji:
		h.relayEmoji(clientID, cmd.Emoji)
	}
}

func (h *Hub) createGame(clientID string, cmd Command) {
	if cmd.PlayerName == "" {
		h.sendTo(clientID, types.ServerMessage{Type: "error", Message: "player name required"})
		return
	}
	var id string
	for {
		id = strings.ToLower(uuid.NewString()[:5])
		if h.games[id] == nil {
			break
		}
	}
	g := engine.NewGame(id, h.opts.GameCapacity, h.opts.StartingCash)
	if _, err := g.AddPlayer(cmd.PlayerName, clientID); err != nil {
		h.sendTo(clientID, types.ServerMessage{Type: "error", Message: "cannot create game: " + err.Error()})
		return
	}
	h.games[id] = g
	h.bindClient(clientID, id)
	h.log.Info("game created", zap.String("game", id), zap.String("creator", cmd.PlayerName))

	h.sendTo(clientID, types.ServerMessage{Type: "gameCreated", GameID: id})
	h.broadcastGame(g)
	h.broadcastOpenGames()
}

func (h *Hub) joinGame(clientID string, cmd Command) {
	g := h.games[cmd.GameID]
	if g == nil {
		h.sendTo(clientID, types.ServerMessage{Type: "error", Message: "cannot join game: not found"})
		return
	}
	if _, err := g.AddPlayer(cmd.PlayerName, clientID); err != nil {
		h.sendTo(clientID, types.ServerMessage{Type: "error", Message: "cannot join game: " + err.Error()})
		return
	}
	h.bindClient(clientID, g.ID)
	h.log.Info("player joined", zap.String("game", g.ID), zap.String("player", cmd.PlayerName))
	h.broadcastGame(g)
	h.broadcastOpenGames()
}

func (h *Hub) deleteGame(gameID string) {
	g := h.games[gameID]
	if g == nil {
		return
	}
	for _, p := range g.Players {
		if p.ClientID == "" {
			continue
		}
		h.sendTo(p.ClientID, types.ServerMessage{Type: "gameDeleted"})
		if c := h.clients[p.ClientID]; c != nil {
			c.gameID = ""
		}
	}
	h.stopTimers(gameID)
	delete(h.games, gameID)
	h.log.Info("game deleted", zap.String("game", gameID))
	h.broadcastOpenGames()
}

func (h *Hub) relayEmoji(clientID, emoji string) {
	c := h.clients[clientID]
	if c == nil || c.gameID == "" {
		return
	}
	g := h.games[c.gameID]
	if g == nil {
		return
	}
	name := ""
	if p := g.PlayerByClient(clientID); p != nil {
		name = p.Name
	}
	msg := types.ServerMessage{Type: "emoji", PlayerName: name, Emoji: emoji}
	for id, peer := range h.clients {
		if peer.gameID == c.gameID {
			h.sendTo(id, msg)
		}
	}
}

// bindClient records which game a connection belongs to, re-attaching after a
// disconnect or a command sent over a fresh connection.
func (h *Hub) bindClient(clientID, gameID string) {
	if c := h.clients[clientID]; c != nil {
		c.gameID = gameID
	}
}

type timerKind int

const (
	verdict timerKind = iota
	reveal
)

// schedule arms the game's delay of the given kind, replacing any pending
// one. The timer posts back into the inbox so the fire is processed like any
// other message.
func (h *Hub) schedule(gameID string, kind timerKind, d time.Duration, m Msg) {
	t := h.timers[gameID]
	if t == nil {
		t = &gameTimers{}
		h.timers[gameID] = t
	}
	timer := time.AfterFunc(d, func() {
		select {
		case h.inbox <- m:
		case <-h.ctx.Done():
		}
	})
	switch kind {
	case verdict:
		if t.verdict != nil {
			t.verdict.Stop()
		}
		t.verdict = timer
	case reveal:
		if t.reveal != nil {
			t.reveal.Stop()
		}
		t.reveal = timer
	}
}

func (h *Hub) stopTimers(gameID string) {
	t := h.timers[gameID]
	if t == nil {
		return
	}
	if t.verdict != nil {
		t.verdict.Stop()
	}
	if t.reveal != nil {
		t.reveal.Stop()
	}
	delete(h.timers, gameID)
}

func (h *Hub) sendTo(clientID string, msg types.ServerMessage) {
	c := h.clients[clientID]
	if c == nil {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		// client is slow/full - drop them
		close(c.outbox)
		delete(h.clients, clientID)
		h.log.Warn("dropped slow client", zap.String("client", clientID))
	}
}

func (h *Hub) broadcastAll(msg types.ServerMessage) {
	for id := range h.clients {
		h.sendTo(id, msg)
	}
}

func (h *Hub) broadcastGame(g *engine.Game) {
	snap := sanitize(g)
	h.broadcastAll(types.ServerMessage{GameState: &snap})
}

func (h *Hub) broadcastOpenGames() {
	h.broadcastAll(types.ServerMessage{GamesList: h.openGames()})
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		close(c.outbox)
		delete(h.clients, id)
	}
	for id := range h.timers {
		h.stopTimers(id)
	}
	clear(h.games)
	h.cancel()
}
