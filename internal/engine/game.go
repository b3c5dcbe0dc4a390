package engine

import "errors"

var ErrWrongPhase = errors.New("wrong game phase")
var ErrGameFull = errors.New("game is full")
var ErrNameTaken = errors.New("name already taken")
var ErrPlayerNotFound = errors.New("player not found")
var ErrInactivePlayer = errors.New("player is jailed or bankrupt")
var ErrAlreadyActed = errors.New("action already submitted this round")
var ErrAlreadyVoted = errors.New("accusation already submitted this round")
var ErrNotEnoughPlayers = errors.New("need at least two players")

type Phase string

const (
	PhaseWaiting         Phase = "waiting"
	PhaseInProgress      Phase = "inprogress"
	PhaseProcessing      Phase = "processing"
	PhaseAccusing        Phase = "accusing"
	PhaseFinalProcessing Phase = "final_processing"
)

// PassVote keys a vote that accuses nobody.
const PassVote = ""

// Player holds one participant's economic and voting state. The transport
// binding is a non-owning client id, "" while disconnected; it is rebound on
// the player's next action or vote.
type Player struct {
	Name           string
	ClientID       string
	Cash           int
	Jailed         bool
	Bankrupt       bool
	ActionTaken    bool
	AccusationSent bool
	PendingAmount  int
	RoundStartCash int
}

func (p *Player) Connected() bool { return p.ClientID != "" }

// Active reports whether the player counts toward phase advancement.
func (p *Player) Active() bool { return !p.Jailed && !p.Bankrupt && p.Connected() }

// PendingAction is one settled transaction, in processing order.
type PendingAction struct {
	Name   string
	Amount int
}

type AccusationResult struct {
	Accused string
	Guilty  bool
	Amount  int
}

// BalanceReveal is the transient payload behind a show-balance request.
type BalanceReveal struct {
	PlayerName string
	Cash       int
}

type Game struct {
	ID                  string
	MaxPlayers          int
	StartingCash        int
	Phase               Phase
	Round               int
	Players             []*Player
	Bank                int
	ActionsReceived     int
	AccusationsReceived int
	AccusationVotes     map[string]int
	PendingActions      []PendingAction
	AccusationResult    *AccusationResult
	BalanceReveal       *BalanceReveal
}

func NewGame(id string, maxPlayers, startingCash int) *Game {
	return &Game{
		ID:              id,
		MaxPlayers:      maxPlayers,
		StartingCash:    startingCash,
		Phase:           PhaseWaiting,
		Round:           1,
		AccusationVotes: map[string]int{},
	}
}

// transitions is the only legal phase cycle.
var transitions = map[Phase]Phase{
	PhaseWaiting:         PhaseInProgress,
	PhaseInProgress:      PhaseProcessing,
	PhaseProcessing:      PhaseAccusing,
	PhaseAccusing:        PhaseFinalProcessing,
	PhaseFinalProcessing: PhaseInProgress,
}

func (g *Game) transition(next Phase) error {
	if transitions[g.Phase] != next {
		return ErrWrongPhase
	}
	g.Phase = next
	return nil
}

func (g *Game) FindPlayer(name string) *Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *Game) PlayerByClient(clientID string) *Player {
	if clientID == "" {
		return nil
	}
	for _, p := range g.Players {
		if p.ClientID == clientID {
			return p
		}
	}
	return nil
}

func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Active() {
			n++
		}
	}
	return n
}

// Open reports whether the game should appear in the public list.
func (g *Game) Open() bool {
	return g.Phase == PhaseWaiting || g.Phase == PhaseInProgress
}

// AddPlayer joins a new player while the game is waiting. Reaching capacity
// starts the game.
func (g *Game) AddPlayer(name, clientID string) (*Player, error) {
	if g.Phase != PhaseWaiting {
		return nil, ErrWrongPhase
	}
	if len(g.Players) >= g.MaxPlayers {
		return nil, ErrGameFull
	}
	if g.FindPlayer(name) != nil {
		return nil, ErrNameTaken
	}
	p := &Player{
		Name:           name,
		ClientID:       clientID,
		Cash:           g.StartingCash,
		RoundStartCash: g.StartingCash,
	}
	g.Players = append(g.Players, p)
	if len(g.Players) == g.MaxPlayers {
		_ = g.transition(PhaseInProgress)
	}
	return p, nil
}

// Start begins play early, before capacity is reached.
func (g *Game) Start() error {
	if g.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	return g.transition(PhaseInProgress)
}

// SubmitAction records a player's hidden transaction for the round. Once
// every active player has acted the round settles and the game moves to
// processing; the returned flag reports that settlement ran.
func (g *Game) SubmitAction(name, clientID string, amount int) (bool, error) {
	if g.Phase != PhaseInProgress {
		return false, ErrWrongPhase
	}
	p := g.FindPlayer(name)
	if p == nil {
		return false, ErrPlayerNotFound
	}
	if p.Jailed || p.Bankrupt {
		return false, ErrInactivePlayer
	}
	if p.ActionTaken {
		return false, ErrAlreadyActed
	}
	if p.ClientID == "" {
		p.ClientID = clientID
	}
	p.ActionTaken = true
	p.PendingAmount = amount
	g.ActionsReceived++

	if g.ActionsReceived >= g.ActiveCount() {
		settle(g)
		_ = g.transition(PhaseProcessing)
		return true, nil
	}
	return false, nil
}

// BeginAccusing moves from processing to accusing once the client side
// signals its settlement animations are done.
func (g *Game) BeginAccusing() error {
	if err := g.transition(PhaseAccusing); err != nil {
		return err
	}
	g.AccusationsReceived = 0
	g.AccusationVotes = map[string]int{}
	for _, p := range g.Players {
		p.AccusationSent = false
	}
	return nil
}

// SubmitVote records one accusation (accused == PassVote to pass). Once every
// active player has voted the accusation resolves and the game moves to
// final processing; the returned flag reports that resolution ran.
func (g *Game) SubmitVote(name, clientID, accused string) (bool, error) {
	if g.Phase != PhaseAccusing {
		return false, ErrWrongPhase
	}
	p := g.FindPlayer(name)
	if p == nil {
		return false, ErrPlayerNotFound
	}
	if p.Jailed || p.Bankrupt {
		return false, ErrInactivePlayer
	}
	if p.AccusationSent {
		return false, ErrAlreadyVoted
	}
	if p.ClientID == "" {
		p.ClientID = clientID
	}
	p.AccusationSent = true
	g.AccusationVotes[accused]++
	g.AccusationsReceived++

	if g.AccusationsReceived >= g.ActiveCount() {
		resolveAccusation(g)
		_ = g.transition(PhaseFinalProcessing)
		return true, nil
	}
	return false, nil
}

// FinishRound clears the verdict display and returns to play. Called when the
// post-verdict delay elapses.
func (g *Game) FinishRound() error {
	if err := g.transition(PhaseInProgress); err != nil {
		return err
	}
	g.AccusationResult = nil
	return nil
}
